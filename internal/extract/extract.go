// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract implements PDF text extraction with pluggable backends.
//
// The native backend parses the PDF in-process; the pdftotext backend
// shells out to poppler. A chain tries backends in order so a single
// malformed PDF does not sink the weekly run.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/threat-digest/pkg/types"
)

// Extractor pulls plain text out of a PDF file.
type Extractor interface {
	// Name returns the backend identifier.
	Name() string

	// Extract reads the PDF at pdfPath and returns its text content.
	Extract(ctx context.Context, pdfPath string) (string, error)
}

// Chain tries each extractor in order and returns the first result with
// usable text. Warnings for failed backends go to warn, which may be nil.
type Chain struct {
	extractors []Extractor
	warn       func(format string, args ...any)
}

// NewChain builds a chain over the given extractors.
func NewChain(warn func(format string, args ...any), extractors ...Extractor) *Chain {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Chain{extractors: extractors, warn: warn}
}

// FromConfig builds a chain from configured backend names. An empty list
// means native first, pdftotext as fallback.
func FromConfig(cfg types.ExtractConfig, warn func(format string, args ...any)) (*Chain, error) {
	backends := cfg.Backends
	if len(backends) == 0 {
		backends = []types.ExtractBackend{types.BackendNative, types.BackendPdftotext}
	}

	var extractors []Extractor
	for _, b := range backends {
		switch b {
		case types.BackendNative:
			extractors = append(extractors, &NativeExtractor{})
		case types.BackendPdftotext:
			extractors = append(extractors, NewPdftotextExtractor())
		default:
			return nil, fmt.Errorf("unknown extraction backend %q", b)
		}
	}
	return NewChain(warn, extractors...), nil
}

// Extract runs the chain. It returns an error only when every backend
// errored; a backend that succeeds with empty text ends the chain, since
// the PDF simply has no extractable text.
func (c *Chain) Extract(ctx context.Context, pdfPath string) (string, error) {
	var lastErr error
	for _, e := range c.extractors {
		text, err := e.Extract(ctx, pdfPath)
		if err != nil {
			c.warn("extraction backend %s failed: %v\n", e.Name(), err)
			lastErr = err
			continue
		}
		return strings.TrimSpace(text), nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("all extraction backends failed: %w", lastErr)
	}
	return "", fmt.Errorf("no extraction backends configured")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor parses the PDF in-process.
type NativeExtractor struct{}

// Name returns the backend identifier.
func (e *NativeExtractor) Name() string { return "native" }

// Extract reads the whole document's plain text. Per-page failures on a
// structurally sound file surface as a document-level error from the
// reader; the chain then falls through to the next backend.
func (e *NativeExtractor) Extract(ctx context.Context, pdfPath string) (text string, err error) {
	// The underlying parser panics on some malformed cross-reference
	// tables; convert that into an error so the chain can continue.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", pdfPath, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", pdfPath, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", fmt.Errorf("reading text from %s: %w", pdfPath, err)
	}
	return buf.String(), nil
}

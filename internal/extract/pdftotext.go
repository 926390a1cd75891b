// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const binPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(ctx context.Context, name string, args []string, stdout *bytes.Buffer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdout *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	return cmd.Run()
}

// PdftotextExtractor shells out to the poppler pdftotext binary, writing
// the text to stdout.
type PdftotextExtractor struct {
	exec executor
}

// NewPdftotextExtractor returns a pdftotext-backed extractor.
func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{exec: &osExecutor{}}
}

// Name returns the backend identifier.
func (e *PdftotextExtractor) Name() string { return binPdftotext }

// Available reports whether the pdftotext binary exists on PATH.
func (e *PdftotextExtractor) Available() bool {
	_, err := e.exec.LookPath(binPdftotext)
	return err == nil
}

// Extract runs pdftotext over the file and returns its stdout.
func (e *PdftotextExtractor) Extract(ctx context.Context, pdfPath string) (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("%s not found on PATH", binPdftotext)
	}

	var out bytes.Buffer
	args := []string{"-enc", "UTF-8", pdfPath, "-"}
	if err := e.exec.RunPiped(ctx, binPdftotext, args, &out); err != nil {
		return "", fmt.Errorf("running %s on %s: %w", binPdftotext, pdfPath, err)
	}
	return out.String(), nil
}

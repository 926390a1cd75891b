// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threat-digest/pkg/types"
)

// fakeExtractor is a canned backend for chain tests.
type fakeExtractor struct {
	name string
	text string
	err  error
}

func (f *fakeExtractor) Name() string { return f.name }

func (f *fakeExtractor) Extract(ctx context.Context, pdfPath string) (string, error) {
	return f.text, f.err
}

func TestChain_FirstBackendWins(t *testing.T) {
	c := NewChain(nil,
		&fakeExtractor{name: "a", text: "  primary text  "},
		&fakeExtractor{name: "b", text: "fallback text"},
	)

	text, err := c.Extract(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "primary text", text)
}

func TestChain_FallsThroughOnError(t *testing.T) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	c := NewChain(warn,
		&fakeExtractor{name: "a", err: fmt.Errorf("corrupt xref")},
		&fakeExtractor{name: "b", text: "fallback text"},
	)

	text, err := c.Extract(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "fallback text", text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "corrupt xref")
}

func TestChain_EmptyTextStopsChain(t *testing.T) {
	// A backend that succeeds with no text ends the chain: the PDF has
	// nothing extractable, trying another backend will not change that.
	c := NewChain(nil,
		&fakeExtractor{name: "a", text: "   "},
		&fakeExtractor{name: "b", text: "should not run"},
	)

	text, err := c.Extract(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestChain_AllBackendsFail(t *testing.T) {
	c := NewChain(nil,
		&fakeExtractor{name: "a", err: fmt.Errorf("boom a")},
		&fakeExtractor{name: "b", err: fmt.Errorf("boom b")},
	)

	_, err := c.Extract(context.Background(), "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all extraction backends failed")
	assert.Contains(t, err.Error(), "boom b")
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		backends []types.ExtractBackend
		wantLen  int
		wantErr  bool
	}{
		{"defaults to native then pdftotext", nil, 2, false},
		{"explicit single backend", []types.ExtractBackend{types.BackendPdftotext}, 1, false},
		{"unknown backend", []types.ExtractBackend{"ghostscript"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromConfig(types.ExtractConfig{Backends: tt.backends}, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.extractors, tt.wantLen)
		})
	}
}

// fakeExec scripts the pdftotext executor.
type fakeExec struct {
	lookErr error
	out     string
	runErr  error
	ranArgs []string
}

func (f *fakeExec) LookPath(file string) (string, error) {
	return "/usr/bin/" + file, f.lookErr
}

func (f *fakeExec) RunPiped(ctx context.Context, name string, args []string, stdout *bytes.Buffer) error {
	f.ranArgs = append([]string{name}, args...)
	stdout.WriteString(f.out)
	return f.runErr
}

func TestPdftotextExtractor_Extract(t *testing.T) {
	fe := &fakeExec{out: "report text"}
	e := &PdftotextExtractor{exec: fe}

	text, err := e.Extract(context.Background(), "digests/raw/week-32.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report text", text)
	assert.Equal(t, []string{"pdftotext", "-enc", "UTF-8", "digests/raw/week-32.pdf", "-"}, fe.ranArgs)
}

func TestPdftotextExtractor_MissingBinary(t *testing.T) {
	e := &PdftotextExtractor{exec: &fakeExec{lookErr: fmt.Errorf("not found")}}

	_, err := e.Extract(context.Background(), "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found on PATH")
}

func TestPdftotextExtractor_RunFailure(t *testing.T) {
	e := &PdftotextExtractor{exec: &fakeExec{runErr: fmt.Errorf("exit status 1")}}

	_, err := e.Extract(context.Background(), "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running pdftotext")
}

func TestNativeExtractor_BadFile(t *testing.T) {
	e := &NativeExtractor{}
	_, err := e.Extract(context.Background(), "does-not-exist.pdf")
	assert.Error(t, err)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads a located report PDF to disk.
//
// The ECDC document server occasionally answers a PDF URL with an HTML
// interstitial; a single retry with ?download=1 appended works around
// that. Downloads stream to a temp file and rename into place so a
// failed run never leaves a partial PDF behind.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/threat-digest/internal/httputil"
	"github.com/pdiddy/threat-digest/pkg/types"
)

const defaultMaxPDFBytes = 25 << 20

var pdfMagic = []byte("%PDF")

// Fetcher downloads report PDFs.
type Fetcher struct {
	Client *http.Client
	Config types.FetchConfig
}

// New returns a Fetcher with defaults filled in for unset config fields.
func New(client *http.Client, cfg types.FetchConfig) *Fetcher {
	if cfg.MaxPDFBytes <= 0 {
		cfg.MaxPDFBytes = defaultMaxPDFBytes
	}
	return &Fetcher{Client: client, Config: cfg}
}

// Download fetches pdfURL to destPath. When the first attempt yields a
// non-PDF response it retries once with a download query parameter.
func (f *Fetcher) Download(ctx context.Context, pdfURL, destPath string) error {
	if err := f.checkSize(ctx, pdfURL); err != nil {
		return err
	}

	ok, firstErr := f.tryGet(ctx, pdfURL, destPath)
	if ok {
		return nil
	}

	retryURL := appendDownloadParam(pdfURL)
	ok, retryErr := f.tryGet(ctx, retryURL, destPath)
	if ok {
		return nil
	}
	if retryErr == nil {
		retryErr = firstErr
	}
	return fmt.Errorf("no valid PDF from %s: %w", pdfURL, retryErr)
}

// checkSize aborts oversized downloads up front. HEAD failures are not
// fatal; the server may not answer HEAD for every path.
func (f *Fetcher) checkSize(ctx context.Context, pdfURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pdfURL, nil)
	if err != nil {
		return fmt.Errorf("creating HEAD request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n > f.Config.MaxPDFBytes {
		return fmt.Errorf("PDF at %s is %d bytes, above the %d byte limit", pdfURL, n, f.Config.MaxPDFBytes)
	}
	return nil
}

// tryGet performs one GET attempt. It reports ok=false without an error
// when the response is well-formed but not a PDF, so the caller can retry
// with the download parameter.
func (f *Fetcher) tryGet(ctx context.Context, pdfURL, destPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)
	req.Header.Set("Accept", "application/pdf")
	req.Header.Set("Cache-Control", "no-cache")
	if f.Config.Referer != "" {
		req.Header.Set("Referer", f.Config.Referer)
	}

	resp, err := httputil.DoWithRetry(ctx, f.Client, req, 0)
	if err != nil {
		return false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	// Sniff the first bytes: content type alone is not trustworthy here.
	first := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(resp.Body, first)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("reading response: %w", err)
	}
	first = first[:n]

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "pdf") || !bytes.HasPrefix(first, pdfMagic) {
		return false, nil
	}

	if err := writeFile(destPath, first, resp.Body, f.Config.MaxPDFBytes); err != nil {
		return false, err
	}
	return true, nil
}

// writeFile streams head then body to a temp file next to destPath and
// renames on success.
func writeFile(destPath string, head []byte, body io.Reader, limit int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, err = tmpFile.Write(head)
	if err == nil {
		// The size cap also applies to servers that lie about length.
		var n int64
		n, err = io.Copy(tmpFile, io.LimitReader(body, limit))
		if err == nil && n >= limit {
			err = fmt.Errorf("download exceeds %d byte limit", limit)
		}
	}
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func appendDownloadParam(u string) string {
	if strings.Contains(u, "?") {
		return u + "&download=1"
	}
	return u + "?download=1"
}

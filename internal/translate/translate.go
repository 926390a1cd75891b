// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate renders the English summary into the target language
// using the public Google Translate endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/pdiddy/threat-digest/internal/httputil"
	"github.com/pdiddy/threat-digest/pkg/types"
)

const (
	// DefaultEndpoint is the unauthenticated translate endpoint.
	DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

	defaultTarget    = "es"
	defaultChunkSize = 4500
)

// Translator translates text over HTTP.
type Translator struct {
	Client *http.Client
	Config types.TranslateConfig
}

// New returns a Translator with defaults filled in for unset config fields.
func New(client *http.Client, cfg types.TranslateConfig) *Translator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = defaultTarget
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	return &Translator{Client: client, Config: cfg}
}

// Target returns the validated BCP 47 tag of the output language.
func (t *Translator) Target() (language.Tag, error) {
	tag, err := language.Parse(t.Config.TargetLanguage)
	if err != nil {
		return language.Und, fmt.Errorf("invalid target language %q: %w", t.Config.TargetLanguage, err)
	}
	return tag, nil
}

// Translate renders text into the target language. Input longer than the
// chunk size is split on sentence boundaries and translated sequentially.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	tag, err := t.Target()
	if err != nil {
		return "", err
	}

	var out []string
	for _, chunk := range splitChunks(text, t.Config.ChunkSize) {
		translated, err := t.translateChunk(ctx, chunk, tag.String())
		if err != nil {
			return "", err
		}
		out = append(out, strings.TrimSpace(translated))
	}
	return strings.Join(out, " "), nil
}

func (t *Translator) translateChunk(ctx context.Context, chunk, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Config.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", t.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, t.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned HTTP %d", resp.StatusCode)
	}

	return decodeResponse(resp.Body)
}

// decodeResponse unpacks the gtx payload. The top level is a heterogeneous
// array; element 0 holds [translated, original, ...] segment tuples.
func decodeResponse(r io.Reader) (string, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return "", fmt.Errorf("parsing translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("parsing translate segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("translate response contained no text")
	}
	return b.String(), nil
}

// splitChunks breaks text into pieces of at most size characters,
// preferring sentence boundaries, then spaces, then a hard cut.
func splitChunks(text string, size int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	for len(text) > size {
		cut := lastBoundary(text[:size])
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func lastBoundary(s string) int {
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			return i + len(sep)
		}
	}
	if i := strings.LastIndex(s, " "); i > 0 {
		return i + 1
	}
	return len(s)
}

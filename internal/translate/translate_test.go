// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threat-digest/pkg/types"
)

const sampleGtxJSON = `[[["Hola mundo. ","Hello world. ",null,null,10],["Segunda frase.","Second sentence.",null,null,10]],null,"en"]`

func newTranslator(ts *httptest.Server, cfg types.TranslateConfig) *Translator {
	cfg.Endpoint = ts.URL + "/translate_a/single"
	return New(ts.Client(), cfg)
}

func TestTranslate_Success(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"client": r.URL.Query().Get("client"),
			"sl":     r.URL.Query().Get("sl"),
			"tl":     r.URL.Query().Get("tl"),
			"q":      r.URL.Query().Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleGtxJSON)
	}))
	defer ts.Close()

	tr := newTranslator(ts, types.TranslateConfig{})
	got, err := tr.Translate(context.Background(), "Hello world. Second sentence.")
	require.NoError(t, err)

	assert.Equal(t, "Hola mundo. Segunda frase.", got)
	assert.Equal(t, "gtx", gotQuery["client"])
	assert.Equal(t, "auto", gotQuery["sl"])
	assert.Equal(t, "es", gotQuery["tl"])
	assert.Equal(t, "Hello world. Second sentence.", gotQuery["q"])
}

func TestTranslate_EmptyInputPassesThrough(t *testing.T) {
	tr := New(http.DefaultClient, types.TranslateConfig{})
	got, err := tr.Translate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "   ", got)
}

func TestTranslate_ChunksLongInput(t *testing.T) {
	var chunks []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		chunks = append(chunks, q)
		fmt.Fprintf(w, `[[["T%d. ","x",null]],null,"en"]`, len(chunks))
	}))
	defer ts.Close()

	tr := newTranslator(ts, types.TranslateConfig{ChunkSize: 40})
	got, err := tr.Translate(context.Background(),
		"First sentence of the report. Second sentence of the report. Third one.")
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, "First sentence of the report.", chunks[0])
	assert.Equal(t, "T1. T2. T3.", got)
}

func TestTranslate_InvalidTargetLanguage(t *testing.T) {
	tr := New(http.DefaultClient, types.TranslateConfig{TargetLanguage: "not-a-lang-tag!"})
	_, err := tr.Translate(context.Background(), "Hello.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target language")
}

func TestTranslate_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	tr := newTranslator(ts, types.TranslateConfig{})
	_, err := tr.Translate(context.Background(), "Hello.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestTranslate_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected": "shape"}`)
	}))
	defer ts.Close()

	tr := newTranslator(ts, types.TranslateConfig{})
	_, err := tr.Translate(context.Background(), "Hello.")
	assert.Error(t, err)
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{
			name: "short text single chunk",
			text: "One sentence.",
			size: 100,
			want: []string{"One sentence."},
		},
		{
			name: "splits at sentence boundary",
			text: "First sentence here. Second sentence here.",
			size: 25,
			want: []string{"First sentence here.", "Second sentence here."},
		},
		{
			name: "falls back to space boundary",
			text: "no terminal punctuation in this long run of words",
			size: 20,
			want: []string{"no terminal", "punctuation in this", "long run of words"},
		},
		{
			name: "hard cut without spaces",
			text: strings.Repeat("x", 25),
			size: 10,
			want: []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.text, tt.size))
		})
	}
}

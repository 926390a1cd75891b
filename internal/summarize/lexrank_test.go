// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threat-digest/pkg/types"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and drops stopwords",
			input: "The influenza cases increased across Europe.",
			want:  []string{"influenza", "cases", "increased", "across", "europe"},
		},
		{
			name:  "drops digits and punctuation",
			input: "Week 32, 2026: 1,204 new cases (up 8%).",
			want:  []string{"week", "new", "cases"},
		},
		{
			name:  "drops single letters",
			input: "A B c measles",
			want:  []string{"measles"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestSentences(t *testing.T) {
	text := "Influenza activity increased. Measles cases were reported in three countries. Monitoring continues."
	sents, err := Sentences(text)
	require.NoError(t, err)
	require.Len(t, sents, 3)
	assert.Equal(t, "Influenza activity increased.", sents[0])
}

func TestSummarize_Empty(t *testing.T) {
	s := New(types.SummaryConfig{})

	for _, input := range []string{"", "   ", "\n\t\n"} {
		got, err := s.Summarize(input, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestSummarize_FewerSentencesThanRequested(t *testing.T) {
	s := New(types.SummaryConfig{})
	text := "Influenza activity increased. Monitoring continues."

	got, err := s.Summarize(text, 12)
	require.NoError(t, err)
	assert.Equal(t, "Influenza activity increased. Monitoring continues.", got)
}

func TestSummarize_PrefersCentralSentences(t *testing.T) {
	// Four sentences share a topic vocabulary; the fifth is an outlier
	// with no overlapping terms. LexRank centrality must rank the
	// outlier last, so a two-sentence summary never includes it.
	text := strings.Join([]string{
		"Influenza cases increased across Europe this week.",
		"Agencies reported increased influenza cases across Europe.",
		"Influenza cases across Europe remain increased.",
		"Officials expect influenza cases across Europe to increase.",
		"The quick brown fox jumps over the lazy dog.",
	}, " ")

	s := New(types.SummaryConfig{})
	got, err := s.Summarize(text, 2)
	require.NoError(t, err)

	assert.NotContains(t, got, "fox")
	assert.Contains(t, got, "influenza")
}

func TestSummarize_PreservesDocumentOrder(t *testing.T) {
	text := strings.Join([]string{
		"Influenza cases increased across Europe this week.",
		"The quick brown fox jumps over the lazy dog.",
		"Agencies reported increased influenza cases across Europe.",
		"Influenza cases across Europe remain increased.",
	}, " ")

	s := New(types.SummaryConfig{})
	got, err := s.Summarize(text, 2)
	require.NoError(t, err)

	sents, err := Sentences(got)
	require.NoError(t, err)
	require.Len(t, sents, 2)

	// Whatever two sentences win, they come out in source order.
	first := strings.Index(text, sents[0])
	second := strings.Index(text, sents[1])
	assert.Less(t, first, second)
}

func TestSummarize_ClampsSentenceCount(t *testing.T) {
	s := New(types.SummaryConfig{Sentences: 1})
	text := strings.Join([]string{
		"Influenza cases increased across Europe this week.",
		"Health agencies reported new influenza cases in Europe.",
		"The influenza outbreak in Europe remains under close watch.",
	}, " ")

	// n <= 0 falls back to the configured count.
	got, err := s.Summarize(text, 0)
	require.NoError(t, err)

	sents, err := Sentences(got)
	require.NoError(t, err)
	assert.Len(t, sents, 1)
}

func TestIDFModifiedCosine(t *testing.T) {
	idf := map[string]float64{"influenza": 0.9, "europe": 0.4, "fox": 1.6}

	a := map[string]float64{"influenza": 1, "europe": 1}
	b := map[string]float64{"influenza": 1, "europe": 2}
	c := map[string]float64{"fox": 1}

	assert.InDelta(t, 1.0, idfModifiedCosine(a, a, idf), 1e-9)
	assert.Greater(t, idfModifiedCosine(a, b, idf), 0.5)
	assert.Zero(t, idfModifiedCosine(a, c, idf))
}

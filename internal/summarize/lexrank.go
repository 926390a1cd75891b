// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces extractive summaries with LexRank.
//
// LexRank builds a sentence similarity graph using IDF-modified cosine
// similarity and scores each sentence by its stationary probability under
// a random walk over the graph. The top-scoring sentences are emitted in
// document order.
package summarize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/threat-digest/pkg/types"
)

const (
	defaultSentences = 12
	defaultThreshold = 0.1
	defaultEpsilon   = 1e-4

	maxIterations = 100
)

// Summarizer produces extractive summaries.
type Summarizer struct {
	cfg types.SummaryConfig
}

// New returns a Summarizer with defaults filled in for unset config fields.
func New(cfg types.SummaryConfig) *Summarizer {
	if cfg.Sentences <= 0 {
		cfg.Sentences = defaultSentences
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = defaultEpsilon
	}
	return &Summarizer{cfg: cfg}
}

// Summarize returns an n-sentence extractive summary of text, joined by
// spaces in document order. When n is not positive the configured count
// applies. Empty or whitespace input yields an empty summary.
func (s *Summarizer) Summarize(text string, n int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if n <= 0 {
		n = s.cfg.Sentences
	}
	if n < 1 {
		n = 1
	}

	sents, err := Sentences(text)
	if err != nil {
		return "", fmt.Errorf("segmenting text: %w", err)
	}
	if len(sents) == 0 {
		return "", nil
	}
	if len(sents) <= n {
		return strings.Join(sents, " "), nil
	}

	scores := lexrank(sents, s.cfg.Threshold, s.cfg.Epsilon)

	// Rank by score, then re-emit the winners in document order.
	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	picked := append([]int(nil), order[:n]...)
	sort.Ints(picked)

	selected := make([]string, len(picked))
	for i, idx := range picked {
		selected[i] = sents[idx]
	}
	return strings.Join(selected, " "), nil
}

// lexrank scores sentences by power iteration over the row-normalized
// similarity graph. Similarities below threshold are dropped.
func lexrank(sents []string, threshold, epsilon float64) []float64 {
	n := len(sents)

	tf := make([]map[string]float64, n)
	df := make(map[string]int)
	for i, sent := range sents {
		tf[i] = make(map[string]float64)
		for _, w := range Words(sent) {
			tf[i][w]++
		}
		for w := range tf[i] {
			df[w]++
		}
	}

	idf := make(map[string]float64, len(df))
	for w, d := range df {
		idf[w] = math.Log(float64(n) / float64(d))
	}

	// Weighted adjacency with thresholding. The diagonal keeps every
	// sentence reachable so row normalization never divides by zero.
	weights := make([][]float64, n)
	degree := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sim float64
			if i == j {
				sim = 1
			} else {
				sim = idfModifiedCosine(tf[i], tf[j], idf)
				if sim < threshold {
					sim = 0
				}
			}
			weights[i][j] = sim
			weights[j][i] = sim
		}
		for j := 0; j < n; j++ {
			degree[i] += weights[i][j]
		}
	}

	// Power iteration for the stationary distribution.
	p := make([]float64, n)
	next := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	for iter := 0; iter < maxIterations; iter++ {
		for j := 0; j < n; j++ {
			next[j] = 0
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if weights[i][j] > 0 {
					next[j] += p[i] * weights[i][j] / degree[i]
				}
			}
		}

		var diff float64
		for i := 0; i < n; i++ {
			diff += math.Abs(next[i] - p[i])
		}
		p, next = next, p
		if diff < epsilon {
			break
		}
	}
	return p
}

// idfModifiedCosine computes the IDF-weighted cosine similarity of two
// sentence term-frequency vectors.
func idfModifiedCosine(a, b map[string]float64, idf map[string]float64) float64 {
	var dot float64
	for w, fa := range a {
		if fb, ok := b[w]; ok {
			dot += fa * fb * idf[w] * idf[w]
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for w, f := range a {
		normA += f * f * idf[w] * idf[w]
	}
	for w, f := range b {
		normB += f * f * idf[w] * idf[w]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

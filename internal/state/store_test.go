// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threat-digest/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StateConfig{StateDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDigest(week int) types.Digest {
	return types.Digest{
		URL:     fmt.Sprintf("https://example.com/communicable-disease-threats-report-week-%d-2026.pdf", week),
		Week:    week,
		Year:    2026,
		Subject: fmt.Sprintf("Resumen del informe semanal del ECDC (semana %d, 2026)", week),
		SentAt:  time.Date(2026, time.August, week, 6, 0, 0, 0, time.UTC),
	}
}

func TestSeenAndRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := sampleDigest(32)

	seen, err := s.Seen(ctx, d.URL)
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.Record(ctx, d))

	seen, err = s.Seen(ctx, d.URL)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRecord_DuplicateURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d := sampleDigest(32)

	require.NoError(t, s.Record(ctx, d))
	assert.Error(t, s.Record(ctx, d))
}

func TestHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, week := range []int{30, 31, 32} {
		require.NoError(t, s.Record(ctx, sampleDigest(week)))
	}

	digests, err := s.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, digests, 2)
	assert.Equal(t, 32, digests[0].Week)
	assert.Equal(t, 31, digests[1].Week)

	all, err := s.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2026, all[0].SentAt.Year())
}

func TestHistory_Empty(t *testing.T) {
	s := newTestStore(t)

	digests, err := s.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, digests)
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.StateConfig{StateDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, sampleDigest(32)))
	require.NoError(t, s.Close())

	s2, err := NewStore(types.StateConfig{StateDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	seen, err := s2.Seen(ctx, sampleDigest(32).URL)
	require.NoError(t, err)
	assert.True(t, seen)
}

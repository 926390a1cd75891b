// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/threat-digest/pkg/types"
)

var sampleContent = Content{
	Summary:     "Los casos de gripe aumentaron en Europa.",
	PDFURL:      "https://www.ecdc.europa.eu/sites/default/files/documents/communicable-disease-threats-report-week-32-2026.pdf",
	Week:        32,
	Year:        2026,
	GeneratedAt: time.Date(2026, time.August, 7, 6, 30, 0, 0, time.UTC),
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Resumen del informe semanal del ECDC (semana 32, 2026)", Subject(32, 2026))
}

func TestPlainText(t *testing.T) {
	got := PlainText(sampleContent)
	assert.Contains(t, got, sampleContent.Summary)
	assert.Contains(t, got, sampleContent.PDFURL)

	empty := sampleContent
	empty.Summary = "  "
	assert.Contains(t, PlainText(empty), "(vacío)")
}

func TestRenderHTML(t *testing.T) {
	got, err := RenderHTML(sampleContent)
	require.NoError(t, err)

	assert.Contains(t, got, "Los casos de gripe aumentaron en Europa.")
	assert.Contains(t, got, `href="`+sampleContent.PDFURL+`"`)
	assert.Contains(t, got, "semana 32, 2026")
	assert.Contains(t, got, "2026-08-07 06:30 UTC")
}

func TestRenderHTML_EscapesSummary(t *testing.T) {
	c := sampleContent
	c.Summary = `<script>alert("x")</script>`

	got, err := RenderHTML(c)
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := types.Digest{
		URL:          sampleContent.PDFURL,
		Week:         32,
		Year:         2026,
		Subject:      Subject(32, 2026),
		TextChars:    54210,
		SummaryChars: 1180,
		Language:     "es",
		SentAt:       time.Date(2026, time.August, 7, 6, 31, 0, 0, time.UTC),
	}

	path, err := Archive(types.ArchiveConfig{DigestsDir: dir}, d)
	require.NoError(t, err)
	assert.Contains(t, path, "week-32-2026.yaml")

	got, err := ReadArchived(path)
	require.NoError(t, err)
	assert.Equal(t, d.URL, got.URL)
	assert.Equal(t, d.Subject, got.Subject)
	assert.True(t, d.SentAt.Equal(got.SentAt))
}

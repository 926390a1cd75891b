// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the digest email and archives per-run records.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Content holds everything the email body needs.
type Content struct {
	// Summary is the translated summary text.
	Summary string

	// PDFURL links back to the source report.
	PDFURL string

	// Week and Year identify the report.
	Week int
	Year int

	// GeneratedAt stamps the footer; UTC.
	GeneratedAt time.Time
}

// Subject returns the digest subject line.
func Subject(week, year int) string {
	return fmt.Sprintf("Resumen del informe semanal del ECDC (semana %d, %d)", week, year)
}

// PlainText returns the text/plain alternative body.
func PlainText(c Content) string {
	summary := c.Summary
	if strings.TrimSpace(summary) == "" {
		summary = "(vacío)"
	}
	return summary + "\n\nEnlace al informe: " + c.PDFURL + "\n"
}

var htmlTemplate = template.Must(template.New("digest").Parse(`<html>
  <body style="font-family:Arial,Helvetica,sans-serif;line-height:1.5;background:#f7f7f7;padding:18px;">
    <table width="100%" cellpadding="0" cellspacing="0" style="max-width:680px;margin:auto;background:#ffffff;border-radius:8px;overflow:hidden;">
      <tr>
        <td style="background:#005ba4;color:#fff;padding:18px 20px;">
          <h1 style="margin:0;font-size:22px;">Boletín semanal de amenazas sanitarias</h1>
          <p style="margin:6px 0 0 0;font-size:14px;opacity:.9;">Resumen automático del informe ECDC — semana {{.Week}}, {{.Year}}</p>
        </td>
      </tr>
      <tr>
        <td style="padding:20px;font-size:15px;color:#222;">
          <p style="margin-top:0;white-space:pre-wrap">{{.Summary}}</p>
          <p style="margin-top:18px">
            Enlace al informe:&nbsp;
            <a href="{{.PDFURL}}" style="color:#005ba4;text-decoration:underline">{{.PDFURL}}</a>
          </p>
        </td>
      </tr>
      <tr>
        <td style="background:#f0f0f0;color:#666;padding:12px 16px;text-align:center;font-size:12px;">
          Generado automáticamente · {{.GeneratedAt.UTC.Format "2006-01-02 15:04 UTC"}}
        </td>
      </tr>
    </table>
  </body>
</html>`))

// RenderHTML returns the text/html body for the digest email.
func RenderHTML(c Content) (string, error) {
	var b strings.Builder
	if err := htmlTemplate.Execute(&b, c); err != nil {
		return "", fmt.Errorf("rendering digest HTML: %w", err)
	}
	return b.String(), nil
}

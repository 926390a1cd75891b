// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest orchestrates one weekly run: locate, fetch, extract,
// summarize, translate, render, send, record.
package digest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"

	"github.com/pdiddy/threat-digest/internal/extract"
	"github.com/pdiddy/threat-digest/internal/fetch"
	"github.com/pdiddy/threat-digest/internal/locate"
	"github.com/pdiddy/threat-digest/internal/mail"
	"github.com/pdiddy/threat-digest/internal/report"
	"github.com/pdiddy/threat-digest/internal/state"
	"github.com/pdiddy/threat-digest/internal/summarize"
	"github.com/pdiddy/threat-digest/internal/translate"
	"github.com/pdiddy/threat-digest/pkg/types"
)

// Status classifies the outcome of a run.
type Status string

const (
	// StatusSent means the digest email went out and was recorded.
	StatusSent Status = "sent"
	// StatusDryRun means the pipeline stopped before dispatch.
	StatusDryRun Status = "dry-run"
	// StatusAlreadySeen means the newest report was digested previously.
	StatusAlreadySeen Status = "already-seen"
	// StatusNoReport means no recent report PDF could be located.
	StatusNoReport Status = "no-report"
	// StatusEmptyText means the PDF had no extractable text to summarize.
	StatusEmptyText Status = "empty-text"
)

// Result describes a completed run.
type Result struct {
	Status Status
	Digest *types.Digest
}

// Locator finds the newest report.
type Locator interface {
	Latest(ctx context.Context) (*locate.Report, error)
}

// Fetcher downloads a report PDF.
type Fetcher interface {
	Download(ctx context.Context, pdfURL, destPath string) error
}

// Extractor pulls text out of a downloaded PDF.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) (string, error)
}

// Summarizer condenses report text.
type Summarizer interface {
	Summarize(text string, n int) (string, error)
}

// Translator renders the summary in the target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Target() (language.Tag, error)
}

// Recorder tracks processed reports.
type Recorder interface {
	Seen(ctx context.Context, url string) (bool, error)
	Record(ctx context.Context, d types.Digest) error
}

// Pipeline holds the wired stages for a run. Fields are exported so tests
// can substitute stages.
type Pipeline struct {
	Locator    Locator
	Fetcher    Fetcher
	Extractor  Extractor
	Summarizer Summarizer
	Translator Translator
	Sender     mail.Sender
	Store      Recorder

	Config types.PipelineConfig
	Now    func() time.Time

	store *state.Store
}

// New wires production stages from config. Close releases the state store.
func New(cfg types.PipelineConfig, w io.Writer) (*Pipeline, error) {
	applyDefaults(&cfg)

	if err := mail.Validate(cfg.Mail); err != nil {
		return nil, err
	}
	sender, err := mail.NewSender(cfg.Mail)
	if err != nil {
		return nil, err
	}

	warn := func(format string, args ...any) {
		fmt.Fprintf(w, "warning: "+format, args...)
	}
	chain, err := extract.FromConfig(cfg.Extract, warn)
	if err != nil {
		return nil, err
	}

	store, err := state.NewStore(cfg.State)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Locator:    locate.New(&http.Client{Timeout: cfg.Locate.Timeout}, cfg.Locate),
		Fetcher:    fetch.New(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch),
		Extractor:  chain,
		Summarizer: summarize.New(cfg.Summary),
		Translator: translate.New(&http.Client{Timeout: cfg.Translate.Timeout}, cfg.Translate),
		Sender:     sender,
		Store:      store,
		Config:     cfg,
		Now:        time.Now,
		store:      store,
	}, nil
}

// Close releases pipeline resources.
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Run executes the pipeline once, writing per-stage progress to w.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (Result, error) {
	rep, err := p.Locator.Latest(ctx)
	if errors.Is(err, locate.ErrNoReport) {
		fmt.Fprintln(w, "no recent report found")
		return Result{Status: StatusNoReport}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("locating report: %w", err)
	}
	fmt.Fprintf(w, "located: %s (week %d, %d)\n", rep.URL, rep.Week, rep.Year)

	seen, err := p.Store.Seen(ctx, rep.URL)
	if err != nil {
		return Result{}, err
	}
	if seen {
		fmt.Fprintf(w, "already digested: %s\n", rep.URL)
		return Result{Status: StatusAlreadySeen}, nil
	}

	text, err := p.fetchAndExtract(ctx, rep.URL, w)
	if err != nil {
		return Result{}, err
	}
	if text == "" {
		fmt.Fprintln(w, "report has no extractable text")
		return Result{Status: StatusEmptyText}, nil
	}
	fmt.Fprintf(w, "extracted: %d characters\n", len(text))

	summary, err := p.Summarizer.Summarize(text, 0)
	if err != nil {
		return Result{}, fmt.Errorf("summarizing report: %w", err)
	}
	if summary == "" {
		fmt.Fprintln(w, "summary came back empty")
		return Result{Status: StatusEmptyText}, nil
	}
	fmt.Fprintf(w, "summarized: %d characters\n", len(summary))

	// Translation failure degrades to the English summary.
	lang := "en"
	translated, err := p.Translator.Translate(ctx, summary)
	if err != nil {
		fmt.Fprintf(w, "warning: translation failed, sending original: %v\n", err)
		translated = summary
	} else if tag, tagErr := p.Translator.Target(); tagErr == nil {
		lang = tag.String()
	}
	fmt.Fprintf(w, "translated: %d characters (%s)\n", len(translated), lang)

	now := p.now()
	subject := report.Subject(rep.Week, rep.Year)
	content := report.Content{
		Summary:     translated,
		PDFURL:      rep.URL,
		Week:        rep.Week,
		Year:        rep.Year,
		GeneratedAt: now,
	}
	html, err := report.RenderHTML(content)
	if err != nil {
		return Result{}, err
	}

	if p.Config.Mail.DryRun {
		fmt.Fprintf(w, "dry run: not sending %q\n", subject)
		return Result{Status: StatusDryRun}, nil
	}

	if err := p.Sender.Send(subject, report.PlainText(content), html); err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "sent: %q to %s\n", subject, p.Config.Mail.Receiver)

	d := types.Digest{
		URL:          rep.URL,
		Week:         rep.Week,
		Year:         rep.Year,
		Subject:      subject,
		TextChars:    len(text),
		SummaryChars: len(summary),
		Language:     lang,
		SentAt:       now,
	}
	if err := p.Store.Record(ctx, d); err != nil {
		return Result{}, err
	}
	if path, err := report.Archive(p.Config.Archive, d); err != nil {
		fmt.Fprintf(w, "warning: archive write failed: %v\n", err)
	} else {
		fmt.Fprintf(w, "archived: %s\n", path)
	}

	return Result{Status: StatusSent, Digest: &d}, nil
}

// fetchAndExtract downloads the PDF to a temp dir that never outlives
// the run and returns its text.
func (p *Pipeline) fetchAndExtract(ctx context.Context, pdfURL string, w io.Writer) (string, error) {
	tmpDir, err := os.MkdirTemp("", "threat-digest-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "report.pdf")
	fmt.Fprintf(w, "downloading: %s\n", pdfURL)
	if err := p.Fetcher.Download(ctx, pdfURL, pdfPath); err != nil {
		return "", fmt.Errorf("downloading report: %w", err)
	}

	text, err := p.Extractor.Extract(ctx, pdfPath)
	if err != nil {
		return "", fmt.Errorf("extracting report text: %w", err)
	}
	return text, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func applyDefaults(cfg *types.PipelineConfig) {
	const defaultTimeout = 30 * time.Second
	const defaultUserAgent = "threat-digest/0.1"

	for _, h := range []*types.HTTPConfig{&cfg.Locate.HTTPConfig, &cfg.Fetch.HTTPConfig, &cfg.Translate.HTTPConfig} {
		if h.Timeout <= 0 {
			h.Timeout = defaultTimeout
		}
		if h.UserAgent == "" {
			h.UserAgent = defaultUserAgent
		}
	}
	if cfg.Fetch.Referer == "" {
		if cfg.Locate.ListingURL != "" {
			cfg.Fetch.Referer = cfg.Locate.ListingURL
		} else {
			cfg.Fetch.Referer = locate.DefaultListingURL
		}
	}
	if cfg.Archive.DigestsDir == "" {
		cfg.Archive.DigestsDir = "digests"
	}
}

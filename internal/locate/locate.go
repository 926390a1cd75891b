// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate discovers the most recent weekly threat report PDF.
//
// Two strategies run in order: a direct URL probe built from the current
// ISO week (walking back a few weeks when the newest report is not up
// yet), then a scrape of the publications listing page. Every candidate
// is HEAD-validated before it is accepted.
package locate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pdiddy/threat-digest/internal/httputil"
	"github.com/pdiddy/threat-digest/pkg/types"
)

const (
	// DefaultListingURL is the ECDC weekly threats report listing page.
	DefaultListingURL = "https://www.ecdc.europa.eu/en/publications-and-data/monitoring/weekly-threats-reports"

	// DefaultURLTemplate is the per-week direct PDF URL.
	DefaultURLTemplate = "https://www.ecdc.europa.eu/sites/default/files/documents/" +
		"communicable-disease-threats-report-week-{week}-{year}.pdf"

	defaultMaxWeeksBack = 4
	defaultMinPDFBytes  = 10_000
)

// reportPattern matches a weekly report PDF path and captures week and year.
var reportPattern = regexp.MustCompile(`/communicable-disease-threats-report-week-(\d+)-(\d{4})\.pdf$`)

// ErrNoReport indicates that neither discovery strategy found a valid PDF.
var ErrNoReport = errors.New("no recent weekly report found")

// Report identifies a located weekly report PDF.
type Report struct {
	URL  string
	Week int
	Year int
}

// Locator discovers report PDFs over HTTP. Now is injectable so week
// arithmetic is testable; a nil Now means time.Now.
type Locator struct {
	Client *http.Client
	Config types.LocateConfig
	Now    func() time.Time
}

// New returns a Locator with defaults filled in for unset config fields.
func New(client *http.Client, cfg types.LocateConfig) *Locator {
	if cfg.ListingURL == "" {
		cfg.ListingURL = DefaultListingURL
	}
	if cfg.DirectURLTemplate == "" {
		cfg.DirectURLTemplate = DefaultURLTemplate
	}
	if cfg.MaxWeeksBack <= 0 {
		cfg.MaxWeeksBack = defaultMaxWeeksBack
	}
	if cfg.MinPDFBytes <= 0 {
		cfg.MinPDFBytes = defaultMinPDFBytes
	}
	return &Locator{Client: client, Config: cfg, Now: time.Now}
}

// Latest tries the direct probe first and falls back to the listing scan.
// It returns ErrNoReport when both strategies come up empty.
func (l *Locator) Latest(ctx context.Context) (*Report, error) {
	if r, err := l.Probe(ctx); err == nil {
		return r, nil
	} else if !errors.Is(err, ErrNoReport) {
		return nil, err
	}
	return l.Scan(ctx)
}

// Probe builds direct PDF URLs from the current ISO week backwards and
// returns the first candidate that validates.
func (l *Locator) Probe(ctx context.Context) (*Report, error) {
	now := l.now()
	for back := 0; back <= l.Config.MaxWeeksBack; back++ {
		year, week := now.AddDate(0, 0, -7*back).ISOWeek()
		candidate := l.directURL(week, year)
		if err := l.validate(ctx, candidate); err != nil {
			continue
		}
		return &Report{URL: candidate, Week: week, Year: year}, nil
	}
	return nil, ErrNoReport
}

// Scan fetches the listing page, collects every report link on it, and
// returns the validated candidate with the most recent ISO week.
func (l *Locator) Scan(ctx context.Context) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Config.ListingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating listing request: %w", err)
	}
	req.Header.Set("User-Agent", l.Config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, l.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned HTTP %d", resp.StatusCode)
	}

	links, err := reportLinks(resp.Body, l.Config.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}

	var best *Report
	var bestStart time.Time
	for _, link := range links {
		week, year, ok := ParseReportURL(link)
		if !ok {
			continue
		}
		start, ok := weekStart(year, week)
		if !ok {
			continue
		}
		if best != nil && !start.After(bestStart) {
			continue
		}
		if err := l.validate(ctx, link); err != nil {
			continue
		}
		best = &Report{URL: link, Week: week, Year: year}
		bestStart = start
	}

	if best == nil {
		return nil, ErrNoReport
	}
	return best, nil
}

// ParseReportURL extracts week and year from a report PDF URL.
func ParseReportURL(u string) (week, year int, ok bool) {
	m := reportPattern.FindStringSubmatch(u)
	if m == nil {
		return 0, 0, false
	}
	week, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	return week, year, true
}

// validate issues a HEAD request and checks that the URL serves a real
// PDF: status 200, a pdf content type, and a plausible size.
func (l *Locator) validate(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return fmt.Errorf("creating HEAD request: %w", err)
	}
	req.Header.Set("User-Agent", l.Config.UserAgent)

	resp, err := l.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HEAD %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HEAD %s: HTTP %d", u, resp.StatusCode)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "pdf") {
		return fmt.Errorf("HEAD %s: content type %q is not a PDF", u, ct)
	}
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err != nil || n < l.Config.MinPDFBytes {
		return fmt.Errorf("HEAD %s: implausible content length %q", u, resp.Header.Get("Content-Length"))
	}
	return nil
}

func (l *Locator) directURL(week, year int) string {
	u := strings.ReplaceAll(l.Config.DirectURLTemplate, "{week}", strconv.Itoa(week))
	return strings.ReplaceAll(u, "{year}", strconv.Itoa(year))
}

func (l *Locator) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// reportLinks parses an HTML document and returns the absolute URLs of all
// anchors matching the report pattern. Relative hrefs are resolved against
// baseURL. Duplicates are collapsed.
func reportLinks(r io.Reader, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" || attr.Val == "" {
					continue
				}
				ref, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				abs := base.ResolveReference(ref).String()
				if reportPattern.MatchString(abs) && !seen[abs] {
					seen[abs] = true
					links = append(links, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// weekStart returns the Monday of the given ISO week.
func weekStart(year, week int) (time.Time, bool) {
	if week < 1 || week > 53 {
		return time.Time{}, false
	}
	// January 4 is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	start := monday.AddDate(0, 0, (week-1)*7)
	if y, w := start.ISOWeek(); y != year || w != week {
		return time.Time{}, false
	}
	return start, true
}

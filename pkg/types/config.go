// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "threat-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LocateConfig holds settings for the report discovery stage.
type LocateConfig struct {
	HTTPConfig `yaml:",inline"`

	// ListingURL is the publications page scanned when direct probing fails.
	ListingURL string `json:"listing_url" yaml:"listing_url"`

	// DirectURLTemplate is the per-week PDF URL template. It must contain
	// {week} and {year} placeholders.
	DirectURLTemplate string `json:"direct_url_template" yaml:"direct_url_template"`

	// MaxWeeksBack is how many ISO weeks before the current one the direct
	// probe walks back (default 4).
	MaxWeeksBack int `json:"max_weeks_back" yaml:"max_weeks_back"`

	// MinPDFBytes is the smallest Content-Length accepted during HEAD
	// validation, rejecting stub pages served with a pdf content type.
	MinPDFBytes int64 `json:"min_pdf_bytes" yaml:"min_pdf_bytes"`
}

// FetchConfig holds settings for the PDF download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPDFBytes aborts downloads whose advertised size exceeds this
	// limit (default 25 MiB).
	MaxPDFBytes int64 `json:"max_pdf_bytes" yaml:"max_pdf_bytes"`

	// Referer is sent with download requests; the ECDC site serves an HTML
	// interstitial to referer-less clients on some paths.
	Referer string `json:"referer" yaml:"referer"`
}

// ExtractBackend identifies a PDF text extraction backend.
type ExtractBackend string

const (
	BackendNative    ExtractBackend = "native"
	BackendPdftotext ExtractBackend = "pdftotext"
)

// ExtractConfig holds settings for the text extraction stage.
type ExtractConfig struct {
	// Backends lists extraction backends in fallback order.
	// Empty means native then pdftotext.
	Backends []ExtractBackend `json:"backends" yaml:"backends"`
}

// SummaryConfig holds settings for the extractive summarization stage.
type SummaryConfig struct {
	// Sentences is the number of sentences in the summary (default 12).
	Sentences int `json:"sentences" yaml:"sentences"`

	// Threshold zeroes sentence similarities below this value (default 0.1).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Epsilon is the power-iteration convergence bound (default 1e-4).
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// TranslateConfig holds settings for the translation stage.
type TranslateConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the translation API base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// TargetLanguage is a BCP 47 tag for the output language (default "es").
	TargetLanguage string `json:"target_language" yaml:"target_language"`

	// ChunkSize is the maximum number of characters sent per request
	// (default 4500). Longer input is split on sentence boundaries.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// MailConfig holds SMTP settings for digest dispatch.
type MailConfig struct {
	// Server is the SMTP host.
	Server string `json:"server" yaml:"server"`

	// Port is the SMTP port. Port 465 uses implicit TLS.
	Port int `json:"port" yaml:"port"`

	// Sender is the From address and SMTP username.
	Sender string `json:"sender" yaml:"sender"`

	// Receiver is the To address.
	Receiver string `json:"receiver" yaml:"receiver"`

	// Password authenticates Sender against Server. Empty skips auth.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// DryRun suppresses dispatch; the pipeline stops before dialing.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// MaxRetries is the number of send retry attempts (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StateConfig holds settings for the processed-report store.
type StateConfig struct {
	// StateDir is the directory holding the SQLite database.
	StateDir string `json:"state_dir" yaml:"state_dir"`
}

// ArchiveConfig holds settings for per-run digest records.
type ArchiveConfig struct {
	// DigestsDir is the base directory for digest output (contains metadata/).
	DigestsDir string `json:"digests_dir" yaml:"digests_dir"`
}

// PipelineConfig groups all stage configurations for a digest run.
type PipelineConfig struct {
	Locate    LocateConfig    `json:"locate" yaml:"locate"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Extract   ExtractConfig   `json:"extract" yaml:"extract"`
	Summary   SummaryConfig   `json:"summary" yaml:"summary"`
	Translate TranslateConfig `json:"translate" yaml:"translate"`
	Mail      MailConfig      `json:"mail" yaml:"mail"`
	State     StateConfig     `json:"state" yaml:"state"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}

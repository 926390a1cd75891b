// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Digest records one processed weekly report.
type Digest struct {
	// URL is the source PDF URL. It is the dedupe key across runs.
	URL string `json:"url" yaml:"url"`

	// Week and Year identify the report by ISO week.
	Week int `json:"week" yaml:"week"`
	Year int `json:"year" yaml:"year"`

	// Subject is the email subject line used for the digest.
	Subject string `json:"subject" yaml:"subject"`

	// TextChars is the size of the extracted report text.
	TextChars int `json:"text_chars" yaml:"text_chars"`

	// SummaryChars is the size of the English summary.
	SummaryChars int `json:"summary_chars" yaml:"summary_chars"`

	// Language is the BCP 47 tag of the delivered summary.
	Language string `json:"language" yaml:"language"`

	// SentAt is when the digest email was dispatched.
	SentAt time.Time `json:"sent_at" yaml:"sent_at"`
}

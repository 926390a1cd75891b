// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail dispatches the digest email over SMTP.
package mail

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/pdiddy/threat-digest/pkg/types"
)

const (
	defaultMaxRetries = 3
	baseBackoff       = 500 * time.Millisecond
	sslPort           = 465
)

// Validate checks that the config can address and reach a mail server.
func Validate(cfg types.MailConfig) error {
	if cfg.Server == "" {
		return fmt.Errorf("SMTP server not configured (SMTP_SERVER)")
	}
	if cfg.Port <= 0 {
		return fmt.Errorf("invalid SMTP port %d (SMTP_PORT)", cfg.Port)
	}
	if cfg.Sender == "" {
		return fmt.Errorf("sender address not configured (SENDER_EMAIL)")
	}
	if cfg.Receiver == "" {
		return fmt.Errorf("receiver address not configured (RECEIVER_EMAIL)")
	}
	return nil
}

// Sender dispatches a digest email.
type Sender interface {
	Send(subject, plain, html string) error
}

// SMTPSender sends through a gomail dialer with retry and backoff.
type SMTPSender struct {
	cfg types.MailConfig

	// send and sleep are swappable for tests.
	send  func(*gomail.Message) error
	sleep func(time.Duration)
}

// NewSender builds a sender from validated config. Port 465 uses implicit
// TLS; an empty password skips authentication.
func NewSender(cfg types.MailConfig) (*SMTPSender, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	user := ""
	if cfg.Password != "" {
		user = cfg.Sender
	}
	d := gomail.NewDialer(cfg.Server, cfg.Port, user, cfg.Password)
	if cfg.Port == sslPort {
		d.SSL = true
	}

	return &SMTPSender{
		cfg:   cfg,
		send:  func(m *gomail.Message) error { return d.DialAndSend(m) },
		sleep: time.Sleep,
	}, nil
}

// Send dispatches the message, retrying transient failures with
// exponential backoff.
func (s *SMTPSender) Send(subject, plain, html string) error {
	msg := s.buildMessage(subject, plain, html)

	var lastErr error
	backoff := baseBackoff
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			s.sleep(backoff)
			backoff *= 2
		}
		if lastErr = s.send(msg); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("sending digest after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

func (s *SMTPSender) buildMessage(subject, plain, html string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.Sender)
	msg.SetHeader("To", s.cfg.Receiver)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plain)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}
	return msg
}

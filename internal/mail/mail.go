// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// Send delivers the digest as a multipart/alternative message (plain text
// plus HTML) over authenticated SMTP with STARTTLS.
func Send(cfg types.MailConfig, d Digest) error {
	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("mail username and password are required")
	}
	to := cfg.To
	if to == "" {
		to = cfg.Username
	}

	html, err := d.HTMLBody()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", d.Subject())
	m.SetBody("text/plain", d.PlainBody())
	m.AddAlternative("text/html", html)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending digest to %s: %w", to, err)
	}
	return nil
}

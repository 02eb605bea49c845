// Package mailer delivers mail over SMTP. Delivery is best effort: the
// stored copy of the email is the source of truth, a failed send is logged
// and reported as a status.
package mailer

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"golang.org/x/net/html"
)

type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	loggerf  func(format string, args ...interface{})
}

// NewFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and
// SMTP_FROM. Without a host the mailer becomes a logged no-op.
func NewFromEnv(loggerf func(format string, args ...interface{})) *Mailer {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
		loggerf:  loggerf,
	}
}

// Send delivers an HTML email with a plain-text alternative derived from
// the HTML body.
func (m *Mailer) Send(to, subject, htmlBody string) Status {
	if m.host == "" {
		m.loggerf("level=warn msg=smtp not configured, skipping delivery to=%s subject=%q", to, subject)
		return StatusSkipped
	}

	from := m.from
	if from == "" {
		from = m.username
	}

	boundary := "=_boundary_backoffice"
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, HTMLToText(htmlBody))
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(b.String())); err != nil {
		m.loggerf("level=error msg=smtp send failed to=%s err=%v", to, err)
		return StatusFailed
	}
	return StatusSent
}

// HTMLToText strips markup for the plain-text alternative part.
func HTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	out := text.String()
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

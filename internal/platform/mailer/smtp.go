package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool // false for Mailpit on 1025
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

func (s *SMTPMailer) Send(toEmail, toName, subject, text, html string) ([]string, error) {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return nil, fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"
	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	// text part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	// html part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if s.UseTLS {
		return s.sendTLS(addr, auth, toEmail, buf.Bytes())
	}

	// Plain / STARTTLS path. SendMail only succeeds once the server has
	// accepted every recipient, so a nil error means toEmail was taken.
	if err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes()); err != nil {
		return nil, err
	}
	return []string{toEmail}, nil
}

// sendTLS handles implicit TLS (e.g. port 465) via a manual client so
// the RCPT acceptance is observed per address.
func (s *SMTPMailer) sendTLS(addr string, auth smtp.Auth, toEmail string, msg []byte) ([]string, error) {
	tlsCfg := &tls.Config{ServerName: s.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return nil, err
	}
	defer c.Quit()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return nil, err
		}
	}
	if err := c.Mail(s.From); err != nil {
		return nil, err
	}

	var accepted []string
	if err := c.Rcpt(toEmail); err != nil {
		return nil, err
	}
	accepted = append(accepted, toEmail)

	w, err := c.Data()
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(msg); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return accepted, nil
}

func (s *SMTPMailer) SendVerificationCode(toEmail, toName, code string) ([]string, error) {
	return s.Send(toEmail, toName, verificationSubject, verificationText(code), verificationHTML(code))
}

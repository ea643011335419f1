package utils

import (
	"crypto/tls"
	"errors"
	"net"
	"net/smtp"
)

var ErrSMTPNotConfigured = errors.New("SMTP not configured")

type SMTPCfg struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	cfg      SMTPCfg
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	dialTLS  func(addr string, cfg *tls.Config) (net.Conn, error)
}

func NewSMTPMailer(cfg SMTPCfg) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		dialTLS: func(addr string, cfg *tls.Config) (net.Conn, error) {
			return tls.Dial("tcp", addr, cfg)
		},
	}
}

// Configured reports whether credentials are present.
func (m *SMTPMailer) Configured() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.Port != "" && m.cfg.User != "" && m.cfg.Pass != "" && m.cfg.From != ""
}

func (m *SMTPMailer) SendEmail(to, subject, body string) error {
	if !m.Configured() {
		return ErrSMTPNotConfigured
	}
	cfg := m.cfg

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	msg := buildMessage(cfg.From, to, subject, body)

	err := m.sendMail(addr, auth, cfg.From, []string{to}, msg)
	if err == nil || cfg.Port != "465" {
		return err
	}
	return m.sendImplicitTLS(addr, auth, to, msg)
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte("From: \"Interview Coach\" <" + from + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n")
}

// port 465 expects TLS from the first byte, which smtp.SendMail does not do
func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	cfg := m.cfg
	conn, err := m.dialTLS(addr, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	// Quit leaves the connection open when the server rejects QUIT
	defer c.Close()
	if err = c.Auth(auth); err != nil {
		return err
	}
	if err = c.Mail(cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write(msg); err != nil {
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

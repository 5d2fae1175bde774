package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPClient struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewSMTPClient(host string, port int, user, pass, from string) *SMTPClient {
	if port == 0 {
		port = 587
	}
	return &SMTPClient{Host: host, Port: port, User: user, Password: pass, From: from}
}

func (s *SMTPClient) Send(to, subject, htmlBody string) error {
	if s == nil || s.Host == "" {
		return fmt.Errorf("smtp not configured")
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("invalid header value")
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{to}, buildMessage(s.From, to, subject, htmlBody))
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	return []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" + htmlBody + "\r\n")
}

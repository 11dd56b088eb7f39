package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 587
	defaultSubject  = "resume-tailor"
)

// EmailConfig describes an SMTP account. Sender doubles as the login.
type EmailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
	To       string
	Subject  string
}

// Email sends messages over SMTP with STARTTLS.
type Email struct {
	cfg EmailConfig
	// sendMail is smtp.SendMail outside of tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmail(cfg EmailConfig) (*Email, error) {
	if strings.TrimSpace(cfg.Sender) == "" || cfg.Password == "" || strings.TrimSpace(cfg.To) == "" {
		return nil, errors.New("sender, password and recipient are required for e-mail notifications")
	}
	if cfg.Host == "" {
		cfg.Host = defaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.Subject == "" {
		cfg.Subject = defaultSubject
	}

	return &Email{cfg: cfg, sendMail: smtp.SendMail}, nil
}

func (e *Email) Send(ctx context.Context, text string) error {
	return e.SendWithAttachment(ctx, e.cfg.Subject, text, "")
}

// SendFile sends text with the file at path attached.
func (e *Email) SendFile(ctx context.Context, text, path string) error {
	return e.SendWithAttachment(ctx, e.cfg.Subject, text, path)
}

// SendWithAttachment sends body with the file at attachment, if set, attached.
func (e *Email) SendWithAttachment(ctx context.Context, subject, body, attachment string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(e.cfg.Sender, e.cfg.To, subject, body, attachment, time.Now())
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	auth := smtp.PlainAuth("", e.cfg.Sender, e.cfg.Password, e.cfg.Host)
	if err := e.sendMail(addr, auth, e.cfg.Sender, []string{e.cfg.To}, msg); err != nil {
		return fmt.Errorf("send e-mail via %s: %w", addr, err)
	}
	return nil
}

func buildMessage(from, to, subject, body, attachment string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=utf-8"},
		"Content-Transfer-Encoding": {"8bit"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	if attachment != "" {
		data, err := os.ReadFile(attachment)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}

		filePart, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/octet-stream"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(attachment)})},
		})
		if err != nil {
			return nil, err
		}

		encoded := base64.StdEncoding.EncodeToString(data)
		for len(encoded) > 76 {
			fmt.Fprintf(filePart, "%s\r\n", encoded[:76])
			encoded = encoded[76:]
		}
		fmt.Fprintf(filePart, "%s\r\n", encoded)
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

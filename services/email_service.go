package services

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"path/filepath"
	"time"

	"github.com/tcs-suzini/club-backend/config"
)

// Mailer is what the auth flows need from the mail layer. Delivery is
// best-effort: callers never block a request on the outcome.
type Mailer interface {
	SendPasswordReset(to, resetToken string) error
	SendReferentCode(to, code string) error
}

// EmailService sends mail over SMTP. When no SMTP host is configured or
// delivery fails, the message body is written to a local fallback directory
// instead; the caller's flow is never failed on delivery.
type EmailService struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewEmailService(cfg *config.Config, logger *slog.Logger) *EmailService {
	return &EmailService{cfg: cfg, logger: logger}
}

func (s *EmailService) SendPasswordReset(to, resetToken string) error {
	subject := "Réinitialisation de votre mot de passe - TCS Suzini"
	body := fmt.Sprintf(
		"<p>Bonjour,</p><p>Pour réinitialiser votre mot de passe, utilisez ce jeton dans l'application :</p><p><b>%s</b></p><p>Ce jeton expire dans une heure.</p>",
		resetToken,
	)
	return s.send(to, subject, body)
}

func (s *EmailService) SendReferentCode(to, code string) error {
	subject := "Votre code de vérification référent - TCS Suzini"
	body := fmt.Sprintf(
		"<p>Bonjour,</p><p>Votre code de vérification référent est :</p><p><b>%s</b></p><p>Ce code expire dans 15 minutes.</p>",
		code,
	)
	return s.send(to, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	if s.cfg.SMTPHost == "" {
		return s.writeFallback(to, subject, body)
	}
	if err := s.sendSMTP(to, subject, body); err != nil {
		s.logger.Warn("smtp delivery failed, writing fallback file",
			slog.String("to", to), slog.Any("error", err))
		return s.writeFallback(to, subject, body)
	}
	return nil
}

func (s *EmailService) sendSMTP(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return w.Close()
}

// writeFallback drops the message into the local outbox directory. This is a
// debugging aid, not a durable interface.
func (s *EmailService) writeFallback(to, subject, body string) error {
	if err := os.MkdirAll(s.cfg.EmailFallbackDir, 0o755); err != nil {
		return fmt.Errorf("create fallback dir: %w", err)
	}
	name := fmt.Sprintf("%d_%s.html", time.Now().UnixNano(), to)
	content := fmt.Sprintf("<!-- To: %s -->\n<!-- Subject: %s -->\n%s\n", to, subject, body)
	path := filepath.Join(s.cfg.EmailFallbackDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write fallback file: %w", err)
	}
	s.logger.Info("email written to fallback outbox", slog.String("path", path))
	return nil
}

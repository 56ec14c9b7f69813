package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
	"go.uber.org/zap"

	"github.com/dropDatabas3/syndik/internal/observability/logger"
)

// SMTPConfig datos de conexión SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLSMode  string // "auto" | "starttls" | "ssl" | "none"
}

// SMTPSender implementa Sender usando go-mail.
type SMTPSender struct {
	cfg                SMTPConfig
	InsecureSkipVerify bool // solo dev
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) message(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	// multipart/alternative (txt + html)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.Timeout = 10 * time.Second
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host, InsecureSkipVerify: s.InsecureSkipVerify}
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	case "starttls":
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	return d
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	log := logger.From(ctx).With(logger.Component("email.smtp"))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer().DialAndSend(s.message(msg)); err != nil {
		diag := DiagnoseSMTP(err)
		log.Warn("smtp send failed",
			logger.Err(err),
			zap.String("diag", diag.Code),
			zap.Bool("temporary", diag.Temporary))
		return fmt.Errorf("%w: smtp %s: %v", ErrSendFailed, diag.Code, err)
	}
	log.Debug("email sent", zap.String("subject", msg.Subject))
	return nil
}

// Package mail delivers HTML email over SMTP with gomail.
package mail

import (
	"context"
	"log/slog"

	"ministry/config"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"go.uber.org/fx"
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	dialer dialer
	from   string
	logger *slog.Logger
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailSender returns an SMTP sender. When no host is configured mail is only logged.
func NewMailSender(params Params) service.MailSender {
	cfg := params.Config.Mail
	if cfg == nil || cfg.Host == "" {
		params.Logger.Info("SMTP not configured, email delivery is logged only")

		return &smtpSender{logger: params.Logger, from: fromAddress(cfg)}
	}

	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   fromAddress(cfg),
		logger: params.Logger,
	}
}

func fromAddress(cfg *config.MailConfig) string {
	if cfg == nil || cfg.From == "" {
		return "no-reply@ministry.local"
	}

	return cfg.From
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return errors.New("mail recipient is empty")
	}

	if s.dialer == nil {
		s.logger.InfoContext(ctx, "[Mail] Delivery disabled, message logged",
			slog.String("to", to),
			slog.String("subject", subject),
		)

		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "send mail to %s", to)
	}

	s.logger.InfoContext(ctx, "[Mail] Message sent", slog.String("to", to), slog.String("subject", subject))

	return nil
}

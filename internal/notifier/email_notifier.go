package notifier

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aleister1102/metawatch/internal/common"
	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// EmailNotifier sends group reports over SMTP.
type EmailNotifier struct {
	cfg      config.EmailConfig
	username string
	password string
	logger   zerolog.Logger
}

// NewEmailNotifier creates an EmailNotifier, reading SMTP credentials from the configured environment variables.
func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	username, password := cfg.Credentials()
	if username == "" || password == "" {
		return nil, common.WrapErrorf(common.ErrInvalidConfiguration,
			"smtp credentials missing: set %s and %s", cfg.UserEnv, cfg.PassEnv)
	}
	if len(cfg.To) == 0 {
		return nil, common.WrapError(common.ErrInvalidConfiguration, "no email recipients configured")
	}

	return &EmailNotifier{
		cfg:      cfg,
		username: username,
		password: password,
		logger:   logger.With().Str("module", "EmailNotifier").Logger(),
	}, nil
}

// Name identifies the channel in logs.
func (en *EmailNotifier) Name() string {
	return notifierNameEmail
}

// Notify sends the report as a multipart message: plain-text and HTML alternatives plus the spreadsheet.
func (en *EmailNotifier) Notify(ctx context.Context, report models.Report) error {
	msg, err := en.buildMessage(report)
	if err != nil {
		return err
	}

	client, err := en.newClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		en.logger.Error().Err(err).Str("hostname", report.Hostname).Msg("Failed to send email")
		return common.NewNetworkError(en.cfg.SMTPHost, "failed to send email", err)
	}

	en.logger.Info().
		Str("hostname", report.Hostname).
		Strs("to", en.cfg.To).
		Str("attachment", report.FilePath).
		Msg("Email sent")
	return nil
}

func (en *EmailNotifier) buildMessage(report models.Report) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(en.cfg.SenderName, en.cfg.Sender()); err != nil {
		return nil, common.WrapError(err, "invalid sender address")
	}
	if err := msg.To(en.cfg.To...); err != nil {
		return nil, common.WrapError(err, "invalid recipient address")
	}

	subject := report.Subject
	if subject == "" {
		subject = en.cfg.Subject
	}
	msg.Subject(subject)
	msg.SetDate()

	text := report.TextBody
	if text == "" {
		text = en.cfg.Intro
	}
	msg.SetBodyString(mail.TypeTextPlain, text)
	if report.HTMLBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, report.HTMLBody)
	}

	if report.FilePath != "" {
		msg.AttachFile(report.FilePath, mail.WithFileName(filepath.Base(report.FilePath)))
	}
	return msg, nil
}

func (en *EmailNotifier) newClient() (*mail.Client, error) {
	timeout := defaultSendTimeout
	if en.cfg.SendTimeoutSecs > 0 {
		timeout = time.Duration(en.cfg.SendTimeoutSecs) * time.Second
	}

	client, err := mail.NewClient(en.cfg.SMTPHost,
		mail.WithPort(en.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(en.username),
		mail.WithPassword(en.password),
		mail.WithTLSPolicy(tlsPolicy(en.cfg.TLSPolicy)),
		mail.WithTimeout(timeout),
	)
	if err != nil {
		return nil, common.WrapError(err, "failed to create smtp client")
	}
	return client, nil
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case "opportunistic":
		return mail.TLSOpportunistic
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSMandatory
	}
}

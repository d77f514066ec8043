package config

import "os"

// NotificationConfig defines the delivery channels for group reports
type NotificationConfig struct {
	Email              EmailConfig `json:"email" yaml:"email"`
	DiscordWebhookURL  string      `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	DiscordMentionRole []string    `json:"discord_mention_role_ids,omitempty" yaml:"discord_mention_role_ids,omitempty"`
}

// EmailConfig defines SMTP delivery. Credentials are read from the environment.
type EmailConfig struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	SMTPHost        string   `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty" validate:"required_if=Enabled true"`
	SMTPPort        int      `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"min=0,max=65535"`
	TLSPolicy       string   `json:"tls_policy,omitempty" yaml:"tls_policy,omitempty" validate:"omitempty,oneof=mandatory opportunistic none"`
	From            string   `json:"from,omitempty" yaml:"from,omitempty" validate:"omitempty,email"`
	SenderName      string   `json:"sender_name,omitempty" yaml:"sender_name,omitempty"`
	To              []string `json:"to,omitempty" yaml:"to,omitempty" validate:"required_if=Enabled true,dive,email"`
	Subject         string   `json:"subject,omitempty" yaml:"subject,omitempty"`
	Intro           string   `json:"intro,omitempty" yaml:"intro,omitempty"`
	UserEnv         string   `json:"user_env,omitempty" yaml:"user_env,omitempty"`
	PassEnv         string   `json:"pass_env,omitempty" yaml:"pass_env,omitempty"`
	SendTimeoutSecs int      `json:"send_timeout_secs,omitempty" yaml:"send_timeout_secs,omitempty" validate:"min=0"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Email:              NewDefaultEmailConfig(),
		DiscordWebhookURL:  "",
		DiscordMentionRole: []string{},
	}
}

// NewDefaultEmailConfig creates default email configuration
func NewDefaultEmailConfig() EmailConfig {
	return EmailConfig{
		Enabled:         true,
		SMTPHost:        DefaultEmailSMTPHost,
		SMTPPort:        DefaultEmailSMTPPort,
		TLSPolicy:       DefaultEmailTLSPolicy,
		SenderName:      DefaultEmailSenderName,
		To:              nil,
		Subject:         DefaultEmailSubject,
		Intro:           DefaultEmailIntro,
		UserEnv:         DefaultEmailUserEnv,
		PassEnv:         DefaultEmailPassEnv,
		SendTimeoutSecs: DefaultEmailSendTimeoutSecs,
	}
}

// Credentials returns the SMTP username and password from the configured environment variables
func (e EmailConfig) Credentials() (string, string) {
	return os.Getenv(e.UserEnv), os.Getenv(e.PassEnv)
}

// Sender returns the From address, falling back to the SMTP username
func (e EmailConfig) Sender() string {
	if e.From != "" {
		return e.From
	}
	user, _ := e.Credentials()
	return user
}

package notify

import (
	"github.com/pashioya/marnix13/pkg/config"
)

// NewMailer returns the mailer selected by mail_transport.
func NewMailer(cfg *config.PortalConfig) Mailer {
	if cfg.MailTransport != "smtp" {
		return LogMailer{}
	}
	return NewSMTPMailer(smtpConfig(cfg))
}

func smtpConfig(cfg *config.PortalConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword(),
		From:        cfg.SMTPFrom,
		FromName:    cfg.SMTPFromName,
		ImplicitTLS: cfg.SMTPTLS && cfg.SMTPPort == 465,
	}
}

// FromConfig builds a notifier for the current configuration.
func FromConfig(cfg *config.PortalConfig) *Notifier {
	return NewNotifier(NewMailer(cfg), cfg.SiteURL, cfg.ProductName)
}

// Reconfigure builds a notifier for cfg that keeps the mailer of prev when
// the transport settings are unchanged, so circuit breaker state survives
// a reload.
func Reconfigure(prev *Notifier, cfg *config.PortalConfig) *Notifier {
	if prev == nil || !sameTransport(prev.mailer, cfg) {
		return FromConfig(cfg)
	}
	return NewNotifier(prev.mailer, cfg.SiteURL, cfg.ProductName)
}

func sameTransport(m Mailer, cfg *config.PortalConfig) bool {
	switch m := m.(type) {
	case LogMailer:
		return cfg.MailTransport != "smtp"
	case *SMTPMailer:
		return cfg.MailTransport == "smtp" && m.cfg == smtpConfig(cfg)
	default:
		return false
	}
}

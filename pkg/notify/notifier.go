package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/metrics"
)

const (
	TemplateApproval  = "approval"
	TemplateRejection = "rejection"

	DefaultSiteURL     = "http://localhost:3000"
	DefaultProductName = "Marnix 13"
	DefaultReason      = "No specific reason provided"
)

// DefaultServices is the service list shown in the approval email.
var DefaultServices = []string{
	"Jellyfin (Media Server)",
	"Nextcloud (Cloud Storage)",
	"Radarr (Movie Management)",
	"Sonarr (TV Series Management)",
	"Manga Reader",
}

// ErrMissingEmail is returned when a recipient has no address.
var ErrMissingEmail = errors.New("recipient email is missing")

// Recipient is the account a notification is addressed to.
type Recipient struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Message is a rendered email.
type Message struct {
	To        string
	Subject   string
	Template  string
	Variables map[string]string
	Text      string
	HTML      string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier renders and sends account notifications.
type Notifier struct {
	mailer      Mailer
	siteURL     string
	productName string
	services    []string
}

// NewNotifier creates a notifier. Empty siteURL and productName fall back
// to the defaults.
func NewNotifier(mailer Mailer, siteURL, productName string) *Notifier {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if productName == "" {
		productName = DefaultProductName
	}
	return &Notifier{
		mailer:      mailer,
		siteURL:     siteURL,
		productName: productName,
		services:    DefaultServices,
	}
}

// Mailer returns the transport messages are delivered with.
func (n *Notifier) Mailer() Mailer {
	return n.mailer
}

// SendApprovalNotification tells the user their account was approved.
func (n *Notifier) SendApprovalNotification(ctx context.Context, user Recipient) error {
	data := templateData{
		ProductName: n.productName,
		Name:        user.Name,
		Email:       user.Email,
		SiteURL:     n.siteURL,
		Services:    n.services,
	}
	msg := Message{
		To:       user.Email,
		Subject:  fmt.Sprintf("Welcome to %s! Your account has been approved", n.productName),
		Template: TemplateApproval,
		Variables: map[string]string{
			"name":    user.Name,
			"email":   user.Email,
			"siteUrl": n.siteURL,
		},
	}

	if err := n.send(ctx, msg, data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("to", user.Email).Msg("failed to send approval notification")
		return err
	}
	logging.Ctx(ctx).Info().Str("to", user.Email).Str("name", user.Name).Msg("approval notification sent")
	return nil
}

// SendRejectionNotification tells the user their request was rejected.
// An empty reason is replaced by DefaultReason.
func (n *Notifier) SendRejectionNotification(ctx context.Context, user Recipient, reason string) error {
	if reason == "" {
		reason = DefaultReason
	}
	data := templateData{
		ProductName: n.productName,
		Name:        user.Name,
		Email:       user.Email,
		Reason:      reason,
	}
	msg := Message{
		To:       user.Email,
		Subject:  fmt.Sprintf("Account Request Update - %s", n.productName),
		Template: TemplateRejection,
		Variables: map[string]string{
			"name":   user.Name,
			"email":  user.Email,
			"reason": reason,
		},
	}

	if err := n.send(ctx, msg, data); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("to", user.Email).Msg("failed to send rejection notification")
		return err
	}
	logging.Ctx(ctx).Info().Str("to", user.Email).Str("name", user.Name).Str("reason", reason).Msg("rejection notification sent")
	return nil
}

func (n *Notifier) send(ctx context.Context, msg Message, data templateData) (err error) {
	defer func() { metrics.RecordNotification(msg.Template, err) }()

	if msg.To == "" {
		return ErrMissingEmail
	}
	msg.Text, msg.HTML, err = render(msg.Template, data)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}

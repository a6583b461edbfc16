package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pashioya/marnix13/pkg/logging"
)

const previewLength = 200

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	log := logging.Ctx(ctx).With().Str("component", "email").Str("to", msg.To).Logger()

	log.Info().Str("template", msg.Template).Msgf("sending %s email to %s", msg.Template, msg.To)
	log.Info().Str("subject", msg.Subject).Msg("subject")
	log.Info().Dict("variables", variablesDict(msg.Variables)).Msg("variables")
	log.Info().Str("preview", preview(msg.Text)).Msg("content preview")
	log.Info().Msg("email logged; configure mail_transport=smtp to deliver")
	log.Info().Str("content", msg.Text).Msg("full email content")
	return nil
}

func variablesDict(vars map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range vars {
		d.Str(k, v)
	}
	return d
}

func preview(content string) string {
	r := []rune(content)
	if len(r) > previewLength {
		r = r[:previewLength]
	}
	return string(r) + "..."
}

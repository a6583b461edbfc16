package notify

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashioya/marnix13/pkg/config"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestSendApprovalNotification(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "", "")

	err := n.SendApprovalNotification(context.Background(), Recipient{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Welcome to Marnix 13! Your account has been approved", msg.Subject)
	assert.Equal(t, TemplateApproval, msg.Template)
	assert.Equal(t, DefaultSiteURL, msg.Variables["siteUrl"])

	assert.True(t, strings.HasPrefix(msg.Text, "Welcome to Marnix 13, Alice!"))
	assert.Contains(t, msg.Text, "Access your dashboard: http://localhost:3000")
	for _, s := range DefaultServices {
		assert.Contains(t, msg.Text, "- "+s)
	}
	assert.Contains(t, msg.HTML, "<h1>Welcome to Marnix 13, Alice!</h1>")
	assert.Contains(t, msg.HTML, `<a href="http://localhost:3000">Access Your Dashboard</a>`)
	assert.Contains(t, msg.HTML, "<li>Manga Reader</li>")
}

func TestSendRejectionNotification(t *testing.T) {
	tests := []struct {
		name       string
		reason     string
		wantReason string
	}{
		{"with reason", "Duplicate account", "Duplicate account"},
		{"default reason", "", DefaultReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &recordingMailer{}
			n := NewNotifier(mailer, "https://portal.example.com", "Marnix 13")

			err := n.SendRejectionNotification(context.Background(), Recipient{Name: "Bob", Email: "bob@example.com"}, tt.reason)
			require.NoError(t, err)
			require.Len(t, mailer.sent, 1)

			msg := mailer.sent[0]
			assert.Equal(t, "Account Request Update - Marnix 13", msg.Subject)
			assert.Equal(t, tt.wantReason, msg.Variables["reason"])
			assert.Contains(t, msg.Text, "Account Request Update - Bob")
			assert.Contains(t, msg.Text, "Reason: "+tt.wantReason)
			assert.Contains(t, msg.HTML, "<strong>Reason:</strong> "+tt.wantReason)
		})
	}
}

func TestSendNotificationErrors(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("connection refused")}
	n := NewNotifier(mailer, "", "")

	err := n.SendApprovalNotification(context.Background(), Recipient{Name: "Carol", Email: "carol@example.com"})
	assert.EqualError(t, err, "connection refused")

	err = n.SendApprovalNotification(context.Background(), Recipient{Name: "Carol"})
	assert.ErrorIs(t, err, ErrMissingEmail)
	assert.Len(t, mailer.sent, 1, "no delivery attempt without an address")
}

func TestHTMLEscapesUserInput(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "", "")

	require.NoError(t, n.SendRejectionNotification(context.Background(), Recipient{Name: "<script>x</script>", Email: "e@example.com"}, "spam"))
	assert.NotContains(t, mailer.sent[0].HTML, "<script>")
}

func TestMarkdownEscapesUserInput(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "", "")

	name := "[Verify account](https://evil.example.com) *now*"
	require.NoError(t, n.SendRejectionNotification(context.Background(),
		Recipient{Name: name, Email: "e@example.com"}, "see www.evil.example.com or **click**"))

	msg := mailer.sent[0]
	assert.NotContains(t, msg.HTML, "<a ")
	assert.NotContains(t, msg.HTML, "<em>now</em>")
	assert.NotContains(t, msg.HTML, "<strong>click</strong>")
	assert.Contains(t, msg.HTML, "[Verify account](https://evil.example.com) *now*")
	assert.Contains(t, msg.Text, name, "plain text part is not escaped")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), Message{To: "a@example.com", Subject: "s", Template: TemplateApproval, Text: "hi"}))
	assert.Equal(t, strings.Repeat("a", 200)+"...", preview(strings.Repeat("a", 300)))
	assert.Equal(t, "short...", preview("short"))
}

func TestSMTPMailer(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "pw", From: "noreply@example.com", FromName: "Marnix 13"})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	m.sendMail = func(_ context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{To: "alice@example.com", Subject: "Welcome", Text: "plain body", HTML: "<p>html body</p>"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)

	body := string(gotBody)
	assert.Contains(t, body, `From: "Marnix 13" <noreply@example.com>`)
	assert.Contains(t, body, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, body, "plain body")
	assert.Contains(t, body, "<p>html body</p>")
}

func TestSMTPMailerCircuitOpens(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	calls := 0
	m.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("421 service not available")
	}

	msg := Message{To: "a@example.com", Subject: "s", Text: "t"}
	for i := 0; i < 5; i++ {
		assert.Error(t, m.Send(context.Background(), msg))
	}
	err := m.Send(context.Background(), msg)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, calls)
}

func TestNewMailer(t *testing.T) {
	cfg := &config.PortalConfig{MailTransport: "log"}
	assert.IsType(t, LogMailer{}, NewMailer(cfg))

	cfg = &config.PortalConfig{MailTransport: "smtp", SMTPHost: "mail", SMTPPort: 465, SMTPTLS: true, SMTPFrom: "a@b.c"}
	m, ok := NewMailer(cfg).(*SMTPMailer)
	require.True(t, ok)
	assert.True(t, m.cfg.ImplicitTLS)
}

// silentSMTPServer accepts connections and never sends a greeting.
func silentSMTPServer(t *testing.T) SMTPConfig {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})

	host, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return SMTPConfig{Host: host, Port: p, From: "noreply@example.com"}
}

func TestSMTPMailerTimesOutOnSilentServer(t *testing.T) {
	cfg := silentSMTPServer(t)
	cfg.Timeout = 200 * time.Millisecond
	m := NewSMTPMailer(cfg)

	start := time.Now()
	err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSMTPMailerStopsWhenContextEnds(t *testing.T) {
	cfg := silentSMTPServer(t)
	cfg.Timeout = time.Minute
	m := NewSMTPMailer(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Send(ctx, Message{To: "a@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestReconfigureKeepsMailer(t *testing.T) {
	t.Setenv("MARNIX_SMTP_PASSWORD", "")
	cfg := &config.PortalConfig{MailTransport: "smtp", SMTPHost: "mail", SMTPPort: 587, SMTPFrom: "a@b.c", SiteURL: "https://portal.example.com"}
	first := FromConfig(cfg)

	renamed := *cfg
	renamed.ProductName = "Home Lab"
	second := Reconfigure(first, &renamed)
	assert.Same(t, first.Mailer(), second.Mailer())
	assert.Equal(t, "Home Lab", second.productName)

	moved := renamed
	moved.SMTPHost = "mail2"
	third := Reconfigure(second, &moved)
	assert.NotSame(t, second.Mailer(), third.Mailer())

	logOnly := moved
	logOnly.MailTransport = "log"
	assert.IsType(t, LogMailer{}, Reconfigure(third, &logOnly).Mailer())
	assert.IsType(t, LogMailer{}, Reconfigure(nil, &logOnly).Mailer())
}

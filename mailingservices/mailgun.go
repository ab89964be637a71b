package mailingservices

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/logger"
)

// Mailer sends transactional mail. Failures never block the caller's flow.
type Mailer interface {
	SendWelcomeMessage(ctx context.Context, email, username string) (string, error)
}

type Mailgun struct {
	Client mailgun.Mailgun
	From   string
}

// Init configures the client from config. It leaves Client nil when mail is not configured.
func (m *Mailgun) Init(c *config.Config) {
	if !c.MailEnabled() {
		logger.Warnf("mailgun not configured, outgoing mail disabled")
		return
	}
	m.Client = mailgun.NewMailgun(c.MgDomain, c.MailgunApiKey)
	m.From = c.MgEmailFrom
}

func (m *Mailgun) SendWelcomeMessage(ctx context.Context, email, username string) (string, error) {
	if m.Client == nil {
		return "", nil
	}
	subject := "Welcome to chatrelay"
	body := fmt.Sprintf("Hi %s,\n\nYour account is ready. Sign in to start a conversation.\n", username)
	message := m.Client.NewMessage(m.From, subject, body, email)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"roaddog-system/config"
)

// Feedback types accepted from the app.
const (
	TypeFeedback     = "feedback"
	TypeBug          = "bug"
	TypeBetaInterest = "beta-interest"
)

var ErrUnknownType = errors.New("unknown feedback type")

// Mailer sends operational notifications through SendGrid.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
	inbox  *mail.Email
}

func New(cfg config.MailConfig) *Mailer {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return &Mailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail("Road Dog", cfg.FromAddress),
		inbox:  mail.NewEmail("Road Dog Inbox", cfg.FeedbackInbox),
	}
}

// ValidType reports whether t is an accepted submission type.
func ValidType(t string) bool {
	switch t {
	case TypeFeedback, TypeBug, TypeBetaInterest:
		return true
	}
	return false
}

// SendSubmission forwards a feedback/bug/beta-interest submission to the
// configured inbox.
func (m *Mailer) SendSubmission(ctx context.Context, submissionType, fromUser, message string) error {
	if !ValidType(submissionType) {
		return fmt.Errorf("%w: %q", ErrUnknownType, submissionType)
	}

	subject := fmt.Sprintf("[%s] from %s", submissionType, fromUser)
	body := fmt.Sprintf("Type: %s\nFrom: %s\n\n%s", submissionType, fromUser, message)
	email := mail.NewSingleEmail(m.from, subject, m.inbox, body, body)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ReplySender delivers approved replies via SendGrid
type ReplySender struct {
	fromEmail string
	fromName  string
	send      func(ctx context.Context, message *mail.SGMailV3) (status int, body string, err error)
}

// NewReplySender creates a new reply sender. It returns nil when SendGrid is
// not configured.
func NewReplySender(apiKey, fromEmail, fromName string) *ReplySender {
	if apiKey == "" || fromEmail == "" {
		return nil
	}
	client := sendgrid.NewSendClient(apiKey)
	return &ReplySender{
		fromEmail: fromEmail,
		fromName:  fromName,
		send: func(ctx context.Context, message *mail.SGMailV3) (int, string, error) {
			response, err := client.SendWithContext(ctx, message)
			if err != nil {
				return 0, "", err
			}
			return response.StatusCode, response.Body, nil
		},
	}
}

// ReplySubject prefixes subject with "Re: " unless it already is a reply
func ReplySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}

// BuildReply creates the message sent to the original sender
func (rs *ReplySender) BuildReply(to, subject, body string) *mail.SGMailV3 {
	from := mail.NewEmail(rs.fromName, rs.fromEmail)
	recipient := mail.NewEmail("", to)
	htmlBody := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
	return mail.NewSingleEmail(from, ReplySubject(subject), recipient, body, htmlBody)
}

// SendReply sends body to the original sender as a reply to subject
func (rs *ReplySender) SendReply(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	status, responseBody, err := rs.send(ctx, rs.BuildReply(to, subject, body))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if status >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", status, responseBody)
	}

	return nil
}

package email

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReplySender_NotConfigured(t *testing.T) {
	assert.Nil(t, NewReplySender("", "support@example.com", "Support"))
	assert.Nil(t, NewReplySender("SG.key", "", "Support"))
	assert.NotNil(t, NewReplySender("SG.key", "support@example.com", "Support"))
}

func TestReplySubject(t *testing.T) {
	assert.Equal(t, "Re: Order #1234", ReplySubject("Order #1234"))
	assert.Equal(t, "Re: Order #1234", ReplySubject("Re: Order #1234"))
	assert.Equal(t, "RE: Order", ReplySubject("RE: Order"))
}

func TestSendReply(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		sendErr       error
		to            string
		expectedError string
	}{
		{name: "accepted", status: 202, to: "customer@example.com"},
		{name: "api error", status: 401, to: "customer@example.com", expectedError: "SendGrid API error: status 401"},
		{name: "transport error", sendErr: errors.New("dial tcp"), to: "customer@example.com", expectedError: "failed to send email"},
		{name: "no recipient", to: "", expectedError: "recipient address is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent *mail.SGMailV3
			rs := &ReplySender{
				fromEmail: "support@example.com",
				fromName:  "Support Team",
				send: func(_ context.Context, m *mail.SGMailV3) (int, string, error) {
					sent = m
					return tt.status, "denied", tt.sendErr
				},
			}

			err := rs.SendReply(context.Background(), tt.to, "Order #1234", "Hello,\nIt ships today.")
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sent)
			assert.Equal(t, "Re: Order #1234", sent.Subject)
			assert.Equal(t, "support@example.com", sent.From.Address)
			require.Len(t, sent.Personalizations, 1)
			assert.Equal(t, "customer@example.com", sent.Personalizations[0].To[0].Address)
			require.Len(t, sent.Content, 2)
			assert.Equal(t, "Hello,<br>It ships today.", sent.Content[1].Value)
		})
	}
}

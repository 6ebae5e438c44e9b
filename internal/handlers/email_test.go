package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mailreply/internal/mail"
	"mailreply/internal/models"
	"mailreply/internal/safety"
	"mailreply/internal/summary"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailService struct {
	submit        func(ctx context.Context, req mail.SubmitRequest) (*mail.SubmitResult, error)
	getSummary    func(ctx context.Context, emailID string) (*models.Summary, error)
	generateReply func(ctx context.Context, emailID string, req mail.GenerateRequest) (*mail.GenerateResult, error)
	listThreads   func(ctx context.Context, limit, offset int) ([]models.Thread, error)
	getThread     func(ctx context.Context, id string) (*models.Thread, error)
}

func (f *fakeEmailService) Submit(ctx context.Context, req mail.SubmitRequest) (*mail.SubmitResult, error) {
	return f.submit(ctx, req)
}

func (f *fakeEmailService) GetSummary(ctx context.Context, emailID string) (*models.Summary, error) {
	return f.getSummary(ctx, emailID)
}

func (f *fakeEmailService) GenerateReply(ctx context.Context, emailID string, req mail.GenerateRequest) (*mail.GenerateResult, error) {
	return f.generateReply(ctx, emailID, req)
}

func (f *fakeEmailService) ListThreads(ctx context.Context, limit, offset int) ([]models.Thread, error) {
	return f.listThreads(ctx, limit, offset)
}

func (f *fakeEmailService) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	return f.getThread(ctx, id)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSubmitEmailHandler(t *testing.T) {
	stored := &models.Summary{EmailID: "email-1", RecommendedTone: "professional"}

	tests := []struct {
		name           string
		body           string
		submitErr      error
		expectedStatus int
		checkRequest   func(t *testing.T, req mail.SubmitRequest)
		checkBody      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:           "stores email and returns summary",
			body:           `{"subject":"Order status","body":"Where is my order?","sender":" a@example.com ","thread_id":"t-1"}`,
			expectedStatus: http.StatusOK,
			checkRequest: func(t *testing.T, req mail.SubmitRequest) {
				assert.Equal(t, "a@example.com", req.Sender)
				assert.Equal(t, "t-1", req.ThreadID)
				assert.Equal(t, "Order status", req.Subject)
			},
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp models.EmailSubmitResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "success", resp.Status)
				assert.Equal(t, "email-1", resp.EmailID)
				assert.Equal(t, "thread-1", resp.ThreadID)
				require.NotNil(t, resp.Summary)
				assert.Equal(t, "professional", resp.Summary.RecommendedTone)
			},
		},
		{
			name:           "unsafe content is rejected",
			body:           `{"subject":"Lottery Winner","body":"You have won a lottery! Send money to claim.","sender":"x@example.com"}`,
			submitErr:      safety.ValidateContent("Lottery Winner", "You have won a lottery! Send money to claim."),
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				resp := decodeError(t, rec)
				assert.Contains(t, resp.Error, "Request rejected")
				assert.Contains(t, resp.Error, "unsafe keyword 'lottery winner'")
				assert.Equal(t, resp.Error, resp.Detail)
			},
		},
		{
			name:           "missing sender",
			body:           `{"subject":"hi","body":"hello"}`,
			submitErr:      fmt.Errorf("%w: sender is required", mail.ErrInvalidEmail),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"subject":`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Invalid request body", decodeError(t, rec).Error)
			},
		},
		{
			name:           "extraction failure",
			body:           `{"subject":"hi","body":"hello","sender":"a@example.com"}`,
			submitErr:      fmt.Errorf("%w: missing fields", summary.ErrExtractionFailed),
			expectedStatus: http.StatusBadGateway,
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "Summary extraction failed", decodeError(t, rec).Error)
			},
		},
		{
			name:           "store failure",
			body:           `{"subject":"hi","body":"hello","sender":"a@example.com"}`,
			submitErr:      errors.New("disk full"),
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.NotContains(t, rec.Body.String(), "disk full")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEmailService{
				submit: func(ctx context.Context, req mail.SubmitRequest) (*mail.SubmitResult, error) {
					if tt.checkRequest != nil {
						tt.checkRequest(t, req)
					}
					if tt.submitErr != nil {
						return nil, tt.submitErr
					}
					return &mail.SubmitResult{EmailID: "email-1", ThreadID: "thread-1", Summary: stored}, nil
				},
			}

			c, rec := newJSONContext(http.MethodPost, "/api/v1/email/submit", tt.body)
			require.NoError(t, SubmitEmailHandler(svc)(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec)
			}
		})
	}
}

func TestGetSummaryHandler(t *testing.T) {
	svc := &fakeEmailService{
		getSummary: func(ctx context.Context, emailID string) (*models.Summary, error) {
			if emailID == "known" {
				return &models.Summary{EmailID: "known"}, nil
			}
			return nil, mail.ErrSummaryNotFound
		},
	}

	t.Run("found", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/api/v1/email/known/summary", "")
		c.SetParamNames("id")
		c.SetParamValues("known")

		require.NoError(t, GetSummaryHandler(svc)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.SummaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "known", resp.Summary.EmailID)
	})

	t.Run("unknown email", func(t *testing.T) {
		c, rec := newJSONContext(http.MethodGet, "/api/v1/email/nope/summary", "")
		c.SetParamNames("id")
		c.SetParamValues("nope")

		require.NoError(t, GetSummaryHandler(svc)(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Summary not found", decodeError(t, rec).Error)
	})
}

func TestGenerateReplyHandler(t *testing.T) {
	lastDraft := "Ok."

	tests := []struct {
		name           string
		body           string
		genErr         error
		expectedStatus int
		checkRequest   func(t *testing.T, req mail.GenerateRequest)
		checkBody      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:           "empty body uses default tone",
			expectedStatus: http.StatusOK,
			checkRequest: func(t *testing.T, req mail.GenerateRequest) {
				assert.Equal(t, "professional", req.Tone)
				assert.Empty(t, req.Instructions)
				assert.False(t, req.AutoSend)
			},
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp models.GenerateReplyResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "email-1", resp.EmailID)
				assert.Equal(t, 1, resp.Attempts)
				assert.NotEmpty(t, resp.Reply)
			},
		},
		{
			name:           "tone instructions and auto send are forwarded",
			body:           `{"tone":"friendly","instructions":"Offer a discount","auto_send":true}`,
			expectedStatus: http.StatusOK,
			checkRequest: func(t *testing.T, req mail.GenerateRequest) {
				assert.Equal(t, "friendly", req.Tone)
				assert.Equal(t, "Offer a discount", req.Instructions)
				assert.True(t, req.AutoSend)
			},
		},
		{
			name:           "no summary",
			body:           `{"tone":"friendly"}`,
			genErr:         mail.ErrSummaryNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "validation exhausted",
			body: `{"tone":"sexual"}`,
			genErr: &mail.GenerationExhaustedError{
				Reason:    "Content contains unsafe keyword 'sexual'",
				LastDraft: &lastDraft,
				Attempts:  3,
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp models.GenerateReplyFailure
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "Reply generation failed: Content contains unsafe keyword 'sexual'", resp.Error)
				assert.Equal(t, 3, resp.Attempts)
				require.NotNil(t, resp.Reply)
				assert.Equal(t, "Ok.", *resp.Reply)
			},
		},
		{
			name:           "workflow deadline",
			body:           `{}`,
			genErr:         fmt.Errorf("reply generation: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusGatewayTimeout,
		},
		{
			name:           "model failure",
			body:           `{}`,
			genErr:         errors.New("both providers failed"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEmailService{
				generateReply: func(ctx context.Context, emailID string, req mail.GenerateRequest) (*mail.GenerateResult, error) {
					assert.Equal(t, "email-1", emailID)
					if tt.checkRequest != nil {
						tt.checkRequest(t, req)
					}
					if tt.genErr != nil {
						return nil, tt.genErr
					}
					return &mail.GenerateResult{
						EmailID:  emailID,
						ThreadID: "thread-1",
						Reply:    "Thank you for reaching out, we are on it.",
						Tone:     req.Tone,
						Attempts: 1,
					}, nil
				},
			}

			c, rec := newJSONContext(http.MethodPost, "/api/v1/email/email-1/generate-reply", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("email-1")

			require.NoError(t, GenerateReplyHandler(svc)(c))
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec)
			}
		})
	}
}

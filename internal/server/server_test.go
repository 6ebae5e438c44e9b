package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "mailreply/docs"
	"mailreply/internal/analytics"
	"mailreply/internal/config"
	"mailreply/internal/database"
	"mailreply/internal/mail"
	"mailreply/internal/models"
	"mailreply/internal/openai"
	"mailreply/internal/reply"
	"mailreply/internal/summary"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubSummary = `{
  "sender": {"email": "customer@example.com", "name": "Dana", "previous_interactions": 1},
  "thread_info": {"is_thread": false, "thread_id": null, "email_count": 1, "thread_summary": null},
  "content_analysis": {"main_topic": "Order status", "questions": ["Where is my order?"], "action_items": [], "mentioned_entities": [], "dates_deadlines": []},
  "classification": {"intent": "order_status", "sub_intent": null, "confidence": 0.9},
  "sentiment": {"score": 0.0, "label": "neutral", "tone": "calm"},
  "urgency": {"level": "low", "reason": "", "suggested_response_time": "48 hours"},
  "context_summary": "Customer asks where the order is.",
  "recommended_tone": "professional"
}`

// stubModel answers summary prompts with stubSummary and reply prompts with a
// draft that repeats the requested tone
type stubModel struct{}

func (stubModel) Complete(_ context.Context, p openai.Prompt) (string, error) {
	if p.JSON {
		return stubSummary, nil
	}
	for _, line := range strings.Split(p.User, "\n") {
		if strings.HasPrefix(line, "- Write a ") {
			tone := strings.TrimSuffix(strings.TrimPrefix(line, "- Write a "), " email reply.")
			return fmt.Sprintf("Hello Dana, this %s reply confirms your order ships today.", tone), nil
		}
	}
	return "Hello Dana, your order ships today.", nil
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := database.NewStore(db, logger)
	require.NoError(t, store.CreateTables(ctx))

	tracker, err := analytics.NewService(ctx, db, logger)
	require.NoError(t, err)

	model := stubModel{}
	svc := mail.NewService(
		store,
		summary.NewExtractor(model, logger),
		reply.NewWorkflow(reply.NewModelDrafter(model), logger),
		nil,
		tracker,
		mail.Options{GenerationTimeout: 5 * time.Second, SummaryCacheTTL: time.Minute},
		logger,
	)

	cfg.Version = "test"
	srv := New(cfg, db, svc, tracker, logger)
	srv.Initialize()
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_SubmitSummarizeReply(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/v1/email/submit", models.EmailSubmitRequest{
		Subject: "Order #1234",
		Body:    "Hi, where is my order?",
		Sender:  "customer@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submitted models.EmailSubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, "success", submitted.Status)
	require.NotNil(t, submitted.Summary)
	assert.Equal(t, submitted.EmailID, submitted.Summary.EmailID)
	assert.Equal(t, 1, submitted.Summary.ThreadInfo.EmailCount)

	rec = do(t, srv, http.MethodGet, "/api/v1/email/"+submitted.EmailID+"/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/email/"+submitted.EmailID+"/generate-reply",
		models.GenerateReplyRequest{Tone: "friendly"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var generated models.GenerateReplyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	assert.Equal(t, 1, generated.Attempts)
	assert.Contains(t, generated.Reply, "friendly reply")
	assert.False(t, generated.Sent)

	rec = do(t, srv, http.MethodGet, "/api/v1/threads/"+submitted.ThreadID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var thread models.Thread
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	require.Len(t, thread.Emails, 1)
	require.NotNil(t, thread.Emails[0].Reply)
	assert.Equal(t, generated.Reply, thread.Emails[0].Reply.ReplyText)

	rec = do(t, srv, http.MethodGet, "/api/v1/analytics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Summary.EmailsSubmitted)
	assert.Equal(t, 1, stats.Summary.RepliesGenerated)
}

func TestServer_RejectionsAndMisses(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/v1/email/submit", models.EmailSubmitRequest{
		Subject: "Lottery Winner",
		Body:    "You have won a lottery! Send money to claim.",
		Sender:  "scammer@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request rejected")

	rec = do(t, srv, http.MethodGet, "/api/v1/threads", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/v1/email/nonexistent/summary", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Summary not found")

	rec = do(t, srv, http.MethodPost, "/api/v1/email/nonexistent/generate-reply", models.GenerateReplyRequest{}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_UnsafeToneExhaustsAttempts(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/v1/email/submit", models.EmailSubmitRequest{
		Subject: "Order #1234",
		Body:    "Hi, where is my order?",
		Sender:  "customer@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var submitted models.EmailSubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	rec = do(t, srv, http.MethodPost, "/api/v1/email/"+submitted.EmailID+"/generate-reply",
		models.GenerateReplyRequest{Tone: "sexual"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var failure models.GenerateReplyFailure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	assert.Equal(t, 3, failure.Attempts)
	assert.Contains(t, failure.Error, "unsafe keyword 'sexual'")
	require.NotNil(t, failure.Reply)

	rec = do(t, srv, http.MethodGet, "/api/v1/threads/"+submitted.ThreadID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var thread models.Thread
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	require.Len(t, thread.Emails, 1)
	assert.Nil(t, thread.Emails[0].Reply)
}

func TestServer_ThreadRoutesRequireTokenWhenConfigured(t *testing.T) {
	srv := newTestServer(t, &config.Config{AdminUsername: "admin", AdminPassword: "secret"})

	rec := do(t, srv, http.MethodGet, "/api/v1/threads", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/v1/admin/login", models.AdminAuthRequest{Username: "admin", Password: "secret"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login models.AdminAuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = do(t, srv, http.MethodGet, "/api/v1/threads", nil, login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// submission stays public
	rec = do(t, srv, http.MethodPost, "/api/v1/email/submit", models.EmailSubmitRequest{
		Subject: "Hi", Body: "Quick question about invoices", Sender: "a@example.com",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ThreadListWithTrailingSlash(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodPost, "/api/v1/email/submit", models.EmailSubmitRequest{
		Subject: "Renewal", Body: "When does our contract renew?", Sender: "ops@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/api/v1/threads", "/api/v1/threads/"} {
		rec = do(t, srv, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var threads []models.Thread
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &threads))
		assert.Len(t, threads, 1, path)
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodGet, "/healthz/db", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mail Reply API")
}

func TestServer_SwaggerDocument(t *testing.T) {
	srv := newTestServer(t, &config.Config{})

	rec := do(t, srv, http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Mail Reply API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/v1/email/submit")
	assert.Contains(t, doc.Paths, "/api/v1/email/{id}/generate-reply")
}

// Package summary turns an email and its thread history into a structured
// summary using the language model.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailreply/internal/models"
	"mailreply/internal/openai"
	"mailreply/internal/utils"

	"github.com/rs/zerolog"
)

// ErrExtractionFailed is returned when the model gives no schema-conforming summary
var ErrExtractionFailed = errors.New("summary extraction failed")

const systemPrompt = "You are an expert email analyst. Analyze the following email and its thread context to produce a structured summary."

const formatInstructions = `Return a single JSON object with exactly these fields:
{
  "sender": {"email": string, "name": string|null, "previous_interactions": int},
  "thread_info": {"is_thread": bool, "thread_id": string|null, "email_count": int, "thread_summary": string|null},
  "content_analysis": {"main_topic": string, "questions": [string], "action_items": [string], "mentioned_entities": [string], "dates_deadlines": [string]},
  "classification": {"intent": string, "sub_intent": string|null, "confidence": number between 0 and 1},
  "sentiment": {"score": number, "label": string, "tone": string},
  "urgency": {"level": string, "reason": string, "suggested_response_time": string},
  "context_summary": string,
  "recommended_tone": string
}`

// Extractor builds summaries with a single model request per email
type Extractor struct {
	model  openai.Completer
	logger zerolog.Logger
}

// NewExtractor creates an extractor backed by model
func NewExtractor(model openai.Completer, logger zerolog.Logger) *Extractor {
	return &Extractor{
		model:  model,
		logger: logger.With().Str("component", "summary").Logger(),
	}
}

// FormatThreadHistory renders thread emails, oldest first, as the transcript sent to the model
func FormatThreadHistory(emails []models.Email) string {
	blocks := make([]string, 0, len(emails))
	for _, e := range emails {
		blocks = append(blocks, fmt.Sprintf("From: %s\nSubject: %s\nBody: %s", e.Sender, e.Subject, e.Body))
	}
	return strings.Join(blocks, "\n\n")
}

// Extract analyzes email in the context of threadHistory. The thread fields of
// the result always reflect threadMessageCount and email.ThreadID, whatever
// the model claimed.
func (x *Extractor) Extract(ctx context.Context, email models.Email, threadHistory string, threadMessageCount int) (*models.Summary, error) {
	timestamp := email.ReceivedAt.UTC().Format(time.RFC3339)

	user := fmt.Sprintf("Email ID: %s\nTimestamp: %s\nSender: %s\nSubject: %s\n\nThread Context:\n%s\n\nAnalyze this email and return the result in JSON format.\n%s",
		email.ID, timestamp, email.Sender, email.Subject, threadHistory, formatInstructions)

	raw, err := x.model.Complete(ctx, openai.Prompt{
		System:      systemPrompt,
		User:        user,
		JSON:        true,
		MaxTokens:   2048,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	summary, err := Decode(raw)
	if err != nil {
		x.logger.Warn().Err(err).Str("email_id", email.ID).Msg("Model returned a non-conforming summary")
		return nil, err
	}

	summary.EmailID = email.ID
	summary.Timestamp = timestamp
	summary.ThreadInfo.IsThread = threadMessageCount > 1
	summary.ThreadInfo.EmailCount = threadMessageCount
	summary.ThreadInfo.ThreadID = email.ThreadID

	lang := utils.DetectLanguage(email.Subject + "\n" + email.Body)
	summary.Language = models.DetectedLanguage{Code: lang.Code, Name: lang.Name}

	x.logger.Info().
		Str("email_id", email.ID).
		Str("thread_id", email.ThreadID).
		Int("email_count", threadMessageCount).
		Str("intent", summary.Classification.Intent).
		Str("urgency", summary.Urgency.Level).
		Msg("Summary extracted")

	return summary, nil
}

package models

import "time"

// AnalyticsEvent represents a tracked pipeline event
type AnalyticsEvent struct {
	ID        int       `db:"id" json:"id"`
	EventType string    `db:"event_type" json:"event_type"`
	Count     int       `db:"count" json:"count"`
	Metadata  *string   `db:"metadata" json:"metadata,omitempty"` // JSON metadata (attempts, model, reason, ...)
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AnalyticsSummary represents aggregated pipeline counters for a time period
type AnalyticsSummary struct {
	Period            string    `json:"period"`             // "today", "yesterday", "last_7_days", "last_30_days"
	EmailsSubmitted   int       `json:"emails_submitted"`   // Emails accepted by the inbound gate
	ContentRejected   int       `json:"content_rejected"`   // Emails refused by the inbound gate
	SummariesCreated  int       `json:"summaries_created"`  // Successful extractions
	ExtractionsFailed int       `json:"extractions_failed"` // Extractions without a schema-conforming result
	RepliesGenerated  int       `json:"replies_generated"`  // Replies that passed validation
	RepliesExhausted  int       `json:"replies_exhausted"`  // Workflow runs that used every attempt
	ReplyAttempts     int       `json:"reply_attempts"`     // Generation attempts across all runs
	RepliesSent       int       `json:"replies_sent"`       // Replies delivered via SendGrid
	TotalEmails       int       `json:"total_emails"`       // Emails stored in the period
	TotalThreads      int       `json:"total_threads"`      // Threads in the store
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}

// AnalyticsResponse represents the API response for analytics
// @Description Analytics response payload
type AnalyticsResponse struct {
	Success bool              `json:"success" example:"true"`
	Summary *AnalyticsSummary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty" example:""`
}

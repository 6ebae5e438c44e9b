package models

import "time"

// Thread represents a conversation thread
type Thread struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Emails    []Email   `db:"-" json:"emails"`
}

// Email represents an inbound email message. Emails are never updated after insert.
type Email struct {
	ID         string    `db:"id" json:"id"`
	ThreadID   string    `db:"thread_id" json:"thread_id"`
	Sender     string    `db:"sender" json:"sender"`
	Subject    string    `db:"subject" json:"subject"`
	Body       string    `db:"body" json:"body"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
	Reply      *Reply    `db:"-" json:"reply,omitempty"`
}

// Reply is the stored reply for an email, at most one per email
type Reply struct {
	EmailID   string    `db:"email_id" json:"email_id"`
	ReplyText string    `db:"reply_text" json:"reply_text"`
	Tone      string    `db:"tone" json:"tone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SenderInfo describes the author of an email
type SenderInfo struct {
	Email                string  `json:"email"`
	Name                 *string `json:"name"`
	PreviousInteractions int     `json:"previous_interactions"`
}

// ThreadInfo describes the thread an email belongs to. IsThread, ThreadID and
// EmailCount always come from the store, never from the model.
type ThreadInfo struct {
	IsThread      bool    `json:"is_thread"`
	ThreadID      string  `json:"thread_id"`
	EmailCount    int     `json:"email_count"`
	ThreadSummary *string `json:"thread_summary"`
}

// ContentAnalysis holds what the email is about
type ContentAnalysis struct {
	MainTopic         string   `json:"main_topic"`
	Questions         []string `json:"questions"`
	ActionItems       []string `json:"action_items"`
	MentionedEntities []string `json:"mentioned_entities"`
	DatesDeadlines    []string `json:"dates_deadlines"`
}

// Classification is the intent of the email
type Classification struct {
	Intent     string  `json:"intent"`
	SubIntent  *string `json:"sub_intent"`
	Confidence float64 `json:"confidence"`
}

// Sentiment of the email
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
	Tone  string  `json:"tone"`
}

// Urgency of the email
type Urgency struct {
	Level                 string `json:"level"`
	Reason                string `json:"reason"`
	SuggestedResponseTime string `json:"suggested_response_time"`
}

// DetectedLanguage is the script-based language guess for the email body
type DetectedLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Summary is the structured analysis of one email in the context of its thread
type Summary struct {
	EmailID         string           `json:"email_id"`
	Timestamp       string           `json:"timestamp"`
	Sender          SenderInfo       `json:"sender"`
	ThreadInfo      ThreadInfo       `json:"thread_info"`
	ContentAnalysis ContentAnalysis  `json:"content_analysis"`
	Classification  Classification   `json:"classification"`
	Sentiment       Sentiment        `json:"sentiment"`
	Urgency         Urgency          `json:"urgency"`
	ContextSummary  string           `json:"context_summary"`
	RecommendedTone string           `json:"recommended_tone"`
	Language        DetectedLanguage `json:"language"`
}

// ThreadSummaryText returns the thread summary or an empty string
func (s *Summary) ThreadSummaryText() string {
	if s.ThreadInfo.ThreadSummary == nil {
		return ""
	}
	return *s.ThreadInfo.ThreadSummary
}

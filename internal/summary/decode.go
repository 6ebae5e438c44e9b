package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"mailreply/internal/models"

	"github.com/kaptinlin/jsonrepair"
)

// wire shapes of the model output; pointers mark required fields
type rawSummary struct {
	Sender          *rawSender          `json:"sender"`
	ThreadInfo      *rawThreadInfo      `json:"thread_info"`
	ContentAnalysis *rawContentAnalysis `json:"content_analysis"`
	Classification  *rawClassification  `json:"classification"`
	Sentiment       *rawSentiment       `json:"sentiment"`
	Urgency         *rawUrgency         `json:"urgency"`
	ContextSummary  *string             `json:"context_summary"`
	RecommendedTone *string             `json:"recommended_tone"`
}

type rawSender struct {
	Email                *string `json:"email"`
	Name                 *string `json:"name"`
	PreviousInteractions int     `json:"previous_interactions"`
}

type rawThreadInfo struct {
	ThreadSummary *string `json:"thread_summary"`
}

type rawContentAnalysis struct {
	MainTopic         *string  `json:"main_topic"`
	Questions         []string `json:"questions"`
	ActionItems       []string `json:"action_items"`
	MentionedEntities []string `json:"mentioned_entities"`
	DatesDeadlines    []string `json:"dates_deadlines"`
}

type rawClassification struct {
	Intent     *string  `json:"intent"`
	SubIntent  *string  `json:"sub_intent"`
	Confidence *float64 `json:"confidence"`
}

type rawSentiment struct {
	Score *float64 `json:"score"`
	Label *string  `json:"label"`
	Tone  *string  `json:"tone"`
}

type rawUrgency struct {
	Level                 *string `json:"level"`
	Reason                *string `json:"reason"`
	SuggestedResponseTime *string `json:"suggested_response_time"`
}

// Decode parses model output into a summary. Syntax slips such as code fences,
// trailing commas or a missing closing brace are repaired; a missing required
// field is not, and yields ErrExtractionFailed.
func Decode(raw string) (*models.Summary, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrExtractionFailed)
	}

	var r rawSummary
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %w", ErrExtractionFailed, err)
		}
		r = rawSummary{}
		if err := json.Unmarshal([]byte(repaired), &r); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON after repair: %w", ErrExtractionFailed, err)
		}
	}

	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}

	need(r.Sender != nil && r.Sender.Email != nil, "sender.email")
	need(r.ThreadInfo != nil, "thread_info")
	need(r.ContentAnalysis != nil && r.ContentAnalysis.MainTopic != nil, "content_analysis.main_topic")
	need(r.Classification != nil && r.Classification.Intent != nil, "classification.intent")
	need(r.Classification != nil && r.Classification.Confidence != nil, "classification.confidence")
	need(r.Sentiment != nil && r.Sentiment.Score != nil, "sentiment.score")
	need(r.Sentiment != nil && r.Sentiment.Label != nil, "sentiment.label")
	need(r.Sentiment != nil && r.Sentiment.Tone != nil, "sentiment.tone")
	need(r.Urgency != nil && r.Urgency.Level != nil, "urgency.level")
	need(r.Urgency != nil && r.Urgency.Reason != nil, "urgency.reason")
	need(r.Urgency != nil && r.Urgency.SuggestedResponseTime != nil, "urgency.suggested_response_time")
	need(r.ContextSummary != nil, "context_summary")
	need(r.RecommendedTone != nil, "recommended_tone")

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrExtractionFailed, strings.Join(missing, ", "))
	}

	confidence := *r.Classification.Confidence
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: classification.confidence %v outside [0,1]", ErrExtractionFailed, confidence)
	}

	return &models.Summary{
		Sender: models.SenderInfo{
			Email:                *r.Sender.Email,
			Name:                 r.Sender.Name,
			PreviousInteractions: r.Sender.PreviousInteractions,
		},
		ThreadInfo: models.ThreadInfo{
			ThreadSummary: r.ThreadInfo.ThreadSummary,
		},
		ContentAnalysis: models.ContentAnalysis{
			MainTopic:         *r.ContentAnalysis.MainTopic,
			Questions:         orEmpty(r.ContentAnalysis.Questions),
			ActionItems:       orEmpty(r.ContentAnalysis.ActionItems),
			MentionedEntities: orEmpty(r.ContentAnalysis.MentionedEntities),
			DatesDeadlines:    orEmpty(r.ContentAnalysis.DatesDeadlines),
		},
		Classification: models.Classification{
			Intent:     *r.Classification.Intent,
			SubIntent:  r.Classification.SubIntent,
			Confidence: confidence,
		},
		Sentiment: models.Sentiment{
			Score: *r.Sentiment.Score,
			Label: *r.Sentiment.Label,
			Tone:  *r.Sentiment.Tone,
		},
		Urgency: models.Urgency{
			Level:                 *r.Urgency.Level,
			Reason:                *r.Urgency.Reason,
			SuggestedResponseTime: *r.Urgency.SuggestedResponseTime,
		},
		ContextSummary:  *r.ContextSummary,
		RecommendedTone: *r.RecommendedTone,
	}, nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:] // drop the language tag line
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

package reply

import (
	"context"
	"fmt"
	"strings"

	"mailreply/internal/openai"
)

const draftSystemPrompt = "You are a professional email assistant. Reply with the body of the email only."

// ModelDrafter drafts replies with the language model
type ModelDrafter struct {
	model openai.Completer
}

// NewModelDrafter creates a drafter backed by model
func NewModelDrafter(model openai.Completer) *ModelDrafter {
	return &ModelDrafter{model: model}
}

// Draft asks the model for one reply. Every attempt sends the same prompt.
func (d *ModelDrafter) Draft(ctx context.Context, s State) (string, error) {
	text, err := d.model.Complete(ctx, openai.Prompt{
		System:      draftSystemPrompt,
		User:        BuildPrompt(s),
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders the generation prompt for a state
func BuildPrompt(s State) string {
	sum := s.Summary

	var b strings.Builder
	b.WriteString("CONTEXT:\n")
	fmt.Fprintf(&b, "- Intent: %s\n", sum.Classification.Intent)
	fmt.Fprintf(&b, "- Sentiment: %s\n", sum.Sentiment.Label)
	fmt.Fprintf(&b, "- Urgency: %s\n", sum.Urgency.Level)
	fmt.Fprintf(&b, "- Thread Summary: %s\n", sum.ThreadSummaryText())

	b.WriteString("\nCUSTOMER EMAIL SUMMARY:\n")
	fmt.Fprintf(&b, "Main Topic: %s\n", sum.ContentAnalysis.MainTopic)
	fmt.Fprintf(&b, "Questions:\n%s\n", strings.Join(sum.ContentAnalysis.Questions, "\n"))
	fmt.Fprintf(&b, "Action Items:\n%s\n", strings.Join(sum.ContentAnalysis.ActionItems, "\n"))

	b.WriteString("\nINSTRUCTIONS:\n")
	fmt.Fprintf(&b, "- Write a %s email reply.\n", s.Tone)
	b.WriteString("- Address all questions.\n")
	b.WriteString("- Be specific and helpful.\n")
	if sum.Language.Name != "" && sum.Language.Code != "en" {
		fmt.Fprintf(&b, "- Reply in %s.\n", sum.Language.Name)
	}
	if s.Instructions != "" {
		fmt.Fprintf(&b, "- ADDITIONAL USER INSTRUCTIONS: %s\n", s.Instructions)
	}

	return b.String()
}

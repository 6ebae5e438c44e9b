package reply

import (
	"strings"
	"unicode/utf8"

	"mailreply/internal/safety"

	"golang.org/x/text/cases"
)

// MinReplyLength is the shortest draft, in characters, that can pass validation
const MinReplyLength = 10

const (
	ReasonTooShort = "Reply too short"
	ReasonRefused  = "Safety violation: Reply refused or inappropriate content detected."
)

// RefusalPhrases are typical model refusals. Only "cannot comply" fails a draft;
// the rest are reported on the verdict.
var RefusalPhrases = []string{
	"I cannot comply",
	"I can't comply",
	"I cannot fulfill",
	"I'm sorry",
	"I am sorry",
	"I'm unable to",
	"I am unable to",
	"cannot write",
	"cannot generate",
	"inappropriate",
	"offensive",
	"harmful",
}

const blockingRefusal = "cannot comply"

var (
	fold                  = cases.Fold()
	foldedRefusalPhrases  = foldAll(RefusalPhrases)
	foldedBlockingRefusal = fold.String(blockingRefusal)
)

func foldAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = fold.String(p)
	}
	return out
}

// Verdict is the outcome of validating one draft
type Verdict struct {
	Passed         bool
	Reason         string
	RefusalPhrases []string
}

// Validate applies the length, safety and refusal rules to a draft in that
// order. The first failing rule decides the reason.
func Validate(draft string) Verdict {
	if utf8.RuneCountInString(draft) < MinReplyLength {
		return Verdict{Reason: ReasonTooShort}
	}

	if safe, reason := safety.CheckSafety(draft); !safe {
		return Verdict{Reason: "Safety violation: " + reason}
	}

	content := fold.String(draft)
	var matched []string
	for i, phrase := range foldedRefusalPhrases {
		if strings.Contains(content, phrase) {
			matched = append(matched, RefusalPhrases[i])
		}
	}
	if strings.Contains(content, foldedBlockingRefusal) {
		return Verdict{Reason: ReasonRefused, RefusalPhrases: matched}
	}

	return Verdict{Passed: true, RefusalPhrases: matched}
}

// Package safety implements the keyword-based content filter used both as the
// inbound gate for submitted email and as one of the reply validation rules.
package safety

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// UnsafeTerms is the curated, ordered list of phrases that make content unsafe.
// The list is narrow on purpose so that ordinary business mail passes; longer
// phrases come before any shorter phrase they contain.
var UnsafeTerms = []string{
	// explicit sexual content
	"child porn",
	"porn",
	"sexual",
	"nude",

	// self-harm and violence
	"kill yourself",
	"commit suicide",
	"i will kill",
	"death to all",
	"death to the",

	// hate and extremist slogans
	"heil hitler",
	"white power",
	"racial slur",

	// scams and fraud
	"lottery winner",
	"won a lottery",
	"you have won a prize",
	"you have won the lottery",
	"claim your prize",
	"nigerian prince",
	"wire the processing fee",

	// phishing
	"verify your password",
	"confirm your bank details",
	"send your login credentials",

	// malware delivery
	"ransomware",
	"keylogger",
	"enable macros to view",

	// extortion
	"pay in bitcoin or",
	"we will leak your",

	// piracy distribution
	"cracked software",
	"pirated copies",
	"warez",
}

// ErrContentRejected is matched by every ContentRejectedError
var ErrContentRejected = errors.New("content rejected")

// ContentRejectedError reports the first unsafe term found in rejected content
type ContentRejectedError struct {
	Term   string
	Reason string
}

func (e *ContentRejectedError) Error() string {
	return "Request rejected: " + e.Reason
}

// Is makes errors.Is(err, ErrContentRejected) hold for any rejection
func (e *ContentRejectedError) Is(target error) bool {
	return target == ErrContentRejected
}

var (
	folder      = cases.Fold()
	foldedTerms = foldTerms(UnsafeTerms)
)

func foldTerms(terms []string) []string {
	folded := make([]string, len(terms))
	for i, term := range terms {
		folded[i] = folder.String(term)
	}
	return folded
}

// CheckSafety checks text for unsafe content and returns (isSafe, reason).
// The first term of UnsafeTerms found in text decides the reason.
func CheckSafety(text string) (bool, string) {
	term, found := FirstUnsafeTerm(text)
	if !found {
		return true, ""
	}
	return false, fmt.Sprintf("Content contains unsafe keyword '%s'", term)
}

// FirstUnsafeTerm returns the first unsafe term contained in text, compared case-insensitively
func FirstUnsafeTerm(text string) (string, bool) {
	content := folder.String(text)
	for i, term := range foldedTerms {
		if strings.Contains(content, term) {
			return UnsafeTerms[i], true
		}
	}
	return "", false
}

// ValidateContent is the inbound gate for a submitted email. It returns a
// *ContentRejectedError when subject or body contains an unsafe term.
func ValidateContent(subject, body string) error {
	term, found := FirstUnsafeTerm(subject + " " + body)
	if !found {
		return nil
	}
	return &ContentRejectedError{
		Term:   term,
		Reason: fmt.Sprintf("Content contains unsafe keyword '%s'", term),
	}
}

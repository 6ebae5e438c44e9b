package mail

import (
	"errors"
	"fmt"
)

var (
	// ErrSummaryNotFound is returned for an email without a stored summary
	ErrSummaryNotFound = errors.New("summary not found")
	// ErrEmailNotFound is returned for an unknown email id
	ErrEmailNotFound = errors.New("email not found")
	// ErrThreadNotFound is returned for an unknown thread id
	ErrThreadNotFound = errors.New("thread not found")
	// ErrGenerationExhausted is matched by every GenerationExhaustedError
	ErrGenerationExhausted = errors.New("reply generation exhausted")
	// ErrInvalidEmail is returned for a submission without sender or body
	ErrInvalidEmail = errors.New("invalid email")
)

// GenerationExhaustedError reports a reply workflow that used every attempt
// without producing a draft that passed validation
type GenerationExhaustedError struct {
	Reason    string
	LastDraft *string
	Attempts  int
}

func (e *GenerationExhaustedError) Error() string {
	return fmt.Sprintf("Reply generation failed: %s", e.Reason)
}

func (e *GenerationExhaustedError) Is(target error) bool {
	return target == ErrGenerationExhausted
}

// Package reply generates reply drafts from an email summary and validates
// them through a bounded generate/validate/retry state machine.
package reply

import (
	"context"
	"errors"
	"fmt"

	"mailreply/internal/models"

	"github.com/rs/zerolog"
)

// MaxAttempts bounds the number of drafts generated for one request
const MaxAttempts = 3

// DefaultTone is used when the caller does not name a tone
const DefaultTone = "professional"

// ErrInvalidTransition is returned for an event the current phase does not accept
var ErrInvalidTransition = errors.New("invalid workflow transition")

// Phase of the reply workflow
type Phase string

const (
	PhaseGenerating Phase = "generating"
	PhaseValidating Phase = "validating"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further event is accepted
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Event drives the workflow from one phase to the next
type Event interface {
	isEvent()
}

// Drafted is emitted after the model produced a draft
type Drafted struct {
	Draft string
}

// Validated is emitted after a draft went through Validate
type Validated struct {
	Verdict Verdict
}

func (Drafted) isEvent()   {}
func (Validated) isEvent() {}

// State is the per-request workflow state. It lives for one generation
// request and is never persisted.
type State struct {
	Summary       *models.Summary
	Tone          string
	Instructions  string
	Reply         *string
	QualityPassed bool
	RetryCount    int
	LastError     string
	Phase         Phase
}

// NewState returns the initial state for a request
func NewState(summary *models.Summary, tone, instructions string) State {
	if tone == "" {
		tone = DefaultTone
	}
	return State{
		Summary:      summary,
		Tone:         tone,
		Instructions: instructions,
		Phase:        PhaseGenerating,
	}
}

// Transition is the pure transition function of the workflow
func Transition(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case Drafted:
		if s.Phase != PhaseGenerating {
			break
		}
		draft := e.Draft
		s.Reply = &draft
		s.RetryCount++
		s.QualityPassed = false
		s.Phase = PhaseValidating
		return s, nil

	case Validated:
		if s.Phase != PhaseValidating {
			break
		}
		if e.Verdict.Passed {
			s.QualityPassed = true
			s.LastError = ""
			s.Phase = PhaseSucceeded
			return s, nil
		}
		s.QualityPassed = false
		s.LastError = e.Verdict.Reason
		if s.RetryCount >= MaxAttempts {
			s.Phase = PhaseFailed
		} else {
			s.Phase = PhaseGenerating
		}
		return s, nil
	}

	return s, fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, ev, s.Phase)
}

// Drafter produces one reply draft for the request held in the state
type Drafter interface {
	Draft(ctx context.Context, s State) (string, error)
}

// Input of a workflow run
type Input struct {
	Summary      *models.Summary
	Tone         string
	Instructions string
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the terminal outcome of a run. On error Reply holds the last
// rejected draft and Error its failure reason.
type Result struct {
	Status   string
	Reply    *string
	Error    string
	Attempts int
}

// Succeeded reports whether the run produced a validated reply
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Workflow drives the state machine, one model call at a time
type Workflow struct {
	drafter  Drafter
	validate func(string) Verdict
	logger   zerolog.Logger
}

// NewWorkflow creates a workflow that drafts with d
func NewWorkflow(d Drafter, logger zerolog.Logger) *Workflow {
	return &Workflow{
		drafter:  d,
		validate: Validate,
		logger:   logger.With().Str("component", "reply_workflow").Logger(),
	}
}

// Run generates and validates drafts until one passes or MaxAttempts drafts
// have failed. The returned error is reserved for model failures and
// cancellation; exhausting the attempts is reported through the Result.
func (w *Workflow) Run(ctx context.Context, in Input) (*Result, error) {
	if in.Summary == nil {
		return nil, errors.New("reply workflow: summary is required")
	}

	s := NewState(in.Summary, in.Tone, in.Instructions)

	for !s.Phase.Terminal() {
		var ev Event

		switch s.Phase {
		case PhaseGenerating:
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("reply generation cancelled after %d attempts: %w", s.RetryCount, err)
			}
			draft, err := w.drafter.Draft(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("reply generation attempt %d: %w", s.RetryCount+1, err)
			}
			ev = Drafted{Draft: draft}

		case PhaseValidating:
			verdict := w.validate(*s.Reply)
			w.logger.Info().
				Str("email_id", s.Summary.EmailID).
				Int("attempt", s.RetryCount).
				Bool("passed", verdict.Passed).
				Str("reason", verdict.Reason).
				Strs("refusal_phrases", verdict.RefusalPhrases).
				Msg("Reply draft validated")
			ev = Validated{Verdict: verdict}
		}

		next, err := Transition(s, ev)
		if err != nil {
			return nil, err
		}
		s = next
	}

	if s.Phase == PhaseSucceeded {
		return &Result{Status: StatusSuccess, Reply: s.Reply, Attempts: s.RetryCount}, nil
	}

	w.logger.Warn().
		Str("email_id", s.Summary.EmailID).
		Int("attempts", s.RetryCount).
		Str("reason", s.LastError).
		Msg("Reply generation exhausted")

	return &Result{Status: StatusError, Reply: s.Reply, Error: s.LastError, Attempts: s.RetryCount}, nil
}

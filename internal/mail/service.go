// Package mail runs the request-scoped pipeline: the inbound safety gate,
// storage, summary extraction and reply generation.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailreply/internal/analytics"
	"mailreply/internal/cache"
	"mailreply/internal/database"
	"mailreply/internal/models"
	"mailreply/internal/reply"
	"mailreply/internal/safety"
	"mailreply/internal/summary"

	"github.com/rs/zerolog"
)

// Store is the persistence the pipeline needs
type Store interface {
	FindOrCreateThread(ctx context.Context, id string) (*models.Thread, error)
	AppendEmail(ctx context.Context, threadID, sender, subject, body string) (*models.Email, error)
	ListEmailsInThread(ctx context.Context, threadID string) ([]models.Email, error)
	GetEmail(ctx context.Context, id string) (*models.Email, error)
	SaveSummary(ctx context.Context, emailID string, summary *models.Summary) error
	GetSummary(ctx context.Context, emailID string) (*models.Summary, error)
	SaveOrReplaceReply(ctx context.Context, emailID, text, tone string) (*models.Reply, error)
	ListThreads(ctx context.Context, limit, offset int) ([]models.Thread, error)
	GetThread(ctx context.Context, id string) (*models.Thread, error)
}

// Extractor produces a summary for a stored email
type Extractor interface {
	Extract(ctx context.Context, email models.Email, threadHistory string, threadMessageCount int) (*models.Summary, error)
}

// Generator runs the reply workflow
type Generator interface {
	Run(ctx context.Context, in reply.Input) (*reply.Result, error)
}

// Mailer sends an approved reply
type Mailer interface {
	SendReply(ctx context.Context, to, subject, body string) error
}

// SubmitRequest is an inbound email
type SubmitRequest struct {
	Sender   string
	Subject  string
	Body     string
	ThreadID string
}

// SubmitResult is the outcome of a successful submission
type SubmitResult struct {
	EmailID  string
	ThreadID string
	Summary  *models.Summary
}

// GenerateRequest asks for a reply to a stored email
type GenerateRequest struct {
	Tone         string
	Instructions string
	AutoSend     bool
}

// GenerateResult is a validated, stored reply
type GenerateResult struct {
	EmailID   string
	ThreadID  string
	Reply     string
	Tone      string
	Attempts  int
	Sent      bool
	SendError string
}

// Options tune the service
type Options struct {
	GenerationTimeout time.Duration
	SummaryCacheTTL   time.Duration
}

// Service wires the pipeline together
type Service struct {
	store     Store
	extractor Extractor
	generator Generator
	mailer    Mailer
	analytics *analytics.Service
	summaries *cache.Cache[*models.Summary]
	locks     *keyedMutex
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewService creates the pipeline. mailer and tracker may be nil.
func NewService(store Store, extractor Extractor, generator Generator, mailer Mailer, tracker *analytics.Service, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		generator: generator,
		mailer:    mailer,
		analytics: tracker,
		summaries: cache.New[*models.Summary](opts.SummaryCacheTTL),
		locks:     newKeyedMutex(),
		timeout:   opts.GenerationTimeout,
		logger:    logger.With().Str("component", "mail").Logger(),
	}
}

// Submit gates, stores and summarizes an inbound email. Rejected content is
// never written.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := safety.ValidateContent(req.Subject, req.Body); err != nil {
		s.logger.Warn().Err(err).Msg("Inbound email rejected")
		s.analytics.Track(ctx, analytics.EventContentRejected, 1, nil)
		return nil, err
	}
	if strings.TrimSpace(req.Sender) == "" {
		return nil, fmt.Errorf("%w: sender is required", ErrInvalidEmail)
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidEmail)
	}

	thread, err := s.store.FindOrCreateThread(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}

	email, err := s.store.AppendEmail(ctx, thread.ID, req.Sender, req.Subject, req.Body)
	if err != nil {
		return nil, err
	}
	s.analytics.Track(ctx, analytics.EventEmailSubmitted, 1, nil)

	history, err := s.store.ListEmailsInThread(ctx, thread.ID)
	if err != nil {
		return nil, err
	}

	sum, err := s.extractor.Extract(ctx, *email, summary.FormatThreadHistory(history), len(history))
	if err != nil {
		s.analytics.Track(ctx, analytics.EventExtractionFailed, 1, nil)
		return nil, err
	}

	if err := s.store.SaveSummary(ctx, email.ID, sum); err != nil {
		return nil, err
	}
	s.summaries.Set(email.ID, sum)
	s.analytics.Track(ctx, analytics.EventSummaryCreated, 1, map[string]interface{}{
		"intent":  sum.Classification.Intent,
		"urgency": sum.Urgency.Level,
	})

	s.logger.Info().
		Str("email_id", email.ID).
		Str("thread_id", thread.ID).
		Int("email_count", len(history)).
		Msg("Email processed")

	return &SubmitResult{EmailID: email.ID, ThreadID: thread.ID, Summary: sum}, nil
}

// GetSummary returns the stored summary of an email
func (s *Service) GetSummary(ctx context.Context, emailID string) (*models.Summary, error) {
	if sum, ok := s.summaries.Get(emailID); ok {
		return sum, nil
	}

	sum, err := s.store.GetSummary(ctx, emailID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, err
	}

	s.summaries.Set(emailID, sum)
	return sum, nil
}

// GenerateReply runs the reply workflow for a stored email and stores the
// reply when it passes validation. Requests for the same email run one at a time.
func (s *Service) GenerateReply(ctx context.Context, emailID string, req GenerateRequest) (*GenerateResult, error) {
	unlock := s.locks.Lock(emailID)
	defer unlock()

	sum, err := s.GetSummary(ctx, emailID)
	if err != nil {
		return nil, err
	}

	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = reply.DefaultTone
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.generator.Run(runCtx, reply.Input{Summary: sum, Tone: tone, Instructions: req.Instructions})
	if err != nil {
		return nil, fmt.Errorf("reply generation: %w", err)
	}
	s.analytics.TrackReplyOutcome(ctx, result.Succeeded(), result.Attempts, tone)

	if !result.Succeeded() {
		return nil, &GenerationExhaustedError{
			Reason:    result.Error,
			LastDraft: result.Reply,
			Attempts:  result.Attempts,
		}
	}

	text := *result.Reply
	if _, err := s.store.SaveOrReplaceReply(ctx, emailID, text, tone); err != nil {
		return nil, err
	}

	out := &GenerateResult{
		EmailID:  emailID,
		ThreadID: sum.ThreadInfo.ThreadID,
		Reply:    text,
		Tone:     tone,
		Attempts: result.Attempts,
	}

	if req.AutoSend {
		if err := s.send(ctx, emailID, text); err != nil {
			s.logger.Warn().Err(err).Str("email_id", emailID).Msg("Reply not sent")
			out.SendError = err.Error()
		} else {
			out.Sent = true
		}
	}

	s.logger.Info().
		Str("email_id", emailID).
		Str("tone", tone).
		Int("attempts", result.Attempts).
		Bool("sent", out.Sent).
		Msg("Reply generated")

	return out, nil
}

func (s *Service) send(ctx context.Context, emailID, text string) error {
	if s.mailer == nil {
		return errors.New("reply sending is not configured")
	}

	original, err := s.store.GetEmail(ctx, emailID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrEmailNotFound
	}
	if err != nil {
		return err
	}

	if err := s.mailer.SendReply(ctx, original.Sender, original.Subject, text); err != nil {
		return err
	}
	s.analytics.TrackReplySent(ctx, original.Sender)
	return nil
}

// ListThreads returns a page of threads with their emails and replies
func (s *Service) ListThreads(ctx context.Context, limit, offset int) ([]models.Thread, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListThreads(ctx, limit, offset)
}

// GetThread returns one thread with its emails and replies
func (s *Service) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	thread, err := s.store.GetThread(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrThreadNotFound
	}
	return thread, err
}

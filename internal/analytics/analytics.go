package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mailreply/internal/database"
	"mailreply/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// EventType constants for the pipeline events
const (
	EventEmailSubmitted   = "email_submitted"
	EventContentRejected  = "content_rejected"
	EventSummaryCreated   = "summary_created"
	EventExtractionFailed = "extraction_failed"
	EventReplyGenerated   = "reply_generated"
	EventReplyExhausted   = "reply_exhausted"
	EventReplyAttempts    = "reply_attempts"
	EventReplySent        = "reply_sent"
)

// Period constants for analytics queries
const (
	PeriodToday      = "today"
	PeriodYesterday  = "yesterday"
	PeriodLast7Days  = "last_7_days"
	PeriodLast30Days = "last_30_days"
)

// Service handles analytics tracking and retrieval
type Service struct {
	db     *sqlx.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService(ctx context.Context, db *sqlx.DB, logger zerolog.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required for analytics service")
	}

	service := &Service{
		db:     db,
		logger: logger.With().Str("component", "analytics").Logger(),
		now:    time.Now,
	}

	if err := service.createTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create analytics tables: %w", err)
	}

	return service, nil
}

func (s *Service) createTables(ctx context.Context) error {
	table := `CREATE TABLE IF NOT EXISTS analytics_events (
		id VARCHAR(36) PRIMARY KEY,
		event_type VARCHAR(50) NOT NULL,
		count INT NOT NULL DEFAULT 1,
		metadata TEXT,
		created_at ` + database.TimestampType(s.db.DriverName()) + ` NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return err
	}

	// Ignore index errors (MySQL lacks IF NOT EXISTS)
	index := `CREATE INDEX IF NOT EXISTS idx_analytics_type_created ON analytics_events(event_type, created_at)`
	if _, err := s.db.ExecContext(ctx, index); err != nil {
		s.logger.Debug().Err(err).Msg("Analytics index not created")
	}
	return nil
}

// TrackEvent records an analytics event
func (s *Service) TrackEvent(ctx context.Context, eventType string, count int, metadata map[string]interface{}) error {
	var metadataJSON *string
	if metadata != nil {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			str := string(jsonBytes)
			metadataJSON = &str
		}
	}

	query := s.db.Rebind(`INSERT INTO analytics_events (id, event_type, count, metadata, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, uuid.NewString(), eventType, count, metadataJSON, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to track event: %w", err)
	}
	return nil
}

// Track records an event and only logs a failure. Safe on a nil Service.
func (s *Service) Track(ctx context.Context, eventType string, count int, metadata map[string]interface{}) {
	if s == nil {
		return
	}
	if err := s.TrackEvent(ctx, eventType, count, metadata); err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Msg("Analytics event dropped")
	}
}

// TrackReplyOutcome records the result of one reply workflow run
func (s *Service) TrackReplyOutcome(ctx context.Context, success bool, attempts int, tone string) {
	event := EventReplyGenerated
	if !success {
		event = EventReplyExhausted
	}
	s.Track(ctx, event, 1, map[string]interface{}{"attempts": attempts, "tone": tone})
	s.Track(ctx, EventReplyAttempts, attempts, nil)
}

// TrackReplySent records a reply delivered via SendGrid
func (s *Service) TrackReplySent(ctx context.Context, recipient string) {
	s.Track(ctx, EventReplySent, 1, map[string]interface{}{"recipient_hash": hashEmail(recipient)})
}

// PeriodRange returns the [start, end] range of a period name. Unknown names
// fall back to today.
func PeriodRange(period string, now time.Time) (string, time.Time, time.Time) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodYesterday:
		return period, midnight.AddDate(0, 0, -1), midnight
	case PeriodLast7Days:
		return period, now.AddDate(0, 0, -7), now
	case PeriodLast30Days:
		return period, now.AddDate(0, 0, -30), now
	default:
		return PeriodToday, midnight, now
	}
}

// GetSummary retrieves pipeline counters for a time period
func (s *Service) GetSummary(ctx context.Context, period string) (*models.AnalyticsSummary, error) {
	period, startDate, endDate := PeriodRange(period, s.now())

	summary := &models.AnalyticsSummary{
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
	}

	var totals []struct {
		EventType string `db:"event_type"`
		Total     int    `db:"total"`
	}
	query := s.db.Rebind(`
		SELECT event_type, COALESCE(SUM(count), 0) AS total
		FROM analytics_events
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY event_type
	`)
	if err := s.db.SelectContext(ctx, &totals, query, startDate, endDate); err != nil {
		return nil, fmt.Errorf("failed to get analytics summary: %w", err)
	}

	for _, row := range totals {
		switch row.EventType {
		case EventEmailSubmitted:
			summary.EmailsSubmitted = row.Total
		case EventContentRejected:
			summary.ContentRejected = row.Total
		case EventSummaryCreated:
			summary.SummariesCreated = row.Total
		case EventExtractionFailed:
			summary.ExtractionsFailed = row.Total
		case EventReplyGenerated:
			summary.RepliesGenerated = row.Total
		case EventReplyExhausted:
			summary.RepliesExhausted = row.Total
		case EventReplyAttempts:
			summary.ReplyAttempts = row.Total
		case EventReplySent:
			summary.RepliesSent = row.Total
		}
	}

	// Counts from the store tables
	emailQuery := s.db.Rebind(`SELECT COUNT(*) FROM emails WHERE received_at >= ? AND received_at <= ?`)
	if err := s.db.GetContext(ctx, &summary.TotalEmails, emailQuery, startDate, endDate); err != nil {
		s.logger.Debug().Err(err).Msg("Email count unavailable")
	}
	if err := s.db.GetContext(ctx, &summary.TotalThreads, `SELECT COUNT(*) FROM threads`); err != nil {
		s.logger.Debug().Err(err).Msg("Thread count unavailable")
	}

	return summary, nil
}

// hashEmail masks an address for event metadata
func hashEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	return email[:2] + "***" + email[len(email)-3:]
}

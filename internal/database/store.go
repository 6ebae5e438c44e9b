package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"mailreply/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a thread, email, summary or reply does not exist
var ErrNotFound = errors.New("not found")

// Store persists threads, emails, summaries and replies
type Store struct {
	db     *sqlx.DB
	logger zerolog.Logger

	clockMu sync.Mutex
	last    time.Time
	now     func() time.Time
}

// NewStore creates a store on db
func NewStore(db *sqlx.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
		now:    time.Now,
	}
}

// DB returns the underlying connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// CreateTables creates the store tables if they don't exist
func (s *Store) CreateTables(ctx context.Context) error {
	ts := TimestampType(s.db.DriverName())
	queries := []string{
		`CREATE TABLE IF NOT EXISTS threads (
			id VARCHAR(64) PRIMARY KEY,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS emails (
			id VARCHAR(64) PRIMARY KEY,
			thread_id VARCHAR(64) NOT NULL,
			sender VARCHAR(320) NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			received_at ` + ts + ` NOT NULL,
			FOREIGN KEY (thread_id) REFERENCES threads(id)
		)`,
		`CREATE TABLE IF NOT EXISTS email_summaries (
			email_id VARCHAR(64) PRIMARY KEY,
			summary_json TEXT NOT NULL,
			created_at ` + ts + ` NOT NULL,
			FOREIGN KEY (email_id) REFERENCES emails(id)
		)`,
		`CREATE TABLE IF NOT EXISTS generated_replies (
			email_id VARCHAR(64) PRIMARY KEY,
			reply_text TEXT NOT NULL,
			tone VARCHAR(64) NOT NULL,
			created_at ` + ts + ` NOT NULL,
			FOREIGN KEY (email_id) REFERENCES emails(id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create store tables: %w", err)
		}
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; a duplicate index is harmless
	index := `CREATE INDEX IF NOT EXISTS idx_emails_thread_received ON emails(thread_id, received_at)`
	if s.db.DriverName() == DriverMySQL {
		index = `CREATE INDEX idx_emails_thread_received ON emails(thread_id, received_at)`
	}
	if _, err := s.db.ExecContext(ctx, index); err != nil {
		s.logger.Debug().Err(err).Msg("Email thread index not created")
	}

	return nil
}

// timestamp returns a strictly increasing time so emails in one thread keep
// their arrival order even within the same clock tick
func (s *Store) timestamp() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) insertIgnore(table, columns, values, key string) string {
	if s.db.DriverName() == DriverMySQL {
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", table, columns, values)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING", table, columns, values, key)
}

func (s *Store) upsert(table, columns, values, key string, updates ...string) string {
	set := ""
	for i, col := range updates {
		if i > 0 {
			set += ", "
		}
		if s.db.DriverName() == DriverMySQL {
			set += fmt.Sprintf("%s = VALUES(%s)", col, col)
		} else {
			set += fmt.Sprintf("%s = excluded.%s", col, col)
		}
	}
	if s.db.DriverName() == DriverMySQL {
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s", table, columns, values, set)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s", table, columns, values, key, set)
}

// FindOrCreateThread returns the thread with id, creating it when id is empty or unknown
func (s *Store) FindOrCreateThread(ctx context.Context, id string) (*models.Thread, error) {
	if id == "" {
		id = uuid.NewString()
	}

	query := s.db.Rebind(s.insertIgnore("threads", "id, created_at", "?, ?", "id"))
	if _, err := s.db.ExecContext(ctx, query, id, s.timestamp()); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	var thread models.Thread
	err := s.db.GetContext(ctx, &thread, s.db.Rebind(`SELECT id, created_at FROM threads WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread %s: %w", id, err)
	}
	return &thread, nil
}

// AppendEmail stores a new email at the end of a thread
func (s *Store) AppendEmail(ctx context.Context, threadID, sender, subject, body string) (*models.Email, error) {
	email := &models.Email{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		ReceivedAt: s.timestamp(),
	}

	query := s.db.Rebind(`INSERT INTO emails (id, thread_id, sender, subject, body, received_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, email.ID, email.ThreadID, email.Sender, email.Subject, email.Body, email.ReceivedAt); err != nil {
		return nil, fmt.Errorf("failed to append email: %w", err)
	}
	return email, nil
}

// ListEmailsInThread returns the emails of a thread, oldest first
func (s *Store) ListEmailsInThread(ctx context.Context, threadID string) ([]models.Email, error) {
	var emails []models.Email
	query := s.db.Rebind(`SELECT id, thread_id, sender, subject, body, received_at FROM emails WHERE thread_id = ? ORDER BY received_at ASC, id ASC`)
	if err := ExecuteReadOnlyQuery(ctx, s.db, &emails, query, threadID); err != nil {
		return nil, err
	}
	return emails, nil
}

// CountEmailsInThread returns the number of emails stored in a thread
func (s *Store) CountEmailsInThread(ctx context.Context, threadID string) (int, error) {
	var count int
	query := s.db.Rebind(`SELECT COUNT(*) FROM emails WHERE thread_id = ?`)
	if err := s.db.GetContext(ctx, &count, query, threadID); err != nil {
		return 0, fmt.Errorf("failed to count thread emails: %w", err)
	}
	return count, nil
}

// GetEmail returns one email
func (s *Store) GetEmail(ctx context.Context, id string) (*models.Email, error) {
	var email models.Email
	query := s.db.Rebind(`SELECT id, thread_id, sender, subject, body, received_at FROM emails WHERE id = ?`)
	if err := ExecuteReadOnlyQuerySingle(ctx, s.db, &email, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &email, nil
}

// SaveSummary stores the summary of an email, replacing an earlier one
func (s *Store) SaveSummary(ctx context.Context, emailID string, summary *models.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	query := s.db.Rebind(s.upsert("email_summaries", "email_id, summary_json, created_at", "?, ?, ?", "email_id", "summary_json", "created_at"))
	if _, err := s.db.ExecContext(ctx, query, emailID, string(data), s.now().UTC()); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// GetSummary returns the stored summary of an email
func (s *Store) GetSummary(ctx context.Context, emailID string) (*models.Summary, error) {
	var data string
	query := s.db.Rebind(`SELECT summary_json FROM email_summaries WHERE email_id = ?`)
	if err := s.db.GetContext(ctx, &data, query, emailID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}

	var summary models.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary for %s: %w", emailID, err)
	}
	return &summary, nil
}

// SaveOrReplaceReply stores the reply of an email. A second call for the same
// email overwrites the first.
func (s *Store) SaveOrReplaceReply(ctx context.Context, emailID, text, tone string) (*models.Reply, error) {
	reply := &models.Reply{
		EmailID:   emailID,
		ReplyText: text,
		Tone:      tone,
		CreatedAt: s.now().UTC(),
	}

	query := s.db.Rebind(s.upsert("generated_replies", "email_id, reply_text, tone, created_at", "?, ?, ?, ?", "email_id", "reply_text", "tone", "created_at"))
	if _, err := s.db.ExecContext(ctx, query, reply.EmailID, reply.ReplyText, reply.Tone, reply.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return reply, nil
}

// GetReply returns the stored reply of an email
func (s *Store) GetReply(ctx context.Context, emailID string) (*models.Reply, error) {
	var reply models.Reply
	query := s.db.Rebind(`SELECT email_id, reply_text, tone, created_at FROM generated_replies WHERE email_id = ?`)
	if err := s.db.GetContext(ctx, &reply, query, emailID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load reply: %w", err)
	}
	return &reply, nil
}

// ListThreads returns threads, newest first, with their emails and replies
func (s *Store) ListThreads(ctx context.Context, limit, offset int) ([]models.Thread, error) {
	var threads []models.Thread
	query := s.db.Rebind(`SELECT id, created_at FROM threads ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`)
	if err := ExecuteReadOnlyQuery(ctx, s.db, &threads, query, limit, offset); err != nil {
		return nil, err
	}
	if len(threads) == 0 {
		return []models.Thread{}, nil
	}

	if err := s.attachEmails(ctx, threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// GetThread returns one thread with its emails and replies
func (s *Store) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	query := s.db.Rebind(`SELECT id, created_at FROM threads WHERE id = ?`)
	if err := ExecuteReadOnlyQuerySingle(ctx, s.db, &thread, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	threads := []models.Thread{thread}
	if err := s.attachEmails(ctx, threads); err != nil {
		return nil, err
	}
	return &threads[0], nil
}

// CountThreads returns the number of stored threads
func (s *Store) CountThreads(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM threads`); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}

// CountEmailsBetween returns the number of emails received in [start, end]
func (s *Store) CountEmailsBetween(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	query := s.db.Rebind(`SELECT COUNT(*) FROM emails WHERE received_at >= ? AND received_at <= ?`)
	if err := s.db.GetContext(ctx, &count, query, start, end); err != nil {
		return 0, fmt.Errorf("failed to count emails: %w", err)
	}
	return count, nil
}

func (s *Store) attachEmails(ctx context.Context, threads []models.Thread) error {
	ids := make([]string, len(threads))
	byID := make(map[string]int, len(threads))
	for i, t := range threads {
		ids[i] = t.ID
		byID[t.ID] = i
		threads[i].Emails = []models.Email{}
	}

	query, args, err := sqlx.In(`SELECT id, thread_id, sender, subject, body, received_at FROM emails WHERE thread_id IN (?) ORDER BY received_at ASC, id ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to build thread email query: %w", err)
	}
	var emails []models.Email
	if err := ExecuteReadOnlyQuery(ctx, s.db, &emails, s.db.Rebind(query), args...); err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}

	emailIDs := make([]string, len(emails))
	for i, e := range emails {
		emailIDs[i] = e.ID
	}
	query, args, err = sqlx.In(`SELECT email_id, reply_text, tone, created_at FROM generated_replies WHERE email_id IN (?)`, emailIDs)
	if err != nil {
		return fmt.Errorf("failed to build reply query: %w", err)
	}
	var replies []models.Reply
	if err := ExecuteReadOnlyQuery(ctx, s.db, &replies, s.db.Rebind(query), args...); err != nil {
		return err
	}
	replyByEmail := make(map[string]*models.Reply, len(replies))
	for i := range replies {
		replyByEmail[replies[i].EmailID] = &replies[i]
	}

	for _, e := range emails {
		e.Reply = replyByEmail[e.ID]
		i := byID[e.ThreadID]
		threads[i].Emails = append(threads[i].Emails, e)
	}
	return nil
}

// Package app assembles the mail pipeline from configuration. The HTTP server
// and the operator CLI share it.
package app

import (
	"context"
	"fmt"
	"time"

	"mailreply/internal/analytics"
	"mailreply/internal/config"
	"mailreply/internal/database"
	"mailreply/internal/email"
	"mailreply/internal/mail"
	"mailreply/internal/openai"
	"mailreply/internal/reply"
	"mailreply/internal/summary"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// App holds the wired components
type App struct {
	DB        *sqlx.DB
	Store     *database.Store
	Analytics *analytics.Service
	Model     *openai.Client
	Mail      *mail.Service
}

// Migrate opens the database and creates every table
func Migrate(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewStore(db, logger).CreateTables(ctx); err != nil {
		return err
	}
	// analytics creates its own table
	if _, err := analytics.NewService(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

// New connects to the database and the model provider and builds the pipeline
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("driver", db.DriverName()).Msg("Database connection established successfully")

	a := &App{DB: db, Store: database.NewStore(db, logger)}
	if cfg.AutoMigrate {
		if err := a.Store.CreateTables(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Analytics, err = analytics.NewService(ctx, db, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Model, err = openai.NewClient(cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("model client: %w", err)
	}

	// A nil *ReplySender must not become a non-nil Mailer
	var mailer mail.Mailer
	if sender := email.NewReplySender(cfg.SendGridAPIKey, cfg.ReplyFromEmail, cfg.ReplyFromName); sender != nil {
		mailer = sender
	} else {
		logger.Info().Msg("SendGrid not configured, auto-send disabled")
	}

	a.Mail = mail.NewService(
		a.Store,
		summary.NewExtractor(a.Model, logger),
		reply.NewWorkflow(reply.NewModelDrafter(a.Model), logger),
		mailer,
		a.Analytics,
		mail.Options{
			GenerationTimeout: time.Duration(cfg.GenerationTimeout) * time.Second,
			SummaryCacheTTL:   time.Duration(cfg.SummaryCacheTTL) * time.Minute,
		},
		logger,
	)

	return a, nil
}

// Close releases the database connection
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

package main

import (
	"os"

	"mailreply/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "mailreply",
		Usage:   "Submit emails, inspect summaries and generate replies without the HTTP server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Override DATABASE_URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log pipeline progress to stderr",
			},
		},
		Commands: []*cli.Command{
			submitCommand(),
			summaryCommand(),
			replyCommand(),
			threadsCommand(),
			statsCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("mailreply failed")
	}
}

// loadConfig reads the environment and applies global flag overrides
func loadConfig(c *cli.Context) (*config.Config, zerolog.Logger) {
	cfg := config.Load()
	if url := c.String("database-url"); url != "" {
		cfg.DatabaseURL = url
	}

	level := zerolog.WarnLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return cfg, logger
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mailreply/internal/app"
	"mailreply/internal/mail"
	"mailreply/internal/models"
	"mailreply/internal/reply"

	"github.com/urfave/cli/v2"
)

type pipelineAction func(ctx context.Context, c *cli.Context, a *app.App) error

// withPipeline builds the pipeline for one command run
func withPipeline(action pipelineAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger := loadConfig(c)
		a, err := app.New(c.Context, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return action(c.Context, c, a)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Store an email and print its structured summary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sender", Aliases: []string{"s"}, Usage: "Sender address", Required: true},
			&cli.StringFlag{Name: "subject", Usage: "Subject line"},
			&cli.StringFlag{Name: "body", Usage: "Body text, - reads stdin", Value: "-"},
			&cli.StringFlag{Name: "thread", Aliases: []string{"t"}, Usage: "Existing thread id"},
		},
		Action: withPipeline(func(ctx context.Context, c *cli.Context, a *app.App) error {
			req, err := submitRequest(c, os.Stdin)
			if err != nil {
				return err
			}

			result, err := a.Mail.Submit(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, models.EmailSubmitResponse{
				Status:   "success",
				EmailID:  result.EmailID,
				ThreadID: result.ThreadID,
				Summary:  result.Summary,
			})
		}),
	}
}

// submitRequest builds the submission from flags; --body - reads stdin
func submitRequest(c *cli.Context, stdin io.Reader) (mail.SubmitRequest, error) {
	req := mail.SubmitRequest{
		Sender:   c.String("sender"),
		Subject:  c.String("subject"),
		Body:     c.String("body"),
		ThreadID: c.String("thread"),
	}

	if req.Body == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read body: %w", err)
		}
		req.Body = string(raw)
	}
	return req, nil
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Print the stored summary of an email",
		ArgsUsage: "EMAIL_ID",
		Action: withPipeline(func(ctx context.Context, c *cli.Context, a *app.App) error {
			if c.NArg() < 1 {
				return fmt.Errorf("missing required argument: EMAIL_ID")
			}
			s, err := a.Mail.GetSummary(ctx, c.Args().First())
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, s)
		}),
	}
}

func replyCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate-reply",
		Aliases:   []string{"reply"},
		Usage:     "Generate, validate and store a reply for an email",
		ArgsUsage: "EMAIL_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tone", Usage: "Reply tone", Value: reply.DefaultTone},
			&cli.StringFlag{Name: "instructions", Aliases: []string{"i"}, Usage: "Extra instructions for the draft"},
			&cli.BoolFlag{Name: "send", Usage: "Send the approved reply via SendGrid"},
		},
		Action: withPipeline(func(ctx context.Context, c *cli.Context, a *app.App) error {
			if c.NArg() < 1 {
				return fmt.Errorf("missing required argument: EMAIL_ID")
			}
			result, err := a.Mail.GenerateReply(ctx, c.Args().First(), mail.GenerateRequest{
				Tone:         c.String("tone"),
				Instructions: c.String("instructions"),
				AutoSend:     c.Bool("send"),
			})
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, models.GenerateReplyResponse{
				EmailID:   result.EmailID,
				ThreadID:  result.ThreadID,
				Reply:     result.Reply,
				Tone:      result.Tone,
				Attempts:  result.Attempts,
				Sent:      result.Sent,
				SendError: result.SendError,
			})
		}),
	}
}

func threadsCommand() *cli.Command {
	return &cli.Command{
		Name:  "threads",
		Usage: "List threads with their emails and replies",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "skip", Usage: "Offset"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Page size (max 100)", Value: 100},
		},
		Action: withPipeline(func(ctx context.Context, c *cli.Context, a *app.App) error {
			threads, err := a.Mail.ListThreads(ctx, c.Int("limit"), c.Int("skip"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, threads)
		}),
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print pipeline counters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Usage: "today, yesterday, last_7_days or last_30_days", Value: "today"},
		},
		Action: withPipeline(func(ctx context.Context, c *cli.Context, a *app.App) error {
			summary, err := a.Analytics.GetSummary(ctx, c.String("period"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, summary)
		}),
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the store and analytics tables",
		Action: func(c *cli.Context) error {
			cfg, logger := loadConfig(c)
			if err := app.Migrate(c.Context, cfg, logger); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "tables ready")
			return nil
		},
	}
}

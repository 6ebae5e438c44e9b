package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mailreply/internal/mail"
	"mailreply/internal/models"
	"mailreply/internal/reply"
	"mailreply/internal/safety"
	"mailreply/internal/summary"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EmailService is the pipeline surface the email and thread handlers use
type EmailService interface {
	Submit(ctx context.Context, req mail.SubmitRequest) (*mail.SubmitResult, error)
	GetSummary(ctx context.Context, emailID string) (*models.Summary, error)
	GenerateReply(ctx context.Context, emailID string, req mail.GenerateRequest) (*mail.GenerateResult, error)
	ListThreads(ctx context.Context, limit, offset int) ([]models.Thread, error)
	GetThread(ctx context.Context, id string) (*models.Thread, error)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, models.ErrorResponse{Error: msg, Detail: msg})
}

// SubmitEmailHandler stores an inbound email and returns its structured summary
// @Summary Submit an email
// @Description Runs the content filter, stores the email in its thread and extracts a structured summary
// @Tags email
// @Accept json
// @Produce json
// @Param request body models.EmailSubmitRequest true "Inbound email"
// @Success 200 {object} models.EmailSubmitResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/email/submit [post]
func SubmitEmailHandler(svc EmailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := zerolog.Ctx(c.Request().Context())

		var req models.EmailSubmitRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request body")
		}

		submit := mail.SubmitRequest{
			Sender:  strings.TrimSpace(req.Sender),
			Subject: req.Subject,
			Body:    req.Body,
		}
		if req.ThreadID != nil {
			submit.ThreadID = strings.TrimSpace(*req.ThreadID)
		}

		result, err := svc.Submit(c.Request().Context(), submit)
		switch {
		case err == nil:
		case errors.Is(err, safety.ErrContentRejected):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, mail.ErrInvalidEmail):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, summary.ErrExtractionFailed):
			logger.Error().Err(err).Msg("Summary extraction failed")
			return errorJSON(c, http.StatusBadGateway, "Summary extraction failed")
		default:
			logger.Error().Err(err).Msg("Email submission failed")
			return errorJSON(c, http.StatusInternalServerError, "Failed to process email")
		}

		return c.JSON(http.StatusOK, models.EmailSubmitResponse{
			Status:   "success",
			EmailID:  result.EmailID,
			ThreadID: result.ThreadID,
			Summary:  result.Summary,
		})
	}
}

// GetSummaryHandler returns the stored summary of an email
// @Summary Get email summary
// @Tags email
// @Produce json
// @Param id path string true "Email ID"
// @Success 200 {object} models.SummaryResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/email/{id}/summary [get]
func GetSummaryHandler(svc EmailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := svc.GetSummary(c.Request().Context(), c.Param("id"))
		if errors.Is(err, mail.ErrSummaryNotFound) {
			return errorJSON(c, http.StatusNotFound, "Summary not found")
		}
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Summary lookup failed")
			return errorJSON(c, http.StatusInternalServerError, "Failed to load summary")
		}
		return c.JSON(http.StatusOK, models.SummaryResponse{Summary: s})
	}
}

// GenerateReplyHandler drafts, validates and stores a reply for an email
// @Summary Generate a reply
// @Description Runs the generate and validate loop (at most 3 attempts) and stores the approved reply
// @Tags email
// @Accept json
// @Produce json
// @Param id path string true "Email ID"
// @Param request body models.GenerateReplyRequest false "Tone and instructions"
// @Success 200 {object} models.GenerateReplyResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.GenerateReplyFailure
// @Failure 504 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/email/{id}/generate-reply [post]
func GenerateReplyHandler(svc EmailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		logger := zerolog.Ctx(ctx)

		var req models.GenerateReplyRequest
		if c.Request().ContentLength != 0 {
			if err := c.Bind(&req); err != nil {
				return errorJSON(c, http.StatusBadRequest, "Invalid request body")
			}
		}
		tone := strings.TrimSpace(req.Tone)
		if tone == "" {
			tone = reply.DefaultTone
		}
		generate := mail.GenerateRequest{Tone: tone, AutoSend: req.AutoSend}
		if req.Instructions != nil {
			generate.Instructions = *req.Instructions
		}

		result, err := svc.GenerateReply(ctx, c.Param("id"), generate)

		var exhausted *mail.GenerationExhaustedError
		switch {
		case err == nil:
		case errors.Is(err, mail.ErrSummaryNotFound):
			return errorJSON(c, http.StatusNotFound, "Summary not found")
		case errors.As(err, &exhausted):
			logger.Warn().Str("reason", exhausted.Reason).Int("attempts", exhausted.Attempts).Msg("Reply generation exhausted")
			return c.JSON(http.StatusUnprocessableEntity, models.GenerateReplyFailure{
				Error:    exhausted.Error(),
				Detail:   exhausted.Error(),
				Reply:    exhausted.LastDraft,
				Attempts: exhausted.Attempts,
			})
		case errors.Is(err, context.DeadlineExceeded):
			return errorJSON(c, http.StatusGatewayTimeout, "Reply generation timed out")
		default:
			logger.Error().Err(err).Msg("Reply generation failed")
			return errorJSON(c, http.StatusInternalServerError, "Failed to generate reply")
		}

		return c.JSON(http.StatusOK, models.GenerateReplyResponse{
			EmailID:   result.EmailID,
			ThreadID:  result.ThreadID,
			Reply:     result.Reply,
			Tone:      result.Tone,
			Attempts:  result.Attempts,
			Sent:      result.Sent,
			SendError: result.SendError,
		})
	}
}

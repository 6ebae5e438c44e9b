package handlers

import (
	"context"
	"fmt"
	"net/http"

	"mailreply/internal/analytics"
	"mailreply/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AnalyticsProvider reads pipeline counters
type AnalyticsProvider interface {
	GetSummary(ctx context.Context, period string) (*models.AnalyticsSummary, error)
}

// AnalyticsHandler returns analytics summary for a given period
// @Summary Get analytics summary
// @Description Get pipeline counters for a specified time period (today, yesterday, last_7_days, last_30_days)
// @Tags analytics
// @Accept json
// @Produce json
// @Param period query string false "Time period (today, yesterday, last_7_days, last_30_days)" default(today)
// @Success 200 {object} models.AnalyticsResponse
// @Failure 500 {object} models.AnalyticsResponse
// @Router /api/v1/analytics [get]
func AnalyticsHandler(analyticsService AnalyticsProvider) echo.HandlerFunc {
	return func(c echo.Context) error {
		period := c.QueryParam("period")
		if period == "" {
			period = analytics.PeriodToday
		}

		logger := zerolog.Ctx(c.Request().Context())
		logger.Debug().Str("period", period).Msg("Fetching analytics summary")

		summary, err := analyticsService.GetSummary(c.Request().Context(), period)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get analytics summary")
			return c.JSON(http.StatusInternalServerError, models.AnalyticsResponse{
				Success: false,
				Error:   fmt.Sprintf("Failed to get analytics summary: %v", err),
			})
		}

		return c.JSON(http.StatusOK, models.AnalyticsResponse{
			Success: true,
			Summary: summary,
		})
	}
}

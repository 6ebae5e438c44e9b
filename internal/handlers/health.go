package handlers

import (
	"context"
	"net/http"
	"time"

	"mailreply/internal/database"
	"mailreply/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// HealthHandler handles basic health check requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		}

		return c.JSON(http.StatusOK, response)
	}
}

// DBHealthHandler handles database health check requests
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} models.DBHealthResponse
// @Failure 503 {object} models.DBHealthResponse
// @Router /healthz/db [get]
func DBHealthHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := models.DBHealthResponse{
			Status:    "unknown",
			Timestamp: time.Now().UTC(),
		}

		if db == nil {
			response.Status = "unhealthy"
			response.Error = "Database connection not initialized"
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := database.ExecuteReadOnlyPing(ctx, db)
		response.Latency = time.Since(start)

		if err != nil {
			response.Status = "unhealthy"
			response.Error = "Database read-only query failed: " + err.Error()
			return c.JSON(http.StatusServiceUnavailable, response)
		}

		response.Status = "healthy"
		response.Connected = true

		return c.JSON(http.StatusOK, response)
	}
}

// RootHandler handles requests to the root endpoint
func RootHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Mail Reply API",
			"version": version,
			"status":  "running",
		})
	}
}

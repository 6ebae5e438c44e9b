package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mailreply/internal/auth"
	"mailreply/internal/mail"
	"mailreply/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultThreadLimit = 100

// ListThreadsHandler lists threads with their emails and replies, newest first
// @Summary List threads
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size (max 100)" default(100)
// @Success 200 {array} models.Thread
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/threads [get]
func ListThreadsHandler(svc EmailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		skip := queryInt(c, "skip", 0)
		limit := queryInt(c, "limit", defaultThreadLimit)

		threads, err := svc.ListThreads(c.Request().Context(), limit, skip)
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Thread listing failed")
			return errorJSON(c, http.StatusInternalServerError, "Failed to list threads")
		}
		if threads == nil {
			threads = []models.Thread{}
		}
		return c.JSON(http.StatusOK, threads)
	}
}

// GetThreadHandler returns one thread with its emails and replies
// @Summary Get a thread
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {object} models.Thread
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/threads/{id} [get]
func GetThreadHandler(svc EmailService) echo.HandlerFunc {
	return func(c echo.Context) error {
		thread, err := svc.GetThread(c.Request().Context(), c.Param("id"))
		if errors.Is(err, mail.ErrThreadNotFound) {
			return errorJSON(c, http.StatusNotFound, "Thread not found")
		}
		if err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Thread lookup failed")
			return errorJSON(c, http.StatusInternalServerError, "Failed to load thread")
		}
		return c.JSON(http.StatusOK, thread)
	}
}

// AdminLoginHandler handles admin authentication
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.AdminAuthRequest true "Credentials"
// @Success 200 {object} models.AdminAuthResponse
// @Failure 400 {object} models.AdminAuthResponse
// @Failure 401 {object} models.AdminAuthResponse
// @Router /api/v1/admin/login [post]
func AdminLoginHandler(authManager *auth.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.AdminAuthRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.AdminAuthResponse{
				Success: false,
				Error:   "Invalid request body",
			})
		}

		token, err := authManager.Authenticate(req.Username, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.AdminAuthResponse{
				Success: false,
				Error:   "Invalid credentials",
			})
		}

		return c.JSON(http.StatusOK, models.AdminAuthResponse{
			Success: true,
			Token:   token,
		})
	}
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

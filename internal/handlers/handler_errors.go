package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with 503 responses caused by lock contention.
const retryAfterSeconds = "1"

// errorStatus maps a service error onto an HTTP status. Order matters: a
// supplied duplicate number is both ErrValidation and ErrDuplicate and is a 400.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrLockTimeout), errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrNoOpenPeriod),
		errors.Is(err, apperrors.ErrPeriodClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrNotPosted),
		errors.Is(err, apperrors.ErrCannotModifyPosted),
		errors.Is(err, apperrors.ErrCannotDeletePosted),
		errors.Is(err, apperrors.ErrInvalidPeriodStatus):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the JSON error body for err. Infrastructure failures are
// logged at error level and their detail is not exposed.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := errorStatus(err)

	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}

	logger.Warn("Request rejected", slog.String("action", action), slog.Int("status", status), slog.String("error", err.Error()))
	if apperrors.IsRetryable(err) {
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requestActor returns the authenticated actor, aborting with 401 when absent.
func requestActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// bindJSON decodes the request body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// bindQuery decodes query parameters into params, answering 400 on failure.
func bindQuery(c *gin.Context, params any) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}

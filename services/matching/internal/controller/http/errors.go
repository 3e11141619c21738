package http

import (
	"errors"
	"net/http"

	"donorseeker/pkg/logger"
	"donorseeker/pkg/middleware"
	"donorseeker/services/matching/internal/entity"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error" example:"listing is not requestable"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{entity.ErrNotFound, http.StatusNotFound},
	{entity.ErrForbidden, http.StatusForbidden},
	{entity.ErrInvalidTransition, http.StatusConflict},
	{entity.ErrDuplicatePending, http.StatusConflict},
	{entity.ErrDuplicateFeedback, http.StatusConflict},
	{entity.ErrNotRequestable, http.StatusConflict},
	{entity.ErrNotReceived, http.StatusConflict},
	{entity.ErrInvalidRating, http.StatusBadRequest},
	{entity.ErrInvalidInput, http.StatusBadRequest},
	{entity.ErrUnavailable, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, s := range statusByError {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps engine errors to a status code. Server-side failures are
// logged and their detail is not sent to the client.
func writeError(c *gin.Context, log *logger.Logger, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("[HTTP] %s failed: %v", op, err)
		msg := "internal error"
		if status == http.StatusServiceUnavailable {
			msg = "service temporarily unavailable"
		}
		c.JSON(status, errorResponse{Error: msg})
		return
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

// currentUser aborts with 401 when no identity was set by the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
}

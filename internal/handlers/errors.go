package handlers

import (
	"errors"
	"time"

	"clinic-scheduler-server/internal/middleware"
	"clinic-scheduler-server/internal/scheduling"
	"clinic-scheduler-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// actorFromContext builds the scheduling actor for the authenticated
// user. AuthMiddleware has already populated the context.
func actorFromContext(c *gin.Context) (scheduling.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return scheduling.Actor{}, false
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User role not found in token")
		return scheduling.Actor{}, false
	}
	return scheduling.Actor{ID: userID, Role: role}, true
}

// respondSchedulingError maps the scheduling error taxonomy onto HTTP
// responses.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, "Resource not found")
	case errors.Is(err, scheduling.ErrSlotUnavailable):
		utils.Conflict(c, "The requested slot is not available")
	case errors.Is(err, scheduling.ErrUnauthorized):
		utils.Forbidden(c, "You do not have permission to perform this action")
	case errors.Is(err, scheduling.ErrInvalidTransition):
		utils.BadRequest(c, "The appointment state does not allow this operation")
	case errors.Is(err, scheduling.ErrInvariantViolation):
		utils.InternalServerError(c, "Appointment state is inconsistent, please contact support")
	default:
		utils.InternalServerError(c, "Unexpected error: "+err.Error())
	}
}

const dateParam = "2006-01-02"

// parseDateParam parses a "2006-01-02" value, responding with 400 on
// failure.
func parseDateParam(c *gin.Context, value string) (time.Time, bool) {
	date, err := time.Parse(dateParam, value)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD: "+value)
		return time.Time{}, false
	}
	return date, true
}

// parseTimeParam validates an "HH:MM" value, responding with 400 on
// failure.
func parseTimeParam(c *gin.Context, value string) (string, bool) {
	if _, err := time.Parse("15:04", value); err != nil {
		utils.BadRequest(c, "Invalid time, expected HH:MM: "+value)
		return "", false
	}
	return value, true
}

package handlers

import (
	"clinic-scheduler-server/internal/scheduling"
	"clinic-scheduler-server/internal/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler handles slot and schedule related requests.
type AvailabilityHandler struct {
	Availability *scheduling.AvailabilityStore
	Queries      *scheduling.Queries
	Store        scheduling.Store
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(availability *scheduling.AvailabilityStore, queries *scheduling.Queries, store scheduling.Store) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: availability, Queries: queries, Store: store}
}

// GetOpenTimes returns the open "HH:MM" values for a doctor on one
// date, the shape the booking form consumes.
func (h *AvailabilityHandler) GetOpenTimes(c *gin.Context) {
	date, ok := parseDateParam(c, c.Query("date"))
	if !ok {
		return
	}

	times, err := h.Availability.OpenTimes(c.Request.Context(), c.Param("doctorId"), date)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Available times fetched successfully", times)
}

// GetOpenSlots returns a doctor's open slots over a date range
// (?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the next 30 days).
func (h *AvailabilityHandler) GetOpenSlots(c *gin.Context) {
	from := time.Now()
	to := from.AddDate(0, 0, 30)
	if raw := c.Query("from"); raw != "" {
		parsed, ok := parseDateParam(c, raw)
		if !ok {
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, ok := parseDateParam(c, raw)
		if !ok {
			return
		}
		to = parsed
	}

	slots, err := h.Availability.ListOpen(c.Request.Context(), c.Param("doctorId"), from, to)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", slots)
}

// SetAvailabilityRequest represents the doctor's slot toggle.
type SetAvailabilityRequest struct {
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	IsAvailable *bool  `json:"isAvailable" binding:"required"`
}

// SetAvailability toggles one of the acting doctor's slots. It is an
// idempotent upsert with no notification side effects.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, req.Date)
	if !ok {
		return
	}
	timeOfDay, ok := parseTimeParam(c, req.Time)
	if !ok {
		return
	}

	if err := h.Availability.SetAvailability(c.Request.Context(), actor.ID, date, timeOfDay, *req.IsAvailable); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Availability updated successfully", nil)
}

// GetWeeklyView returns the acting doctor's merged slot and booking
// grid for the coming week.
func (h *AvailabilityHandler) GetWeeklyView(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	views, err := h.Queries.WeeklyAvailability(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Weekly availability fetched successfully", views)
}

// GetSchedule returns a doctor's working-day records over a date range.
func (h *AvailabilityHandler) GetSchedule(c *gin.Context) {
	from := time.Now()
	to := from.AddDate(0, 0, scheduling.DefaultWindowDays)
	if raw := c.Query("from"); raw != "" {
		parsed, ok := parseDateParam(c, raw)
		if !ok {
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, ok := parseDateParam(c, raw)
		if !ok {
			return
		}
		to = parsed
	}

	schedules, err := h.Store.ListSchedulesInRange(c.Request.Context(), c.Param("doctorId"), from, to)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Schedule fetched successfully", schedules)
}

package handlers

import (
	"clinic-scheduler-server/internal/models"
	"clinic-scheduler-server/internal/scheduling"
	"clinic-scheduler-server/internal/utils"
	"time"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Lifecycle *scheduling.Lifecycle
	Queries   *scheduling.Queries
	Store     scheduling.Store
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(lifecycle *scheduling.Lifecycle, queries *scheduling.Queries, store scheduling.Store) *AppointmentHandler {
	return &AppointmentHandler{Lifecycle: lifecycle, Queries: queries, Store: store}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID  string  `json:"doctorId" binding:"required"`
	PatientID string  `json:"patientId" binding:"required"`
	NurseID   *string `json:"nurseId"`
	Date      string  `json:"date" binding:"required"` // "2006-01-02"
	Time      string  `json:"time" binding:"required"` // "HH:MM"
	Reason    string  `json:"reason" binding:"required"`
}

// CreateAppointment books a slot. Patients book for themselves; nurses
// may book on a patient's behalf.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
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

	appt, err := h.Lifecycle.Book(c.Request.Context(), actor, scheduling.BookRequest{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		NurseID:   req.NurseID,
		Date:      date,
		Time:      timeOfDay,
		Reason:    req.Reason,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment booked successfully", appt)
}

// GetAppointmentsForUser fetches appointments for the logged-in user.
// Patients see their own history (past included with ?includePast=true),
// doctors see their calendar (optionally filtered with ?date=YYYY-MM-DD),
// nurses see a doctor's day via ?doctorId=...
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var (
		appts []models.Appointment
		err   error
	)
	switch actor.Role {
	case models.RolePatient:
		includePast := c.Query("includePast") == "true"
		appts, err = h.Queries.PatientAppointments(c.Request.Context(), actor.ID, includePast)
	case models.RoleDoctor:
		var date *time.Time
		if raw := c.Query("date"); raw != "" {
			parsed, ok := parseDateParam(c, raw)
			if !ok {
				return
			}
			date = &parsed
		}
		appts, err = h.Queries.DoctorAppointments(c.Request.Context(), actor.ID, date)
	case models.RoleNurse:
		doctorID := c.Query("doctorId")
		if doctorID == "" {
			utils.BadRequest(c, "doctorId query parameter is required for nurses")
			return
		}
		appts, err = h.Queries.TodaysAppointments(c.Request.Context(), doctorID)
	default:
		utils.Forbidden(c, "Unknown role")
		return
	}
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appts)
}

// GetUpcomingAppointments fetches a doctor's appointments after today.
func (h *AppointmentHandler) GetUpcomingAppointments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	appts, err := h.Queries.UpcomingAppointments(c.Request.Context(), actor.ID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Upcoming appointments fetched successfully", appts)
}

// GetAppointmentByID fetches one appointment, restricted to its
// participants and nurses.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Store.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	allowed := actor.Role == models.RoleNurse ||
		(actor.Role == models.RolePatient && actor.ID == appt.PatientID) ||
		(actor.Role == models.RoleDoctor && actor.ID == appt.DoctorID)
	if !allowed {
		utils.Forbidden(c, "You do not have access to this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appt)
}

// CancelAppointment cancels a scheduled appointment and reopens its slot.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.Lifecycle.Cancel(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", nil)
}

// RescheduleAppointmentRequest represents the request body for a reschedule.
type RescheduleAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason"`
}

// RescheduleAppointment moves an appointment to a new slot, possibly
// with a different doctor.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
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

	appt, err := h.Lifecycle.Reschedule(c.Request.Context(), actor, c.Param("id"), scheduling.RescheduleRequest{
		DoctorID: req.DoctorID,
		Date:     date,
		Time:     timeOfDay,
		Reason:   req.Reason,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appt)
}

// CheckInAppointment marks the patient as arrived (nurse only).
func (h *AppointmentHandler) CheckInAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.Lifecycle.CheckIn(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Patient checked in successfully", nil)
}

// UpdateAppointmentRequest represents the doctor's update to an appointment.
type UpdateAppointmentRequest struct {
	Notes  string `json:"notes"`
	Status string `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

// UpdateAppointment lets the appointment's doctor write visit notes and
// close out or cancel the appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appt, err := h.Lifecycle.UpdateByDoctor(c.Request.Context(), actor, c.Param("id"), req.Notes, models.AppointmentStatus(req.Status))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment updated successfully", appt)
}

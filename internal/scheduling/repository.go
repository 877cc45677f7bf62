package scheduling

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler-server/internal/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrUnauthorized       = errors.New("actor is not allowed to perform this operation")
	ErrInvalidTransition  = errors.New("appointment state does not allow this transition")
	ErrInvariantViolation = errors.New("slot and appointment state diverged")
)

// Actor is the authenticated identity a lifecycle operation runs as.
// The auth layer has already verified it; the core re-checks only
// ownership.
type Actor struct {
	ID   string
	Role models.Role
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	// GetUserByRole returns ErrNotFound when the user exists but carries a
	// different role tag.
	GetUserByRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type SlotRepository interface {
	GetSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (*models.AvailabilitySlot, error)
	ListSlotsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.AvailabilitySlot, error)
	// UpsertSlot creates the slot record if absent, else overwrites the flag.
	UpsertSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string, isAvailable bool) error
	// EnsureSlot creates an open slot record only if none exists at the key;
	// an existing record keeps its flag. Used by seeding so re-runs never
	// reopen booked slots.
	EnsureSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error
	// ReserveSlot atomically flips an open slot to closed. It is the
	// booking guard: a conditional write that fails with ErrSlotUnavailable
	// when the slot is absent or already closed, so two concurrent bookers
	// can never both succeed.
	ReserveSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error
	// ReleaseSlot reopens a slot. A missing record is a silent no-op:
	// doctors that never ran the seeder have appointments without slot
	// rows, and cancellation must still work for them.
	ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error
}

type AppointmentRepository interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	SaveAppointment(ctx context.Context, a *models.Appointment) error
	// ListDoctorAppointments returns a doctor's appointments, optionally
	// restricted to one date, ordered by date then time.
	ListDoctorAppointments(ctx context.Context, doctorID string, date *time.Time) ([]models.Appointment, error)
	ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.Appointment, error)
	ListDoctorAppointmentsAfter(ctx context.Context, doctorID string, after time.Time) ([]models.Appointment, error)
	// ListPatientAppointments returns a patient's appointments ordered by
	// date then time; a non-nil from drops everything before it.
	ListPatientAppointments(ctx context.Context, patientID string, from *time.Time) ([]models.Appointment, error)
}

type ScheduleRepository interface {
	// UpsertSchedule writes the working window keyed by (doctor, date).
	UpsertSchedule(ctx context.Context, doctorID string, date time.Time, startTime, endTime string, isAvailable bool) error
	ListSchedulesInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DoctorSchedule, error)
}

type NotificationRepository interface {
	CreateNotifications(ctx context.Context, notifications []models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
}

type MedicalRecordRepository interface {
	CreateMedicalRecord(ctx context.Context, r *models.MedicalRecord) error
	ListPatientMedicalRecords(ctx context.Context, patientID string) ([]models.MedicalRecord, error)
}

// Store bundles every repository plus the transaction boundary. A
// lifecycle operation runs its slot flip, appointment write and
// notification inserts inside one InTx call: they commit together or
// not at all.
type Store interface {
	UserRepository
	SlotRepository
	AppointmentRepository
	ScheduleRepository
	NotificationRepository
	MedicalRecordRepository

	InTx(ctx context.Context, fn func(tx Store) error) error
}

package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked visit. While it is scheduled it owns
// exactly one closed AvailabilitySlot with the same (doctor, date, time)
// key. Cancellation is always a status flip, never a row delete, so
// notifications that reference the appointment stay valid.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	NurseID         *string           `gorm:"size:36;index" json:"nurseId,omitempty"`
	Date            time.Time         `gorm:"type:date;not null" json:"date"`
	Time            string            `gorm:"size:5;not null" json:"time"` // "HH:MM"
	DurationMinutes int               `gorm:"default:30" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Reason          string            `gorm:"type:text" json:"reason"`
	Notes           string            `gorm:"type:text" json:"notes"`
	CheckedIn       bool              `gorm:"default:false" json:"checkedIn"`
	CheckedInAt     *time.Time        `json:"checkedInAt,omitempty"`

	// Relations
	Patient User  `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User  `gorm:"foreignKey:DoctorID" json:"-"`
	Nurse   *User `gorm:"foreignKey:NurseID" json:"-"`
}

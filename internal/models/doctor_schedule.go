package models

import (
	"time"
)

// DoctorSchedule is the coarse per-day working window of a doctor, used
// for displaying and editing work hours. It is independent of the
// fine-grained AvailabilitySlot records that individual bookings consume.
type DoctorSchedule struct {
	BaseModel
	DoctorID    string    `gorm:"size:36;not null;uniqueIndex:idx_schedule_key" json:"doctorId"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_schedule_key" json:"date"`
	StartTime   string    `gorm:"size:5;not null" json:"startTime"` // "HH:MM"
	EndTime     string    `gorm:"size:5;not null" json:"endTime"`   // "HH:MM"
	IsAvailable bool      `gorm:"default:true" json:"isAvailable"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

package models

import (
	"time"
)

// AvailabilitySlot is one bookable (doctor, date, time-of-day) unit.
// Slot records are explicit: a doctor with no record for a date has
// nothing bookable there. Slots are flipped closed by booking and back
// open by cancellation, and are never deleted.
type AvailabilitySlot struct {
	BaseModel
	DoctorID    string    `gorm:"size:36;not null;uniqueIndex:idx_slot_key" json:"doctorId"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_slot_key" json:"date"`
	Time        string    `gorm:"size:5;not null;uniqueIndex:idx_slot_key" json:"time"` // "HH:MM"
	IsAvailable bool      `gorm:"default:true" json:"isAvailable"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

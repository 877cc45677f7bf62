package models

// Notification is an in-app message created as a side effect of an
// appointment lifecycle event or composed directly by a nurse. After
// insert, only the read flag is ever mutated.
type Notification struct {
	BaseModel
	UserID        string  `gorm:"size:36;index;not null" json:"userId"`
	AppointmentID *string `gorm:"size:36;index" json:"appointmentId,omitempty"`
	Message       string  `gorm:"type:text;not null" json:"message"`
	IsRead        bool    `gorm:"default:false;index" json:"isRead"`

	// Relations
	User        User         `gorm:"foreignKey:UserID" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

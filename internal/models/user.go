package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

// User represents a user in the system. All three roles share one table;
// the role tag decides which of the optional columns are meaningful.
// Role is immutable after creation.
type User struct {
	BaseModel
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Role      Role   `gorm:"size:20;not null" json:"role"`
	Phone     string `gorm:"size:20" json:"phone,omitempty"`

	// Doctor fields
	Specialty string `gorm:"size:100" json:"specialty,omitempty"`

	// Nurse fields
	Department          string  `gorm:"size:100" json:"department,omitempty"`
	Shift               string  `gorm:"size:50" json:"shift,omitempty"`
	SupervisingDoctorID *string `gorm:"size:36;index" json:"supervisingDoctorId,omitempty"`

	// Relations (not always preloaded)
	SupervisingDoctor   *User              `gorm:"foreignKey:SupervisingDoctorID" json:"-"`
	RefreshTokens       []RefreshToken     `gorm:"foreignKey:UserID" json:"-"`
	DoctorAppointments  []Appointment      `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment      `gorm:"foreignKey:PatientID" json:"-"`
	AvailabilitySlots   []AvailabilitySlot `gorm:"foreignKey:DoctorID" json:"-"`
	Schedules           []DoctorSchedule   `gorm:"foreignKey:DoctorID" json:"-"`
	Notifications       []Notification     `gorm:"foreignKey:UserID" json:"-"`
	MedicalRecords      []MedicalRecord    `gorm:"foreignKey:PatientID" json:"-"`
}

// FullName returns the display name used in notification messages.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID                  string  `json:"id"`
	Email               string  `json:"email"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Role                Role    `json:"role"`
	Phone               string  `json:"phone,omitempty"`
	Specialty           string  `json:"specialty,omitempty"`
	Department          string  `json:"department,omitempty"`
	Shift               string  `json:"shift,omitempty"`
	SupervisingDoctorID *string `json:"supervisingDoctorId,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Role:                u.Role,
		Phone:               u.Phone,
		Specialty:           u.Specialty,
		Department:          u.Department,
		Shift:               u.Shift,
		SupervisingDoctorID: u.SupervisingDoctorID,
	}
}

package models

// MedicalRecord represents a patient's medical record entry written by a
// doctor. Creating one notifies the patient.
type MedicalRecord struct {
	BaseModel
	PatientID string `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID  string `gorm:"size:36;index;not null" json:"doctorId"`
	Diagnosis string `gorm:"type:text" json:"diagnosis"`
	Treatment string `gorm:"type:text" json:"treatment"`
	Notes     string `gorm:"type:text" json:"notes"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

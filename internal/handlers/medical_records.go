package handlers

import (
	"clinic-scheduler-server/internal/models"
	"clinic-scheduler-server/internal/scheduling"
	"clinic-scheduler-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// MedicalRecordHandler handles medical record requests.
type MedicalRecordHandler struct {
	Store scheduling.Store
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(store scheduling.Store) *MedicalRecordHandler {
	return &MedicalRecordHandler{Store: store}
}

// CreateMedicalRecordRequest represents the request body for creating a record.
type CreateMedicalRecordRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

// CreateMedicalRecord creates a record for a patient and notifies them.
// Doctor only.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	doctor, err := h.Store.GetUserByRole(c.Request.Context(), actor.ID, models.RoleDoctor)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if _, err := h.Store.GetUserByRole(c.Request.Context(), req.PatientID, models.RolePatient); err != nil {
		respondSchedulingError(c, err)
		return
	}

	record := &models.MedicalRecord{
		PatientID: req.PatientID,
		DoctorID:  actor.ID,
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
	}

	err = h.Store.InTx(c.Request.Context(), func(tx scheduling.Store) error {
		if err := tx.CreateMedicalRecord(c.Request.Context(), record); err != nil {
			return err
		}
		notification := scheduling.MedicalRecordNotification(req.PatientID, doctor.FullName())
		return tx.CreateNotifications(c.Request.Context(), []models.Notification{notification})
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Medical record created successfully", record)
}

// GetMedicalRecordsForPatient fetches a patient's records. Patients can
// only read their own; doctors and nurses can read any patient's.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	patientID := c.Param("patientId")
	if actor.Role == models.RolePatient && actor.ID != patientID {
		utils.Forbidden(c, "Patients can only access their own medical records")
		return
	}

	records, err := h.Store.ListPatientMedicalRecords(c.Request.Context(), patientID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}

package handlers

import (
	"clinic-scheduler-server/internal/middleware"
	"clinic-scheduler-server/internal/models"
	"clinic-scheduler-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles user directory requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetDoctors handles fetching all doctors, the list patients choose
// from when booking.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.DB.Where("role = ?", models.RoleDoctor).Order("last_name asc").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}

	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// GetNurses handles fetching all nurses.
func (h *UserHandler) GetNurses(c *gin.Context) {
	var nurses []models.User
	if err := h.DB.Where("role = ?", models.RoleNurse).Order("last_name asc").Find(&nurses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch nurses: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(nurses))
	for i, n := range nurses {
		sanitized[i] = n.Sanitize()
	}

	utils.Success(c, "Nurses fetched successfully", sanitized)
}

// GetDoctorPatients handles fetching the patients who have appointments
// with the requesting doctor.
func (h *UserHandler) GetDoctorPatients(c *gin.Context) {
	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var patients []models.User
	err := h.DB.
		Distinct("users.*").
		Joins("JOIN appointments ON appointments.patient_id = users.id").
		Where("appointments.doctor_id = ?", doctorID).
		Order("users.last_name asc").
		Find(&patients).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(patients))
	for i, p := range patients {
		sanitized[i] = p.Sanitize()
	}

	utils.Success(c, "Patients fetched successfully", sanitized)
}

package scheduling

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler-server/internal/models"

	"gorm.io/gorm"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTx runs fn inside a database transaction. Nested calls reuse the
// surrounding transaction because the inner store wraps the tx handle.
func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// -- Users --

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("last_name asc, first_name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// -- Availability slots --

func (s *GormStore) GetSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, models.DateOnly(date), timeOfDay).
		First(&slot).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &slot, nil
}

func (s *GormStore) ListSlotsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, models.DateOnly(from), models.DateOnly(to)).
		Order("date asc, time asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *GormStore) UpsertSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string, isAvailable bool) error {
	var slot models.AvailabilitySlot
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, models.DateOnly(date), timeOfDay).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slot = models.AvailabilitySlot{
			DoctorID:    doctorID,
			Date:        models.DateOnly(date),
			Time:        timeOfDay,
			IsAvailable: isAvailable,
		}
		return s.db.WithContext(ctx).Create(&slot).Error
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&slot).Update("is_available", isAvailable).Error
}

func (s *GormStore) EnsureSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	var slot models.AvailabilitySlot
	return s.db.WithContext(ctx).
		Where(models.AvailabilitySlot{DoctorID: doctorID, Date: models.DateOnly(date), Time: timeOfDay}).
		Attrs(models.AvailabilitySlot{IsAvailable: true}).
		FirstOrCreate(&slot).Error
}

// ReserveSlot is a single conditional UPDATE: the WHERE clause re-checks
// is_available so the read and the flip happen as one statement. Zero
// affected rows means another booker got there first (or the slot never
// existed), which surfaces as ErrSlotUnavailable.
func (s *GormStore) ReserveSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	res := s.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("doctor_id = ? AND date = ? AND time = ? AND is_available = ?", doctorID, models.DateOnly(date), timeOfDay, true).
		Update("is_available", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (s *GormStore) ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	return s.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, models.DateOnly(date), timeOfDay).
		Update("is_available", true).Error
}

// -- Appointments --

func (s *GormStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &appt, nil
}

func (s *GormStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	a.Date = models.DateOnly(a.Date)
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *GormStore) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	return s.db.WithContext(ctx).Save(a).Error
}

func (s *GormStore) ListDoctorAppointments(ctx context.Context, doctorID string, date *time.Time) ([]models.Appointment, error) {
	query := s.db.WithContext(ctx).Where("doctor_id = ?", doctorID)
	if date != nil {
		query = query.Where("date = ?", models.DateOnly(*date))
	}
	var appts []models.Appointment
	if err := query.Order("date asc, time asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *GormStore) ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, models.DateOnly(from), models.DateOnly(to)).
		Order("date asc, time asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *GormStore) ListDoctorAppointmentsAfter(ctx context.Context, doctorID string, after time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date > ?", doctorID, models.DateOnly(after)).
		Order("date asc, time asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *GormStore) ListPatientAppointments(ctx context.Context, patientID string, from *time.Time) ([]models.Appointment, error) {
	query := s.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if from != nil {
		query = query.Where("date >= ?", models.DateOnly(*from))
	}
	var appts []models.Appointment
	if err := query.Order("date asc, time asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// -- Doctor schedules --

func (s *GormStore) UpsertSchedule(ctx context.Context, doctorID string, date time.Time, startTime, endTime string, isAvailable bool) error {
	var schedule models.DoctorSchedule
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, models.DateOnly(date)).
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		schedule = models.DoctorSchedule{
			DoctorID:    doctorID,
			Date:        models.DateOnly(date),
			StartTime:   startTime,
			EndTime:     endTime,
			IsAvailable: isAvailable,
		}
		return s.db.WithContext(ctx).Create(&schedule).Error
	}
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&schedule).Updates(map[string]interface{}{
		"start_time":   startTime,
		"end_time":     endTime,
		"is_available": isAvailable,
	}).Error
}

func (s *GormStore) ListSchedulesInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DoctorSchedule, error) {
	var schedules []models.DoctorSchedule
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, models.DateOnly(from), models.DateOnly(to)).
		Order("date asc").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// -- Notifications --

func (s *GormStore) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&notifications).Error
}

func (s *GormStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var notifications []models.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *GormStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *GormStore) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// -- Medical records --

func (s *GormStore) CreateMedicalRecord(ctx context.Context, r *models.MedicalRecord) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *GormStore) ListPatientMedicalRecords(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"clinic-scheduler-server/internal/models"
)

// mockData is the map-backed state shared by mockStore and its
// transaction view.
type mockData struct {
	users         map[string]*models.User
	slots         map[string]*models.AvailabilitySlot
	appointments  map[string]*models.Appointment
	schedules     map[string]*models.DoctorSchedule
	notifications []models.Notification
	records       []models.MedicalRecord
	nextID        int

	failCreateNotifications error
	failCreateAppointment   error
}

func newMockData() *mockData {
	return &mockData{
		users:        make(map[string]*models.User),
		slots:        make(map[string]*models.AvailabilitySlot),
		appointments: make(map[string]*models.Appointment),
		schedules:    make(map[string]*models.DoctorSchedule),
	}
}

func (d *mockData) clone() *mockData {
	c := newMockData()
	for k, v := range d.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range d.slots {
		s := *v
		c.slots[k] = &s
	}
	for k, v := range d.appointments {
		a := *v
		c.appointments[k] = &a
	}
	for k, v := range d.schedules {
		s := *v
		c.schedules[k] = &s
	}
	c.notifications = append([]models.Notification(nil), d.notifications...)
	c.records = append([]models.MedicalRecord(nil), d.records...)
	c.nextID = d.nextID
	c.failCreateNotifications = d.failCreateNotifications
	c.failCreateAppointment = d.failCreateAppointment
	return c
}

func (d *mockData) genID() string {
	d.nextID++
	return fmt.Sprintf("id-%d", d.nextID)
}

func mockDateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func mockSlotKey(doctorID string, date time.Time, timeOfDay string) string {
	return doctorID + "|" + mockDateKey(date) + "|" + timeOfDay
}

// mockStore is an in-memory Store. Public methods serialize on a mutex;
// InTx snapshots the data and restores it when fn fails, mirroring a
// database rollback.
type mockStore struct {
	mu   sync.Mutex
	data *mockData
}

func newMockStore() *mockStore {
	return &mockStore{data: newMockData()}
}

func (m *mockStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.data.clone()
	if err := fn(&mockTx{data: m.data}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

// Helpers for assertions.

func (m *mockStore) addUser(u *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = m.data.genID()
	}
	m.data.users[u.ID] = u
	return u
}

func (m *mockStore) addSlot(doctorID string, date time.Time, timeOfDay string, isAvailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := mockSlotKey(doctorID, date, timeOfDay)
	m.data.slots[key] = &models.AvailabilitySlot{
		BaseModel:   models.BaseModel{ID: m.data.genID()},
		DoctorID:    doctorID,
		Date:        models.DateOnly(date),
		Time:        timeOfDay,
		IsAvailable: isAvailable,
	}
}

func (m *mockStore) slotAvailable(doctorID string, date time.Time, timeOfDay string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.data.slots[mockSlotKey(doctorID, date, timeOfDay)]
	return ok && slot.IsAvailable
}

func (m *mockStore) notificationsFor(userID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.data.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockStore) notificationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.notifications)
}

func (m *mockStore) appointmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.appointments)
}

func (m *mockStore) scheduleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.schedules)
}

func (m *mockStore) slotCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.slots)
}

// Store interface: delegate to the unsynchronized tx view under the lock.

func (m *mockStore) tx() *mockTx { return &mockTx{data: m.data} }

func (m *mockStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetUser(ctx, id)
}

func (m *mockStore) GetUserByRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetUserByRole(ctx, id, role)
}

func (m *mockStore) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListUsersByRole(ctx, role)
}

func (m *mockStore) GetSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (*models.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetSlot(ctx, doctorID, date, timeOfDay)
}

func (m *mockStore) ListSlotsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListSlotsInRange(ctx, doctorID, from, to)
}

func (m *mockStore) UpsertSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string, isAvailable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().UpsertSlot(ctx, doctorID, date, timeOfDay, isAvailable)
}

func (m *mockStore) EnsureSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().EnsureSlot(ctx, doctorID, date, timeOfDay)
}

func (m *mockStore) ReserveSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ReserveSlot(ctx, doctorID, date, timeOfDay)
}

func (m *mockStore) ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ReleaseSlot(ctx, doctorID, date, timeOfDay)
}

func (m *mockStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().GetAppointment(ctx, id)
}

func (m *mockStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().CreateAppointment(ctx, a)
}

func (m *mockStore) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().SaveAppointment(ctx, a)
}

func (m *mockStore) ListDoctorAppointments(ctx context.Context, doctorID string, date *time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListDoctorAppointments(ctx, doctorID, date)
}

func (m *mockStore) ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListDoctorAppointmentsInRange(ctx, doctorID, from, to)
}

func (m *mockStore) ListDoctorAppointmentsAfter(ctx context.Context, doctorID string, after time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListDoctorAppointmentsAfter(ctx, doctorID, after)
}

func (m *mockStore) ListPatientAppointments(ctx context.Context, patientID string, from *time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListPatientAppointments(ctx, patientID, from)
}

func (m *mockStore) UpsertSchedule(ctx context.Context, doctorID string, date time.Time, startTime, endTime string, isAvailable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().UpsertSchedule(ctx, doctorID, date, startTime, endTime, isAvailable)
}

func (m *mockStore) ListSchedulesInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DoctorSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListSchedulesInRange(ctx, doctorID, from, to)
}

func (m *mockStore) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().CreateNotifications(ctx, notifications)
}

func (m *mockStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListNotifications(ctx, userID, unreadOnly, limit)
}

func (m *mockStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().MarkNotificationRead(ctx, id, userID)
}

func (m *mockStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().MarkAllNotificationsRead(ctx, userID)
}

func (m *mockStore) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().CountUnreadNotifications(ctx, userID)
}

func (m *mockStore) CreateMedicalRecord(ctx context.Context, r *models.MedicalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().CreateMedicalRecord(ctx, r)
}

func (m *mockStore) ListPatientMedicalRecords(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx().ListPatientMedicalRecords(ctx, patientID)
}

// mockTx is the unsynchronized view handed to InTx callbacks. Nested
// InTx calls join the surrounding transaction.
type mockTx struct {
	data *mockData
}

func (t *mockTx) InTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t *mockTx) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, ok := t.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (t *mockTx) GetUserByRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	u, ok := t.data.users[id]
	if !ok || u.Role != role {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (t *mockTx) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range t.data.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *mockTx) GetSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (*models.AvailabilitySlot, error) {
	slot, ok := t.data.slots[mockSlotKey(doctorID, date, timeOfDay)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *slot
	return &copied, nil
}

func (t *mockTx) ListSlotsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	fromKey := mockDateKey(from)
	toKey := mockDateKey(to)
	var out []models.AvailabilitySlot
	for _, slot := range t.data.slots {
		if slot.DoctorID != doctorID {
			continue
		}
		dateKey := mockDateKey(slot.Date)
		if dateKey < fromKey || dateKey > toKey {
			continue
		}
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (t *mockTx) UpsertSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string, isAvailable bool) error {
	key := mockSlotKey(doctorID, date, timeOfDay)
	if slot, ok := t.data.slots[key]; ok {
		slot.IsAvailable = isAvailable
		return nil
	}
	t.data.slots[key] = &models.AvailabilitySlot{
		BaseModel:   models.BaseModel{ID: t.data.genID()},
		DoctorID:    doctorID,
		Date:        models.DateOnly(date),
		Time:        timeOfDay,
		IsAvailable: isAvailable,
	}
	return nil
}

func (t *mockTx) EnsureSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	key := mockSlotKey(doctorID, date, timeOfDay)
	if _, ok := t.data.slots[key]; ok {
		return nil
	}
	t.data.slots[key] = &models.AvailabilitySlot{
		BaseModel:   models.BaseModel{ID: t.data.genID()},
		DoctorID:    doctorID,
		Date:        models.DateOnly(date),
		Time:        timeOfDay,
		IsAvailable: true,
	}
	return nil
}

func (t *mockTx) ReserveSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	slot, ok := t.data.slots[mockSlotKey(doctorID, date, timeOfDay)]
	if !ok || !slot.IsAvailable {
		return ErrSlotUnavailable
	}
	slot.IsAvailable = false
	return nil
}

func (t *mockTx) ReleaseSlot(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	slot, ok := t.data.slots[mockSlotKey(doctorID, date, timeOfDay)]
	if !ok {
		return nil
	}
	slot.IsAvailable = true
	return nil
}

func (t *mockTx) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok := t.data.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (t *mockTx) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if t.data.failCreateAppointment != nil {
		return t.data.failCreateAppointment
	}
	if a.ID == "" {
		a.ID = t.data.genID()
	}
	a.Date = models.DateOnly(a.Date)
	copied := *a
	t.data.appointments[a.ID] = &copied
	return nil
}

func (t *mockTx) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	copied := *a
	t.data.appointments[a.ID] = &copied
	return nil
}

func (t *mockTx) listAppointments(match func(*models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, a := range t.data.appointments {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (t *mockTx) ListDoctorAppointments(ctx context.Context, doctorID string, date *time.Time) ([]models.Appointment, error) {
	return t.listAppointments(func(a *models.Appointment) bool {
		if a.DoctorID != doctorID {
			return false
		}
		return date == nil || mockDateKey(a.Date) == mockDateKey(*date)
	}), nil
}

func (t *mockTx) ListDoctorAppointmentsInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.Appointment, error) {
	fromKey, toKey := mockDateKey(from), mockDateKey(to)
	return t.listAppointments(func(a *models.Appointment) bool {
		key := mockDateKey(a.Date)
		return a.DoctorID == doctorID && key >= fromKey && key <= toKey
	}), nil
}

func (t *mockTx) ListDoctorAppointmentsAfter(ctx context.Context, doctorID string, after time.Time) ([]models.Appointment, error) {
	afterKey := mockDateKey(after)
	return t.listAppointments(func(a *models.Appointment) bool {
		return a.DoctorID == doctorID && mockDateKey(a.Date) > afterKey
	}), nil
}

func (t *mockTx) ListPatientAppointments(ctx context.Context, patientID string, from *time.Time) ([]models.Appointment, error) {
	return t.listAppointments(func(a *models.Appointment) bool {
		if a.PatientID != patientID {
			return false
		}
		return from == nil || mockDateKey(a.Date) >= mockDateKey(*from)
	}), nil
}

func (t *mockTx) UpsertSchedule(ctx context.Context, doctorID string, date time.Time, startTime, endTime string, isAvailable bool) error {
	key := doctorID + "|" + mockDateKey(date)
	if s, ok := t.data.schedules[key]; ok {
		s.StartTime = startTime
		s.EndTime = endTime
		s.IsAvailable = isAvailable
		return nil
	}
	t.data.schedules[key] = &models.DoctorSchedule{
		BaseModel:   models.BaseModel{ID: t.data.genID()},
		DoctorID:    doctorID,
		Date:        models.DateOnly(date),
		StartTime:   startTime,
		EndTime:     endTime,
		IsAvailable: isAvailable,
	}
	return nil
}

func (t *mockTx) ListSchedulesInRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DoctorSchedule, error) {
	fromKey, toKey := mockDateKey(from), mockDateKey(to)
	var out []models.DoctorSchedule
	for _, s := range t.data.schedules {
		key := mockDateKey(s.Date)
		if s.DoctorID == doctorID && key >= fromKey && key <= toKey {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (t *mockTx) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if t.data.failCreateNotifications != nil {
		return t.data.failCreateNotifications
	}
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = t.data.genID()
		}
		t.data.notifications = append(t.data.notifications, n)
	}
	return nil
}

func (t *mockTx) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	var out []models.Notification
	// Newest first: walk insertion order backwards.
	for i := len(t.data.notifications) - 1; i >= 0; i-- {
		n := t.data.notifications[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (t *mockTx) MarkNotificationRead(ctx context.Context, id, userID string) error {
	for i := range t.data.notifications {
		n := &t.data.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (t *mockTx) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	for i := range t.data.notifications {
		if t.data.notifications[i].UserID == userID {
			t.data.notifications[i].IsRead = true
		}
	}
	return nil
}

func (t *mockTx) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range t.data.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (t *mockTx) CreateMedicalRecord(ctx context.Context, r *models.MedicalRecord) error {
	if r.ID == "" {
		r.ID = t.data.genID()
	}
	t.data.records = append(t.data.records, *r)
	return nil
}

func (t *mockTx) ListPatientMedicalRecords(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	for i := len(t.data.records) - 1; i >= 0; i-- {
		if t.data.records[i].PatientID == patientID {
			out = append(out, t.data.records[i])
		}
	}
	return out, nil
}

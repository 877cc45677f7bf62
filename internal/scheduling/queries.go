package scheduling

import (
	"context"
	"time"

	"clinic-scheduler-server/internal/models"
)

// Queries is the read side used by dashboards. Results are ordered by
// date then time ascending unless noted.
type Queries struct {
	store Store
	now   func() time.Time
}

// NewQueries creates a new Queries facade.
func NewQueries(store Store) *Queries {
	return &Queries{store: store, now: time.Now}
}

// TodaysAppointments returns a doctor's appointments for the current date.
func (q *Queries) TodaysAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	today := models.DateOnly(q.now())
	return q.store.ListDoctorAppointments(ctx, doctorID, &today)
}

// UpcomingAppointments returns a doctor's appointments strictly after today.
func (q *Queries) UpcomingAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return q.store.ListDoctorAppointmentsAfter(ctx, doctorID, q.now())
}

// PatientAppointments returns a patient's appointments; includePast
// false restricts to today and later.
func (q *Queries) PatientAppointments(ctx context.Context, patientID string, includePast bool) ([]models.Appointment, error) {
	if includePast {
		return q.store.ListPatientAppointments(ctx, patientID, nil)
	}
	today := models.DateOnly(q.now())
	return q.store.ListPatientAppointments(ctx, patientID, &today)
}

// DoctorAppointments returns a doctor's appointments, optionally for a
// single date.
func (q *Queries) DoctorAppointments(ctx context.Context, doctorID string, date *time.Time) ([]models.Appointment, error) {
	return q.store.ListDoctorAppointments(ctx, doctorID, date)
}

// SlotView is one entry of the weekly availability grid: either an open
// slot or a booked one tagged with the patient's name.
type SlotView struct {
	Date        string `json:"date"` // "2006-01-02"
	Time        string `json:"time"` // "HH:MM"
	IsAvailable bool   `json:"isAvailable"`
	IsBooked    bool   `json:"isBooked"`
	PatientName string `json:"patientName,omitempty"`
}

// WeeklyAvailability merges a doctor's slots and scheduled appointments
// over [today, today+7] into a per-slot view.
func (q *Queries) WeeklyAvailability(ctx context.Context, doctorID string) ([]SlotView, error) {
	today := models.DateOnly(q.now())
	end := today.AddDate(0, 0, 7)

	slots, err := q.store.ListSlotsInRange(ctx, doctorID, today, end)
	if err != nil {
		return nil, err
	}
	appts, err := q.store.ListDoctorAppointmentsInRange(ctx, doctorID, today, end)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]string, len(appts))
	for _, appt := range appts {
		if appt.Status != models.StatusScheduled {
			continue
		}
		patient, err := q.store.GetUser(ctx, appt.PatientID)
		if err != nil {
			return nil, err
		}
		booked[slotKey(appt.Date, appt.Time)] = patient.FullName()
	}

	views := make([]SlotView, 0, len(slots))
	for _, slot := range slots {
		name, isBooked := booked[slotKey(slot.Date, slot.Time)]
		views = append(views, SlotView{
			Date:        slot.Date.Format(dateLayout),
			Time:        slot.Time,
			IsAvailable: slot.IsAvailable,
			IsBooked:    isBooked,
			PatientName: name,
		})
	}
	return views, nil
}

func slotKey(date time.Time, timeOfDay string) string {
	return date.Format(dateLayout) + "|" + timeOfDay
}

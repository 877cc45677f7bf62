package scheduling

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler-server/internal/models"
)

// DefaultDurationMinutes is the slot granularity for standard visits.
const DefaultDurationMinutes = 30

// Lifecycle is the appointment state machine. Every mutating operation
// runs as an explicit Actor and commits its slot flip, appointment write
// and notification fan-out in one transaction, so slot and appointment
// state can never diverge observably.
type Lifecycle struct {
	store Store
	now   func() time.Time
}

// NewLifecycle creates a new Lifecycle manager.
func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{store: store, now: time.Now}
}

// BookRequest carries the parameters of a booking.
type BookRequest struct {
	PatientID string
	DoctorID  string
	NurseID   *string
	Date      time.Time
	Time      string // "HH:MM"
	Reason    string
}

// Book reserves an open slot and creates a scheduled appointment for it.
// A patient can only book for themself; nurses may book on a patient's
// behalf. Returns ErrSlotUnavailable when the slot is closed or was
// never seeded, leaving nothing mutated.
func (l *Lifecycle) Book(ctx context.Context, actor Actor, req BookRequest) (*models.Appointment, error) {
	if actor.Role == models.RolePatient && actor.ID != req.PatientID {
		return nil, ErrUnauthorized
	}

	doctor, err := l.store.GetUserByRole(ctx, req.DoctorID, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	patient, err := l.store.GetUserByRole(ctx, req.PatientID, models.RolePatient)
	if err != nil {
		return nil, err
	}
	names := Participants{Doctor: doctor.FullName(), Patient: patient.FullName()}
	if req.NurseID != nil {
		nurse, err := l.store.GetUserByRole(ctx, *req.NurseID, models.RoleNurse)
		if err != nil {
			return nil, err
		}
		names.Nurse = nurse.FullName()
	}

	var appt *models.Appointment
	err = l.store.InTx(ctx, func(tx Store) error {
		if err := tx.ReserveSlot(ctx, req.DoctorID, req.Date, req.Time); err != nil {
			return err
		}
		a := &models.Appointment{
			PatientID:       req.PatientID,
			DoctorID:        req.DoctorID,
			NurseID:         req.NurseID,
			Date:            models.DateOnly(req.Date),
			Time:            req.Time,
			DurationMinutes: DefaultDurationMinutes,
			Status:          models.StatusScheduled,
			Reason:          req.Reason,
		}
		if err := tx.CreateAppointment(ctx, a); err != nil {
			return err
		}
		notifications := stampCreated(FanOut(a, names, EventCreated), l.now())
		if err := tx.CreateNotifications(ctx, notifications); err != nil {
			return err
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// RescheduleRequest carries the target slot of a reschedule.
type RescheduleRequest struct {
	DoctorID string
	Date     time.Time
	Time     string
	Reason   string
}

// Reschedule moves a scheduled appointment to a new slot, possibly with
// a different doctor. Only the owning patient may invoke it. The new
// slot is reserved before the old appointment is touched: if the new
// booking cannot happen the transaction aborts and the old appointment
// and its slot stay exactly as they were.
func (l *Lifecycle) Reschedule(ctx context.Context, actor Actor, appointmentID string, req RescheduleRequest) (*models.Appointment, error) {
	old, err := l.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RolePatient || actor.ID != old.PatientID {
		return nil, ErrUnauthorized
	}
	if old.Status != models.StatusScheduled {
		return nil, ErrInvalidTransition
	}

	doctor, err := l.store.GetUserByRole(ctx, req.DoctorID, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	patient, err := l.store.GetUser(ctx, old.PatientID)
	if err != nil {
		return nil, err
	}
	names := Participants{Doctor: doctor.FullName(), Patient: patient.FullName()}
	if old.NurseID != nil {
		nurse, err := l.store.GetUser(ctx, *old.NurseID)
		if err != nil {
			return nil, err
		}
		names.Nurse = nurse.FullName()
	}

	reason := req.Reason
	if reason == "" {
		reason = old.Reason
	}

	var replacement *models.Appointment
	err = l.store.InTx(ctx, func(tx Store) error {
		if err := tx.ReserveSlot(ctx, req.DoctorID, req.Date, req.Time); err != nil {
			return err
		}
		old.Status = models.StatusCancelled
		if err := tx.SaveAppointment(ctx, old); err != nil {
			return err
		}
		if err := tx.ReleaseSlot(ctx, old.DoctorID, old.Date, old.Time); err != nil {
			return err
		}
		a := &models.Appointment{
			PatientID:       old.PatientID,
			DoctorID:        req.DoctorID,
			NurseID:         old.NurseID,
			Date:            models.DateOnly(req.Date),
			Time:            req.Time,
			DurationMinutes: old.DurationMinutes,
			Status:          models.StatusScheduled,
			Reason:          reason,
		}
		if err := tx.CreateAppointment(ctx, a); err != nil {
			return err
		}
		notifications := stampCreated(FanOut(a, names, EventRescheduled), l.now())
		if err := tx.CreateNotifications(ctx, notifications); err != nil {
			return err
		}
		replacement = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

// Cancel marks a scheduled appointment cancelled and reopens its slot.
// Allowed for the owning patient, the appointment's doctor, and nurses.
// Doctor-initiated cancellation through UpdateByDoctor converges on this
// same path.
func (l *Lifecycle) Cancel(ctx context.Context, actor Actor, appointmentID string) error {
	appt, err := l.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !canCancel(actor, appt) {
		return ErrUnauthorized
	}
	return l.cancel(ctx, appt)
}

func canCancel(actor Actor, appt *models.Appointment) bool {
	switch actor.Role {
	case models.RolePatient:
		return actor.ID == appt.PatientID
	case models.RoleDoctor:
		return actor.ID == appt.DoctorID
	case models.RoleNurse:
		return true
	}
	return false
}

// cancel runs the single cancellation code path: invariant check, slot
// reopen, status flip and fan-out, all in one transaction.
func (l *Lifecycle) cancel(ctx context.Context, appt *models.Appointment) error {
	if appt.Status != models.StatusScheduled {
		return ErrInvalidTransition
	}
	names, err := l.participantNames(ctx, appt)
	if err != nil {
		return err
	}
	return l.store.InTx(ctx, func(tx Store) error {
		slot, err := tx.GetSlot(ctx, appt.DoctorID, appt.Date, appt.Time)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		// A scheduled appointment whose slot is already open means the
		// coupled pair diverged; abort instead of compounding it.
		if slot != nil && slot.IsAvailable {
			return ErrInvariantViolation
		}
		if err := tx.ReleaseSlot(ctx, appt.DoctorID, appt.Date, appt.Time); err != nil {
			return err
		}
		appt.Status = models.StatusCancelled
		if err := tx.SaveAppointment(ctx, appt); err != nil {
			return err
		}
		notifications := stampCreated(FanOut(appt, names, EventCancelled), l.now())
		return tx.CreateNotifications(ctx, notifications)
	})
}

// CheckIn marks the patient as arrived. Nurse-invoked; slot state is
// untouched and only the doctor is notified. Checking in twice is a
// no-op. A nurse checking in an unassigned appointment becomes its
// assigned nurse.
func (l *Lifecycle) CheckIn(ctx context.Context, actor Actor, appointmentID string) error {
	if actor.Role != models.RoleNurse {
		return ErrUnauthorized
	}
	appt, err := l.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.Status != models.StatusScheduled {
		return ErrInvalidTransition
	}
	if appt.CheckedIn {
		return nil
	}
	names, err := l.participantNames(ctx, appt)
	if err != nil {
		return err
	}
	return l.store.InTx(ctx, func(tx Store) error {
		now := l.now()
		appt.CheckedIn = true
		appt.CheckedInAt = &now
		if appt.NurseID == nil {
			nurseID := actor.ID
			appt.NurseID = &nurseID
		}
		if err := tx.SaveAppointment(ctx, appt); err != nil {
			return err
		}
		notifications := stampCreated(FanOut(appt, names, EventCheckedIn), now)
		return tx.CreateNotifications(ctx, notifications)
	})
}

// UpdateByDoctor lets the appointment's doctor write visit notes and
// close out the appointment. A transition to cancelled goes through the
// same path as patient-initiated cancellation, slot reopen and fan-out
// included.
func (l *Lifecycle) UpdateByDoctor(ctx context.Context, actor Actor, appointmentID, notes string, status models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := l.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleDoctor || actor.ID != appt.DoctorID {
		return nil, ErrUnauthorized
	}

	if notes != "" {
		appt.Notes = notes
	}

	switch status {
	case "", appt.Status:
		if err := l.store.SaveAppointment(ctx, appt); err != nil {
			return nil, err
		}
	case models.StatusCompleted:
		if appt.Status != models.StatusScheduled {
			return nil, ErrInvalidTransition
		}
		appt.Status = models.StatusCompleted
		if err := l.store.SaveAppointment(ctx, appt); err != nil {
			return nil, err
		}
	case models.StatusCancelled:
		if err := l.cancel(ctx, appt); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidTransition
	}
	return appt, nil
}

func (l *Lifecycle) participantNames(ctx context.Context, appt *models.Appointment) (Participants, error) {
	doctor, err := l.store.GetUser(ctx, appt.DoctorID)
	if err != nil {
		return Participants{}, err
	}
	patient, err := l.store.GetUser(ctx, appt.PatientID)
	if err != nil {
		return Participants{}, err
	}
	names := Participants{Doctor: doctor.FullName(), Patient: patient.FullName()}
	if appt.NurseID != nil {
		nurse, err := l.store.GetUser(ctx, *appt.NurseID)
		if err != nil {
			return Participants{}, err
		}
		names.Nurse = nurse.FullName()
	}
	return names, nil
}

package scheduling

import (
	"fmt"
	"time"

	"clinic-scheduler-server/internal/models"
)

// Event identifies the lifecycle transition a notification fan-out is
// derived from.
type Event string

const (
	EventCreated              Event = "created"
	EventCancelled            Event = "cancelled"
	EventRescheduled          Event = "rescheduled"
	EventCheckedIn            Event = "checked_in"
	EventMedicalRecordUpdated Event = "medical_record_updated"
	EventDirectMessage        Event = "direct_message"
)

// Participants carries the display names the message templates embed.
// Nurse is empty when no nurse is assigned to the appointment.
type Participants struct {
	Doctor  string
	Patient string
	Nurse   string
}

const dateLayout = "2006-01-02"

// FanOut derives the set of notification records for one appointment
// lifecycle event. It is a pure function: it never touches storage, and
// every returned record is unread. Recipients per event:
//
//	Created, Cancelled, Rescheduled: doctor, patient, nurse if assigned
//	CheckedIn:                       doctor only
func FanOut(appt *models.Appointment, names Participants, event Event) []models.Notification {
	date := appt.Date.Format(dateLayout)
	apptID := appt.ID

	var out []models.Notification
	add := func(userID, message string) {
		id := apptID
		out = append(out, models.Notification{
			UserID:        userID,
			AppointmentID: &id,
			Message:       message,
		})
	}

	switch event {
	case EventCreated:
		add(appt.DoctorID, fmt.Sprintf("New appointment with %s on %s at %s", names.Patient, date, appt.Time))
		add(appt.PatientID, fmt.Sprintf("Appointment confirmed with Dr. %s on %s at %s", names.Doctor, date, appt.Time))
		if appt.NurseID != nil {
			add(*appt.NurseID, fmt.Sprintf("You've been assigned to assist with %s's appointment with Dr. %s on %s at %s",
				names.Patient, names.Doctor, date, appt.Time))
		}
	case EventCancelled:
		add(appt.DoctorID, fmt.Sprintf("Appointment with %s on %s at %s has been cancelled", names.Patient, date, appt.Time))
		add(appt.PatientID, fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been cancelled", names.Doctor, date, appt.Time))
		if appt.NurseID != nil {
			add(*appt.NurseID, fmt.Sprintf("The appointment with %s and Dr. %s on %s at %s has been cancelled",
				names.Patient, names.Doctor, date, appt.Time))
		}
	case EventRescheduled:
		add(appt.DoctorID, fmt.Sprintf("Appointment with %s has been moved to %s at %s", names.Patient, date, appt.Time))
		add(appt.PatientID, fmt.Sprintf("Your appointment with Dr. %s has been moved to %s at %s", names.Doctor, date, appt.Time))
		if appt.NurseID != nil {
			add(*appt.NurseID, fmt.Sprintf("The appointment with %s and Dr. %s has been moved to %s at %s",
				names.Patient, names.Doctor, date, appt.Time))
		}
	case EventCheckedIn:
		add(appt.DoctorID, fmt.Sprintf("Patient %s has checked in for their appointment at %s.", names.Patient, appt.Time))
	}

	return out
}

// MedicalRecordNotification notifies the patient that a doctor updated
// their records. It is not tied to an appointment.
func MedicalRecordNotification(patientID, doctorName string) models.Notification {
	return models.Notification{
		UserID:  patientID,
		Message: fmt.Sprintf("Dr. %s has updated your medical records with a new diagnosis.", doctorName),
	}
}

// DirectMessageNotification builds a nurse-composed message to a single
// explicit recipient.
func DirectMessageNotification(recipientID, senderName, message string) models.Notification {
	return models.Notification{
		UserID:  recipientID,
		Message: fmt.Sprintf("From %s: %s", senderName, message),
	}
}

// stampCreated fills CreatedAt for stores that do not set it themselves;
// gorm overwrites it on insert.
func stampCreated(notifications []models.Notification, now time.Time) []models.Notification {
	for i := range notifications {
		if notifications[i].CreatedAt.IsZero() {
			notifications[i].CreatedAt = now
		}
	}
	return notifications
}

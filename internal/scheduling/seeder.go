package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinic-scheduler-server/internal/models"
)

// Default working window seeded for new doctors.
const (
	DefaultWindowDays   = 30
	DefaultWorkdayStart = "09:00"
	DefaultWorkdayEnd   = "17:00"
	slotIntervalMinutes = 30
	timeOfDayLayout     = "15:04"
)

// Seeder generates the default rolling schedule for doctors: one
// DoctorSchedule record per weekday in the window plus the fine-grained
// half-hour AvailabilitySlot records that bookings consume.
type Seeder struct {
	store Store
	now   func() time.Time
}

// NewSeeder creates a new Seeder.
func NewSeeder(store Store) *Seeder {
	return &Seeder{store: store, now: time.Now}
}

// SeedDefaultSchedule seeds weekdays in [today, today+windowDays] with
// the 09:00-17:00 window. It is idempotent: schedules upsert by
// (doctor, date) and slot records are only created when absent, so
// re-running never duplicates rows or reopens booked slots.
func (s *Seeder) SeedDefaultSchedule(ctx context.Context, doctorID string, windowDays int) error {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	start := models.DateOnly(s.now())

	return s.store.InTx(ctx, func(tx Store) error {
		for day := 0; day <= windowDays; day++ {
			date := start.AddDate(0, 0, day)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			if err := tx.UpsertSchedule(ctx, doctorID, date, DefaultWorkdayStart, DefaultWorkdayEnd, true); err != nil {
				return fmt.Errorf("seed schedule for %s: %w", date.Format(dateLayout), err)
			}
			for _, timeOfDay := range WorkdaySlotTimes(DefaultWorkdayStart, DefaultWorkdayEnd) {
				if err := tx.EnsureSlot(ctx, doctorID, date, timeOfDay); err != nil {
					return fmt.Errorf("seed slot %s %s: %w", date.Format(dateLayout), timeOfDay, err)
				}
			}
		}
		return nil
	})
}

// RefreshAllDoctors re-seeds the rolling window for every doctor. Run
// nightly by the cron job so the bookable horizon never shrinks as days
// pass. Idempotency of SeedDefaultSchedule makes this safe.
func (s *Seeder) RefreshAllDoctors(ctx context.Context, windowDays int) error {
	doctors, err := s.store.ListUsersByRole(ctx, models.RoleDoctor)
	if err != nil {
		return fmt.Errorf("list doctors: %w", err)
	}
	for _, doctor := range doctors {
		if err := s.SeedDefaultSchedule(ctx, doctor.ID, windowDays); err != nil {
			log.Printf("schedule refresh failed for doctor %s: %v", doctor.ID, err)
		}
	}
	return nil
}

// WorkdaySlotTimes expands a working window into half-hour slot starts,
// end exclusive: 09:00-17:00 yields 09:00 through 16:30.
func WorkdaySlotTimes(start, end string) []string {
	from, err := time.Parse(timeOfDayLayout, start)
	if err != nil {
		return nil
	}
	to, err := time.Parse(timeOfDayLayout, end)
	if err != nil {
		return nil
	}
	var times []string
	for t := from; t.Before(to); t = t.Add(slotIntervalMinutes * time.Minute) {
		times = append(times, t.Format(timeOfDayLayout))
	}
	return times
}

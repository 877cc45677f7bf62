package scheduling

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler-server/internal/models"
)

// AvailabilityStore answers and mutates per-slot openness. Slot records
// are explicit: absence of a record is not "open", it is "nothing
// bookable".
type AvailabilityStore struct {
	store Store
}

// NewAvailabilityStore creates a new AvailabilityStore.
func NewAvailabilityStore(store Store) *AvailabilityStore {
	return &AvailabilityStore{store: store}
}

// IsOpen reports whether a slot record exists at the key and is open.
func (a *AvailabilityStore) IsOpen(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (bool, error) {
	slot, err := a.store.GetSlot(ctx, doctorID, date, timeOfDay)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return slot.IsAvailable, nil
}

// ListOpen returns the open slots for a doctor within an inclusive date
// range, ordered by date then time.
func (a *AvailabilityStore) ListOpen(ctx context.Context, doctorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	slots, err := a.store.ListSlotsInRange(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	open := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAvailable {
			open = append(open, slot)
		}
	}
	return open, nil
}

// OpenTimes returns just the "HH:MM" values of the open slots on one
// date, the shape the booking form consumes.
func (a *AvailabilityStore) OpenTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	slots, err := a.ListOpen(ctx, doctorID, date, date)
	if err != nil {
		return nil, err
	}
	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	return times, nil
}

// SetAvailability is the doctor-facing toggle: an idempotent upsert with
// no notification side effects.
func (a *AvailabilityStore) SetAvailability(ctx context.Context, doctorID string, date time.Time, timeOfDay string, isAvailable bool) error {
	return a.store.UpsertSlot(ctx, doctorID, date, timeOfDay, isAvailable)
}

// Close flips a slot closed. No-op when no record exists at the key.
func (a *AvailabilityStore) Close(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	err := a.store.ReserveSlot(ctx, doctorID, date, timeOfDay)
	if errors.Is(err, ErrSlotUnavailable) {
		return nil
	}
	return err
}

// Open flips a slot open. No-op when no record exists at the key.
func (a *AvailabilityStore) Open(ctx context.Context, doctorID string, date time.Time, timeOfDay string) error {
	return a.store.ReleaseSlot(ctx, doctorID, date, timeOfDay)
}

package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	Status *AppointmentStatus
	// Period is "upcoming" (day >= today) or "past" (day < today), relative
	// to the normalized day passed as Today.
	Period string
	Today  time.Time
	// Day restricts to a single normalized day (doctor listings).
	Day *time.Time
}

// CalendarRepository persists day calendars.
type CalendarRepository interface {
	// Upsert replaces the shift list for (doctor, day), creating the
	// calendar if absent.
	Upsert(ctx context.Context, cal *DayCalendar) error
	GetByDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (*DayCalendar, error)
	ListRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*DayCalendar, error)
	// Delete removes the calendar for (doctor, day) unless a non-terminal
	// appointment exists that day; the guard runs inside the DELETE
	// statement. Returns (deleted, blocked, err).
	Delete(ctx context.Context, doctorID uuid.UUID, day time.Time) (bool, bool, error)
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// BookedStartTimes returns the start times of non-terminal appointments
	// for (doctor, day).
	BookedStartTimes(ctx context.Context, doctorID uuid.UUID, day time.Time) (map[string]bool, error)
	// HasActiveOnDay reports whether any non-terminal appointment exists
	// for (doctor, day).
	HasActiveOnDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (bool, error)
	// UpdateStatus moves id from -> to in a single guarded UPDATE and
	// reports whether a row changed. Notes are written when non-nil.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, notes *string) (bool, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error)
}

// DoctorDirectory is the slice of the identity domain scheduling needs.
type DoctorDirectory interface {
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}

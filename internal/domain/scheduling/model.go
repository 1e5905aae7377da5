package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// SlotDurationMinutes is the fixed length of every bookable slot.
const SlotDurationMinutes = 30

// ShiftLabel names a working shift within a day.
type ShiftLabel string

const (
	ShiftMorning   ShiftLabel = "Morning"
	ShiftAfternoon ShiftLabel = "Afternoon"
	ShiftEvening   ShiftLabel = "Evening"
)

func (l ShiftLabel) Valid() bool {
	switch l {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}

// WorkShift is a labelled working window within a day. Times are wall-clock
// "HH:MM" strings; the shift is half-open [StartTime, EndTime).
type WorkShift struct {
	Label     ShiftLabel `json:"label" db:"label"`
	StartTime string     `json:"start_time" db:"start_time"`
	EndTime   string     `json:"end_time" db:"end_time"`
}

// Validate checks the label and that start < end. Overlap between shifts on
// the same day is permitted.
func (w WorkShift) Validate() error {
	if !w.Label.Valid() {
		return apperr.Validationf("invalid shift label: %s", w.Label)
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return apperr.Validationf("shift %s: invalid start_time %q", w.Label, w.StartTime)
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return apperr.Validationf("shift %s: invalid end_time %q", w.Label, w.EndTime)
	}
	if start >= end {
		return apperr.Validationf("shift %s: start_time %s must be before end_time %s", w.Label, w.StartTime, w.EndTime)
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeDay truncates a timestamp to midnight UTC. All day keys in the
// calendar and appointment tables are stored normalized.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayCalendar holds one doctor's shifts for one day. At most one calendar
// exists per (doctor, day); setting a day replaces the whole shift list.
type DayCalendar struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	DoctorID  uuid.UUID   `db:"doctor_id" json:"doctor_id"`
	Day       time.Time   `db:"day" json:"day"`
	Shifts    []WorkShift `db:"shifts" json:"shifts"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending            AppointmentStatus = "pending"
	StatusConfirmed          AppointmentStatus = "confirmed"
	StatusRejected           AppointmentStatus = "rejected"
	StatusCompleted          AppointmentStatus = "completed"
	StatusCancelledByDoctor  AppointmentStatus = "cancelled_by_doctor"
	StatusCancelledByPatient AppointmentStatus = "cancelled_by_patient"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted,
		StatusCancelledByDoctor, StatusCancelledByPatient:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
// Non-terminal appointments are the ones that hold a slot.
func (s AppointmentStatus) Terminal() bool {
	return s != StatusPending && s != StatusConfirmed
}

// doctorTransitions holds the statuses a doctor may move an appointment to
// from each non-terminal state.
var doctorTransitions = map[AppointmentStatus]map[AppointmentStatus]bool{
	StatusPending: {
		StatusConfirmed:         true,
		StatusRejected:          true,
		StatusCancelledByDoctor: true,
	},
	StatusConfirmed: {
		StatusCompleted:         true,
		StatusCancelledByDoctor: true,
	},
}

// CanTransition reports whether a doctor-side transition from -> to is legal.
func CanTransition(from, to AppointmentStatus) bool {
	return doctorTransitions[from][to]
}

// Appointment is one booked slot. Day is a normalized UTC midnight;
// StartTime/EndTime are "HH:MM" wall-clock strings within that day.
type Appointment struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	PatientID      uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Day            time.Time         `db:"day" json:"day"`
	Shift          ShiftLabel        `db:"shift" json:"shift"`
	StartTime      string            `db:"start_time" json:"start_time"`
	EndTime        string            `db:"end_time" json:"end_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
	ReasonForVisit string            `db:"reason_for_visit" json:"reason_for_visit"`
	DoctorNotes    *string           `db:"doctor_notes" json:"doctor_notes,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// StartsAt returns the appointment's absolute start instant in UTC.
func (a *Appointment) StartsAt() (time.Time, error) {
	minutes, err := ParseClock(a.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return a.Day.Add(time.Duration(minutes) * time.Minute), nil
}

// ShiftSlots groups the free slot start times of one shift.
type ShiftSlots struct {
	Shift ShiftLabel `json:"shift"`
	Slots []string   `json:"slots"`
}

// GenerateSlots walks each shift in 30-minute steps from its start, drops any
// trailing partial slot, and skips starts present in booked. Shifts with no
// free slots are omitted. Shift order is preserved.
func GenerateSlots(shifts []WorkShift, booked map[string]bool) []ShiftSlots {
	var out []ShiftSlots
	for _, shift := range shifts {
		start, err := ParseClock(shift.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(shift.EndTime)
		if err != nil {
			continue
		}

		slots := ShiftSlots{Shift: shift.Label}
		for m := start; m < end; m += SlotDurationMinutes {
			if m+SlotDurationMinutes > end {
				continue
			}
			t := FormatClock(m)
			if !booked[t] {
				slots.Slots = append(slots.Slots, t)
			}
		}
		if len(slots.Slots) > 0 {
			out = append(out, slots)
		}
	}
	return out
}

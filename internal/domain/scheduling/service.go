package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// CancelLeadTime is the minimum notice a patient must give before the
// appointment's start to cancel it.
const CancelLeadTime = 24 * time.Hour

type Service struct {
	calendars    CalendarRepository
	appointments AppointmentRepository
	doctors      DoctorDirectory
	now          func() time.Time
}

func NewService(calendars CalendarRepository, appointments AppointmentRepository, doctors DoctorDirectory) *Service {
	return &Service{
		calendars:    calendars,
		appointments: appointments,
		doctors:      doctors,
		now:          time.Now,
	}
}

// -- Calendar --

// SetDay replaces the doctor's shift list for a day, creating the calendar
// if absent.
func (s *Service) SetDay(ctx context.Context, doctorID uuid.UUID, day time.Time, shifts []WorkShift) (*DayCalendar, error) {
	if len(shifts) == 0 {
		return nil, apperr.Validationf("at least one shift is required")
	}
	for _, shift := range shifts {
		if err := shift.Validate(); err != nil {
			return nil, err
		}
	}

	cal := &DayCalendar{
		DoctorID: doctorID,
		Day:      NormalizeDay(day),
		Shifts:   shifts,
	}
	if err := s.calendars.Upsert(ctx, cal); err != nil {
		return nil, err
	}
	return cal, nil
}

// GetDay returns the doctor's calendar for a day. A day with no calendar
// comes back with an empty shift list, not an error.
func (s *Service) GetDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (*DayCalendar, error) {
	normalized := NormalizeDay(day)
	cal, err := s.calendars.GetByDoctorDay(ctx, doctorID, normalized)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return &DayCalendar{DoctorID: doctorID, Day: normalized, Shifts: []WorkShift{}}, nil
	}
	return cal, nil
}

// ListDays returns the doctor's calendars between from and to inclusive,
// ordered by day.
func (s *Service) ListDays(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*DayCalendar, error) {
	fromDay := NormalizeDay(from)
	toDay := NormalizeDay(to)
	if toDay.Before(fromDay) {
		return nil, apperr.Validationf("to must not be before from")
	}
	return s.calendars.ListRange(ctx, doctorID, fromDay, toDay)
}

// DeleteDay removes the doctor's calendar for a day. The delete fails with
// a conflict while any pending or confirmed appointment exists that day.
func (s *Service) DeleteDay(ctx context.Context, doctorID uuid.UUID, day time.Time) error {
	normalized := NormalizeDay(day)

	active, err := s.appointments.HasActiveOnDay(ctx, doctorID, normalized)
	if err != nil {
		return err
	}
	if active {
		return apperr.Conflictf("cannot delete calendar for %s: active appointments exist", normalized.Format("2006-01-02"))
	}

	deleted, blocked, err := s.calendars.Delete(ctx, doctorID, normalized)
	if err != nil {
		return err
	}
	if blocked {
		// A booking landed between the pre-check and the delete.
		return apperr.Conflictf("cannot delete calendar for %s: active appointments exist", normalized.Format("2006-01-02"))
	}
	if !deleted {
		return apperr.NotFoundf("no calendar for %s", normalized.Format("2006-01-02"))
	}
	return nil
}

// -- Slots --

// AvailableSlots returns the doctor's free slot starts for a day, grouped by
// shift. A day without a calendar yields an empty list.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]ShiftSlots, error) {
	exists, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("doctor not found")
	}

	normalized := NormalizeDay(day)
	cal, err := s.calendars.GetByDoctorDay(ctx, doctorID, normalized)
	if err != nil {
		return nil, err
	}
	if cal == nil || len(cal.Shifts) == 0 {
		return []ShiftSlots{}, nil
	}

	booked, err := s.appointments.BookedStartTimes(ctx, doctorID, normalized)
	if err != nil {
		return nil, err
	}
	slots := GenerateSlots(cal.Shifts, booked)
	if slots == nil {
		slots = []ShiftSlots{}
	}
	return slots, nil
}

// -- Booking --

type BookRequest struct {
	DoctorID       uuid.UUID  `json:"doctor_id"`
	Day            time.Time  `json:"day"`
	Shift          ShiftLabel `json:"shift"`
	StartTime      string     `json:"start_time"`
	ReasonForVisit string     `json:"reason_for_visit"`
}

// Book creates a pending appointment for the patient. Validation runs in a
// fixed order: doctor, calendar, shift, slot bounds, slot availability.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req BookRequest) (*Appointment, error) {
	if req.DoctorID == uuid.Nil {
		return nil, apperr.Validationf("doctor_id is required")
	}

	exists, err := s.doctors.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("doctor not found")
	}

	if !req.Shift.Valid() {
		return nil, apperr.Validationf("invalid shift: %s", req.Shift)
	}
	startMinutes, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, apperr.Validationf("invalid start_time %q", req.StartTime)
	}

	day := NormalizeDay(req.Day)
	cal, err := s.calendars.GetByDoctorDay(ctx, req.DoctorID, day)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, apperr.Validationf("doctor has no work schedule for %s", day.Format("2006-01-02"))
	}

	var chosen *WorkShift
	for i := range cal.Shifts {
		if cal.Shifts[i].Label == req.Shift {
			chosen = &cal.Shifts[i]
			break
		}
	}
	if chosen == nil {
		return nil, apperr.Validationf("doctor does not work the %s shift on %s", req.Shift, day.Format("2006-01-02"))
	}

	shiftStart, err := ParseClock(chosen.StartTime)
	if err != nil {
		return nil, err
	}
	shiftEnd, err := ParseClock(chosen.EndTime)
	if err != nil {
		return nil, err
	}
	if startMinutes < shiftStart || startMinutes >= shiftEnd ||
		startMinutes+SlotDurationMinutes > shiftEnd {
		return nil, apperr.Validationf("time slot %s is not valid for the %s shift", req.StartTime, req.Shift)
	}

	booked, err := s.appointments.BookedStartTimes(ctx, req.DoctorID, day)
	if err != nil {
		return nil, err
	}
	if booked[req.StartTime] {
		return nil, apperr.Conflictf("time slot %s on %s is already booked", req.StartTime, day.Format("2006-01-02"))
	}

	appt := &Appointment{
		PatientID:      patientID,
		DoctorID:       req.DoctorID,
		Day:            day,
		Shift:          req.Shift,
		StartTime:      FormatClock(startMinutes),
		EndTime:        FormatClock(startMinutes + SlotDurationMinutes),
		Status:         StatusPending,
		ReasonForVisit: req.ReasonForVisit,
	}
	// The partial unique indexes catch a racing booking; the repo surfaces
	// the duplicate key as the same conflict.
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// -- State machine --

// DoctorUpdateStatus moves one of the doctor's own appointments to a new
// status, optionally attaching notes.
func (s *Service) DoctorUpdateStatus(ctx context.Context, doctorID, apptID uuid.UUID, to AppointmentStatus, notes *string) (*Appointment, error) {
	if !to.Valid() || to == StatusPending || to == StatusCancelledByPatient {
		return nil, apperr.Validationf("invalid status value: %s", to)
	}

	appt, err := s.appointments.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, apperr.Authorizationf("appointment belongs to another doctor")
	}
	if appt.Status.Terminal() {
		return nil, apperr.Conflictf("cannot change status from %q: appointment is finalized", appt.Status)
	}
	if !CanTransition(appt.Status, to) {
		return nil, apperr.Conflictf("cannot change status from %q to %q", appt.Status, to)
	}

	return s.transition(ctx, apptID, appt.Status, to, notes)
}

// CancelByPatient cancels one of the patient's own appointments with at
// least 24 hours' notice.
func (s *Service) CancelByPatient(ctx context.Context, patientID, apptID uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != patientID {
		return nil, apperr.Authorizationf("appointment belongs to another patient")
	}
	if appt.Status.Terminal() {
		return nil, apperr.Conflictf("cannot cancel appointment with status %q", appt.Status)
	}

	startsAt, err := appt.StartsAt()
	if err != nil {
		return nil, err
	}
	if startsAt.Sub(s.now()) < CancelLeadTime {
		return nil, apperr.Validationf("cannot cancel appointment less than 24 hours in advance")
	}

	return s.transition(ctx, apptID, appt.Status, StatusCancelledByPatient, nil)
}

// transition performs the guarded status update and, on a lost race,
// re-reads and reports the actual current state.
func (s *Service) transition(ctx context.Context, apptID uuid.UUID, from, to AppointmentStatus, notes *string) (*Appointment, error) {
	ok, err := s.appointments.UpdateStatus(ctx, apptID, from, to, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.appointments.GetByID(ctx, apptID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.Conflictf("appointment status changed concurrently, now %q", current.Status)
	}
	return s.appointments.GetByID(ctx, apptID)
}

// -- Listings --

func (s *Service) listFilter(status, period string, day *time.Time) (AppointmentFilter, error) {
	f := AppointmentFilter{Today: NormalizeDay(s.now())}
	if status != "" {
		st := AppointmentStatus(status)
		if !st.Valid() {
			return f, apperr.Validationf("invalid status filter: %s", status)
		}
		f.Status = &st
	}
	switch period {
	case "", "upcoming", "past":
		f.Period = period
	default:
		return f, apperr.Validationf("invalid period filter: %s", period)
	}
	if day != nil {
		d := NormalizeDay(*day)
		f.Day = &d
	}
	return f, nil
}

// ListForPatient lists the patient's own appointments, optionally filtered
// by status and period (upcoming or past relative to today).
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, status, period string, limit, offset int) ([]*Appointment, int, error) {
	f, err := s.listFilter(status, period, nil)
	if err != nil {
		return nil, 0, err
	}
	return s.appointments.ListByPatient(ctx, patientID, f, limit, offset)
}

// ListForDoctor lists the doctor's own appointments, optionally filtered by
// status and a single day.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, status string, day *time.Time, limit, offset int) ([]*Appointment, int, error) {
	f, err := s.listFilter(status, "", day)
	if err != nil {
		return nil, 0, err
	}
	return s.appointments.ListByDoctor(ctx, doctorID, f, limit, offset)
}

// GetForDoctor returns one appointment, enforcing doctor ownership.
func (s *Service) GetForDoctor(ctx context.Context, doctorID, apptID uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, apperr.Authorizationf("appointment belongs to another doctor")
	}
	return appt, nil
}

package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// -- mocks --

type mockCalendarRepo struct {
	cals    map[string]*DayCalendar
	blocked bool // force Delete to report an appointment race
}

func newMockCalendarRepo() *mockCalendarRepo {
	return &mockCalendarRepo{cals: make(map[string]*DayCalendar)}
}

func calKey(doctorID uuid.UUID, day time.Time) string {
	return doctorID.String() + "|" + day.Format("2006-01-02")
}

func (m *mockCalendarRepo) Upsert(_ context.Context, cal *DayCalendar) error {
	if cal.ID == uuid.Nil {
		cal.ID = uuid.New()
	}
	m.cals[calKey(cal.DoctorID, cal.Day)] = cal
	return nil
}

func (m *mockCalendarRepo) GetByDoctorDay(_ context.Context, doctorID uuid.UUID, day time.Time) (*DayCalendar, error) {
	return m.cals[calKey(doctorID, day)], nil
}

func (m *mockCalendarRepo) ListRange(_ context.Context, doctorID uuid.UUID, from, to time.Time) ([]*DayCalendar, error) {
	var out []*DayCalendar
	for _, cal := range m.cals {
		if cal.DoctorID == doctorID && !cal.Day.Before(from) && !cal.Day.After(to) {
			out = append(out, cal)
		}
	}
	return out, nil
}

func (m *mockCalendarRepo) Delete(_ context.Context, doctorID uuid.UUID, day time.Time) (bool, bool, error) {
	key := calKey(doctorID, day)
	if _, ok := m.cals[key]; !ok {
		return false, false, nil
	}
	if m.blocked {
		return false, true, nil
	}
	delete(m.cals, key)
	return true, false, nil
}

type mockAppointmentRepo struct {
	appts      map[uuid.UUID]*Appointment
	raceUpdate bool // force UpdateStatus to report zero rows once
	raceCreate bool // force Create to report a duplicate key once
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	if m.raceCreate {
		m.raceCreate = false
		return apperr.Conflictf("time slot %s on %s is already booked", a.StartTime, a.Day.Format("2006-01-02"))
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	for _, other := range m.appts {
		if other.Status.Terminal() {
			continue
		}
		if other.Day.Equal(a.Day) && other.StartTime == a.StartTime {
			if other.DoctorID == a.DoctorID || other.PatientID == a.PatientID {
				return apperr.Conflictf("time slot %s is already booked", a.StartTime)
			}
		}
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, apperr.NotFoundf("appointment not found")
	}
	return a, nil
}

func (m *mockAppointmentRepo) BookedStartTimes(_ context.Context, doctorID uuid.UUID, day time.Time) (map[string]bool, error) {
	booked := make(map[string]bool)
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.Day.Equal(day) && !a.Status.Terminal() {
			booked[a.StartTime] = true
		}
	}
	return booked, nil
}

func (m *mockAppointmentRepo) HasActiveOnDay(_ context.Context, doctorID uuid.UUID, day time.Time) (bool, error) {
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.Day.Equal(day) && !a.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to AppointmentStatus, notes *string) (bool, error) {
	if m.raceUpdate {
		m.raceUpdate = false
		return false, nil
	}
	a, ok := m.appts[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	if notes != nil {
		a.DoctorNotes = notes
	}
	return true, nil
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.PatientID != patientID {
			continue
		}
		if !matchesFilter(a, f) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *mockAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.DoctorID != doctorID {
			continue
		}
		if !matchesFilter(a, f) {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func matchesFilter(a *Appointment, f AppointmentFilter) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Day != nil && !a.Day.Equal(*f.Day) {
		return false
	}
	switch f.Period {
	case "upcoming":
		if a.Day.Before(f.Today) {
			return false
		}
	case "past":
		if !a.Day.Before(f.Today) {
			return false
		}
	}
	return true
}

type mockDirectory struct{ known map[uuid.UUID]bool }

func (m *mockDirectory) DoctorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

// -- fixture --

type fixture struct {
	svc     *Service
	cals    *mockCalendarRepo
	appts   *mockAppointmentRepo
	doctor  uuid.UUID
	patient uuid.UUID
	day     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cals := newMockCalendarRepo()
	appts := newMockAppointmentRepo()
	doctor := uuid.New()
	patient := uuid.New()
	dir := &mockDirectory{known: map[uuid.UUID]bool{doctor: true}}

	svc := NewService(cals, appts, dir)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}

	return &fixture{
		svc:     svc,
		cals:    cals,
		appts:   appts,
		doctor:  doctor,
		patient: patient,
		day:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) withCalendar(t *testing.T, shifts ...WorkShift) {
	t.Helper()
	if len(shifts) == 0 {
		shifts = []WorkShift{{ShiftMorning, "08:00", "11:30"}}
	}
	if _, err := f.svc.SetDay(context.Background(), f.doctor, f.day, shifts); err != nil {
		t.Fatalf("SetDay: %v", err)
	}
}

func (f *fixture) book(t *testing.T, start string) *Appointment {
	t.Helper()
	appt, err := f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID:  f.doctor,
		Day:       f.day,
		Shift:     ShiftMorning,
		StartTime: start,
	})
	if err != nil {
		t.Fatalf("Book(%s): %v", start, err)
	}
	return appt
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("error kind = %s, want %s (err: %v)", got, kind, err)
	}
}

// -- calendar tests --

func TestSetDayRejectsInvalidShifts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SetDay(context.Background(), f.doctor, f.day, nil)
	wantKind(t, err, apperr.KindValidation)

	_, err = f.svc.SetDay(context.Background(), f.doctor, f.day, []WorkShift{
		{ShiftMorning, "11:00", "08:00"},
	})
	wantKind(t, err, apperr.KindValidation)
}

func TestSetDayReplacesShifts(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)

	_, err := f.svc.SetDay(context.Background(), f.doctor, f.day, []WorkShift{
		{ShiftEvening, "18:00", "21:00"},
	})
	if err != nil {
		t.Fatalf("SetDay: %v", err)
	}

	cal, err := f.svc.GetDay(context.Background(), f.doctor, f.day)
	if err != nil {
		t.Fatalf("GetDay: %v", err)
	}
	if len(cal.Shifts) != 1 || cal.Shifts[0].Label != ShiftEvening {
		t.Errorf("shifts = %v, want single Evening shift", cal.Shifts)
	}
}

func TestSetDayAllowsOverlappingShifts(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SetDay(context.Background(), f.doctor, f.day, []WorkShift{
		{ShiftMorning, "08:00", "12:00"},
		{ShiftAfternoon, "11:00", "15:00"},
	})
	if err != nil {
		t.Fatalf("SetDay with overlapping shifts: %v", err)
	}
}

func TestGetDayAbsentIsEmpty(t *testing.T) {
	f := newFixture(t)
	cal, err := f.svc.GetDay(context.Background(), f.doctor, f.day)
	if err != nil {
		t.Fatalf("GetDay: %v", err)
	}
	if len(cal.Shifts) != 0 {
		t.Errorf("shifts = %v, want empty", cal.Shifts)
	}
}

func TestDeleteDayBlockedByActiveAppointment(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	f.book(t, "08:00")

	err := f.svc.DeleteDay(context.Background(), f.doctor, f.day)
	wantKind(t, err, apperr.KindConflict)
}

func TestDeleteDayAllowedAfterTerminal(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := f.svc.DeleteDay(context.Background(), f.doctor, f.day); err != nil {
		t.Fatalf("DeleteDay: %v", err)
	}
}

func TestDeleteDayWriteTimeRace(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	f.cals.blocked = true

	err := f.svc.DeleteDay(context.Background(), f.doctor, f.day)
	wantKind(t, err, apperr.KindConflict)
}

func TestDeleteDayAbsent(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeleteDay(context.Background(), f.doctor, f.day)
	wantKind(t, err, apperr.KindNotFound)
}

// -- slot tests --

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AvailableSlots(context.Background(), uuid.New(), f.day)
	wantKind(t, err, apperr.KindNotFound)
}

func TestAvailableSlotsNoCalendar(t *testing.T) {
	f := newFixture(t)
	slots, err := f.svc.AvailableSlots(context.Background(), f.doctor, f.day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("slots = %v, want empty", slots)
	}
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t, WorkShift{ShiftMorning, "08:00", "10:00"})
	f.book(t, "08:30")

	slots, err := f.svc.AvailableSlots(context.Background(), f.doctor, f.day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 shift group, got %d", len(slots))
	}
	for _, s := range slots[0].Slots {
		if s == "08:30" {
			t.Error("booked slot 08:30 still listed")
		}
	}
	if len(slots[0].Slots) != 3 {
		t.Errorf("free slots = %v, want 3", slots[0].Slots)
	}
}

func TestAvailableSlotsFreedByCancellation(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t, WorkShift{ShiftMorning, "08:00", "09:00"})
	appt := f.book(t, "08:00")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusCancelledByDoctor, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := f.svc.AvailableSlots(context.Background(), f.doctor, f.day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 || len(slots[0].Slots) != 2 {
		t.Errorf("slots = %v, want 08:00 and 08:30 free again", slots)
	}
}

// -- booking tests --

func TestBookHappyPath(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)

	appt := f.book(t, "09:00")
	if appt.Status != StatusPending {
		t.Errorf("status = %s, want pending", appt.Status)
	}
	if appt.EndTime != "09:30" {
		t.Errorf("end_time = %s, want 09:30", appt.EndTime)
	}
	if !appt.Day.Equal(f.day) {
		t.Errorf("day = %v, want %v", appt.Day, f.day)
	}
}

func TestBookNormalizesDay(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)

	loc := time.FixedZone("ICT", 7*3600)
	appt, err := f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID:  f.doctor,
		Day:       time.Date(2026, 3, 14, 9, 0, 0, 0, loc),
		Shift:     ShiftMorning,
		StartTime: "08:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !appt.Day.Equal(want) {
		t.Errorf("day = %v, want normalized %v", appt.Day, want)
	}
}

func TestBookValidationOrder(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t, WorkShift{ShiftMorning, "08:00", "11:30"})

	// Unknown doctor first.
	_, err := f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: uuid.New(), Day: f.day, Shift: ShiftMorning, StartTime: "08:00",
	})
	wantKind(t, err, apperr.KindNotFound)

	// No calendar that day.
	_, err = f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: f.doctor, Day: f.day.AddDate(0, 0, 1), Shift: ShiftMorning, StartTime: "08:00",
	})
	wantKind(t, err, apperr.KindValidation)

	// Shift not worked.
	_, err = f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftEvening, StartTime: "08:00",
	})
	wantKind(t, err, apperr.KindValidation)

	// Start before shift.
	_, err = f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftMorning, StartTime: "07:30",
	})
	wantKind(t, err, apperr.KindValidation)

	// Slot would run past shift end (11:15 + 30m > 11:30).
	_, err = f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftMorning, StartTime: "11:15",
	})
	wantKind(t, err, apperr.KindValidation)
}

func TestBookTakenSlotConflicts(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	f.book(t, "09:00")

	_, err := f.svc.Book(context.Background(), uuid.New(), BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftMorning, StartTime: "09:00",
	})
	wantKind(t, err, apperr.KindConflict)
}

func TestBookRacingInsertSurfacesConflict(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)

	// The availability pre-check sees the slot free, but a racing booking
	// wins the insert and the duplicate key comes back from the store.
	f.appts.raceCreate = true
	_, err := f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftMorning, StartTime: "09:00",
	})
	wantKind(t, err, apperr.KindConflict)

	// Only the winner holds the slot; nothing was stored for the loser.
	if len(f.appts.appts) != 0 {
		t.Fatalf("lost booking was stored: %d appointments", len(f.appts.appts))
	}
	f.book(t, "09:00")
}

func TestBookUnknownDoctorBeforeShapeChecks(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)

	_, err := f.svc.Book(context.Background(), f.patient, BookRequest{
		DoctorID: uuid.New(), Day: f.day, Shift: ShiftLabel("Midnight"), StartTime: "8am",
	})
	wantKind(t, err, apperr.KindNotFound)
}

func TestBookAfterTerminalFreesSlot(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "09:00")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := f.svc.Book(context.Background(), uuid.New(), BookRequest{
		DoctorID: f.doctor, Day: f.day, Shift: ShiftMorning, StartTime: "09:00",
	}); err != nil {
		t.Fatalf("rebooking freed slot: %v", err)
	}
}

// -- state machine tests --

func TestDoctorTransitions(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	notes := "bring previous results"
	updated, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusConfirmed, &notes)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
	if updated.DoctorNotes == nil || *updated.DoctorNotes != notes {
		t.Errorf("notes = %v, want %q", updated.DoctorNotes, notes)
	}

	updated, err = f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusCompleted, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", updated.Status)
	}
}

func TestDoctorTransitionIllegal(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	// pending -> completed skips confirmation.
	_, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusCompleted, nil)
	wantKind(t, err, apperr.KindConflict)
}

func TestDoctorTransitionFromTerminal(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusConfirmed, nil)
	wantKind(t, err, apperr.KindConflict)
}

func TestDoctorTransitionOwnership(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	_, err := f.svc.DoctorUpdateStatus(context.Background(), uuid.New(), appt.ID, StatusConfirmed, nil)
	wantKind(t, err, apperr.KindAuthorization)
}

func TestDoctorTransitionInvalidTarget(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	_, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusPending, nil)
	wantKind(t, err, apperr.KindValidation)

	_, err = f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusCancelledByPatient, nil)
	wantKind(t, err, apperr.KindValidation)
}

func TestDoctorTransitionLostRace(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")
	f.appts.raceUpdate = true

	_, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusConfirmed, nil)
	wantKind(t, err, apperr.KindConflict)
}

// -- patient cancellation tests --

func TestPatientCancelWithNotice(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00") // 2026-03-14 08:00, now is 2026-03-10 12:00

	updated, err := f.svc.CancelByPatient(context.Background(), f.patient, appt.ID)
	if err != nil {
		t.Fatalf("CancelByPatient: %v", err)
	}
	if updated.Status != StatusCancelledByPatient {
		t.Errorf("status = %s, want cancelled_by_patient", updated.Status)
	}
}

func TestPatientCancelTooLate(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	// 13:00 the day before leaves only 19 hours.
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 13, 13, 0, 0, 0, time.UTC)
	}

	_, err := f.svc.CancelByPatient(context.Background(), f.patient, appt.ID)
	wantKind(t, err, apperr.KindValidation)
}

func TestPatientCancelExactBoundary(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	// Exactly 24 hours before is still allowed.
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)
	}

	if _, err := f.svc.CancelByPatient(context.Background(), f.patient, appt.ID); err != nil {
		t.Fatalf("cancel at exactly 24h: %v", err)
	}
}

func TestPatientCancelOwnership(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	_, err := f.svc.CancelByPatient(context.Background(), uuid.New(), appt.ID)
	wantKind(t, err, apperr.KindAuthorization)
}

func TestPatientCancelTerminal(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusRejected, nil); err != nil {
		t.Fatalf("reject: %v", err)
	}
	_, err := f.svc.CancelByPatient(context.Background(), f.patient, appt.ID)
	wantKind(t, err, apperr.KindConflict)
}

// -- listing tests --

func TestListForPatientPeriodFilter(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	f.book(t, "08:00") // upcoming relative to now (2026-03-10)

	past := &Appointment{
		PatientID: f.patient,
		DoctorID:  f.doctor,
		Day:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Shift:     ShiftMorning,
		StartTime: "08:00",
		EndTime:   "08:30",
		Status:    StatusCompleted,
	}
	if err := f.appts.Create(context.Background(), past); err != nil {
		t.Fatalf("seed past appointment: %v", err)
	}

	upcoming, _, err := f.svc.ListForPatient(context.Background(), f.patient, "", "upcoming", 20, 0)
	if err != nil {
		t.Fatalf("ListForPatient upcoming: %v", err)
	}
	if len(upcoming) != 1 {
		t.Errorf("upcoming = %d items, want 1", len(upcoming))
	}

	pastItems, _, err := f.svc.ListForPatient(context.Background(), f.patient, "", "past", 20, 0)
	if err != nil {
		t.Fatalf("ListForPatient past: %v", err)
	}
	if len(pastItems) != 1 {
		t.Errorf("past = %d items, want 1", len(pastItems))
	}
}

func TestListForPatientInvalidFilters(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ListForPatient(context.Background(), f.patient, "bogus", "", 20, 0)
	wantKind(t, err, apperr.KindValidation)

	_, _, err = f.svc.ListForPatient(context.Background(), f.patient, "", "someday", 20, 0)
	wantKind(t, err, apperr.KindValidation)
}

func TestListForDoctorStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")
	f.book(t, "08:30")

	if _, err := f.svc.DoctorUpdateStatus(context.Background(), f.doctor, appt.ID, StatusConfirmed, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	confirmed, _, err := f.svc.ListForDoctor(context.Background(), f.doctor, "confirmed", nil, 20, 0)
	if err != nil {
		t.Fatalf("ListForDoctor: %v", err)
	}
	if len(confirmed) != 1 {
		t.Errorf("confirmed = %d items, want 1", len(confirmed))
	}
}

func TestGetForDoctorOwnership(t *testing.T) {
	f := newFixture(t)
	f.withCalendar(t)
	appt := f.book(t, "08:00")

	if _, err := f.svc.GetForDoctor(context.Background(), f.doctor, appt.ID); err != nil {
		t.Fatalf("GetForDoctor: %v", err)
	}
	_, err := f.svc.GetForDoctor(context.Background(), uuid.New(), appt.ID)
	wantKind(t, err, apperr.KindAuthorization)
}

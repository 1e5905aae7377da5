package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// uniqueViolation reports whether err is a Postgres duplicate-key error and
// returns the violated constraint name.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// =========== Calendar Repository ===========

type calendarRepoPG struct{ pool *pgxpool.Pool }

func NewCalendarRepoPG(pool *pgxpool.Pool) CalendarRepository { return &calendarRepoPG{pool: pool} }

const calendarCols = `id, doctor_id, day, shifts, created_at, updated_at`

func scanCalendar(row pgx.Row) (*DayCalendar, error) {
	var cal DayCalendar
	var shifts []byte
	if err := row.Scan(&cal.ID, &cal.DoctorID, &cal.Day, &shifts, &cal.CreatedAt, &cal.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shifts, &cal.Shifts); err != nil {
		return nil, fmt.Errorf("decode shifts: %w", err)
	}
	cal.Day = cal.Day.UTC()
	return &cal, nil
}

func (r *calendarRepoPG) Upsert(ctx context.Context, cal *DayCalendar) error {
	if cal.ID == uuid.Nil {
		cal.ID = uuid.New()
	}
	shifts, err := json.Marshal(cal.Shifts)
	if err != nil {
		return fmt.Errorf("encode shifts: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO day_calendars (id, doctor_id, day, shifts)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (doctor_id, day)
		DO UPDATE SET shifts = EXCLUDED.shifts, updated_at = NOW()`,
		cal.ID, cal.DoctorID, cal.Day, shifts)
	return err
}

func (r *calendarRepoPG) GetByDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (*DayCalendar, error) {
	cal, err := scanCalendar(r.pool.QueryRow(ctx,
		`SELECT `+calendarCols+` FROM day_calendars WHERE doctor_id = $1 AND day = $2`,
		doctorID, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return cal, err
}

func (r *calendarRepoPG) ListRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*DayCalendar, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+calendarCols+` FROM day_calendars
		WHERE doctor_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC`,
		doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DayCalendar
	for rows.Next() {
		cal, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cal)
	}
	return items, rows.Err()
}

func (r *calendarRepoPG) Delete(ctx context.Context, doctorID uuid.UUID, day time.Time) (bool, bool, error) {
	// Guard against non-terminal appointments inside the DELETE itself so
	// a booking racing this call cannot slip past a pre-check.
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM day_calendars
		WHERE doctor_id = $1 AND day = $2
		AND NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND day = $2 AND status IN ('pending','confirmed')
		)`,
		doctorID, day)
	if err != nil {
		return false, false, err
	}
	if tag.RowsAffected() > 0 {
		return true, false, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM day_calendars WHERE doctor_id = $1 AND day = $2)`,
		doctorID, day).Scan(&exists); err != nil {
		return false, false, err
	}
	return false, exists, nil
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

const apptCols = `id, patient_id, doctor_id, day, shift, start_time, end_time,
	status, reason_for_visit, doctor_notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Day, &a.Shift, &a.StartTime, &a.EndTime,
		&a.Status, &a.ReasonForVisit, &a.DoctorNotes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Day = a.Day.UTC()
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, day, shift, start_time, end_time, status, reason_for_visit)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.Day, a.Shift, a.StartTime, a.EndTime, a.Status, a.ReasonForVisit)
	if constraint, ok := uniqueViolation(err); ok {
		if strings.Contains(constraint, "patient") {
			return apperr.Conflictf("you already have an appointment at %s on %s", a.StartTime, a.Day.Format("2006-01-02"))
		}
		return apperr.Conflictf("time slot %s on %s is already booked", a.StartTime, a.Day.Format("2006-01-02"))
	}
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("appointment not found")
	}
	return a, err
}

func (r *appointmentRepoPG) BookedStartTimes(ctx context.Context, doctorID uuid.UUID, day time.Time) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time FROM appointments
		WHERE doctor_id = $1 AND day = $2 AND status IN ('pending','confirmed')`,
		doctorID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	booked := make(map[string]bool)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		booked[t] = true
	}
	return booked, rows.Err()
}

func (r *appointmentRepoPG) HasActiveOnDay(ctx context.Context, doctorID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND day = $2 AND status IN ('pending','confirmed')
		)`,
		doctorID, day).Scan(&exists)
	return exists, err
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, notes *string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $3, doctor_notes = COALESCE($4, doctor_notes), updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to, notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "patient_id", patientID, f, limit, offset)
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "doctor_id", doctorID, f, limit, offset)
}

func (r *appointmentRepoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, f AppointmentFilter, limit, offset int) ([]*Appointment, int, error) {
	where := fmt.Sprintf(` WHERE %s = $1`, ownerCol)
	args := []interface{}{ownerID}
	idx := 2

	if f.Status != nil {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, *f.Status)
		idx++
	}
	if f.Day != nil {
		where += fmt.Sprintf(` AND day = $%d`, idx)
		args = append(args, *f.Day)
		idx++
	}
	switch f.Period {
	case "upcoming":
		where += fmt.Sprintf(` AND day >= $%d`, idx)
		args = append(args, f.Today)
		idx++
	case "past":
		where += fmt.Sprintf(` AND day < $%d`, idx)
		args = append(args, f.Today)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` FROM appointments` + where +
		fmt.Sprintf(` ORDER BY day DESC, start_time ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

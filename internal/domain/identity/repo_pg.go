package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

// translateUnique maps a duplicate-key error on the users table to a conflict
// naming the clashing field.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperr.Conflictf("email is already in use")
		}
		if strings.Contains(pgErr.ConstraintName, "phone") {
			return apperr.Conflictf("phone number is already in use")
		}
		return apperr.Conflictf("account already exists")
	}
	return err
}

const userCols = `id, email, phone_number, password_hash, name, avatar, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Name, &u.Avatar,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) insertUser(ctx context.Context, tx pgx.Tx, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, phone_number, password_hash, name, avatar, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PhoneNumber, u.PasswordHash, u.Name, u.Avatar, u.Role)
	return translateUnique(err)
}

func (r *userRepoPG) CreatePatient(ctx context.Context, u *User, p *PatientProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.insertUser(ctx, tx, u); err != nil {
		return err
	}
	p.UserID = u.ID
	if _, err := tx.Exec(ctx, `
		INSERT INTO patient_profiles (user_id, date_of_birth, gender, address)
		VALUES ($1,$2,$3,$4)`,
		p.UserID, p.DateOfBirth, p.Gender, p.Address); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *userRepoPG) CreateDoctor(ctx context.Context, u *User, d *DoctorProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.insertUser(ctx, tx, u); err != nil {
		return err
	}
	d.UserID = u.ID
	if _, err := tx.Exec(ctx, `
		INSERT INTO doctor_profiles (user_id, specialization, experience, qualifications,
			description, clinic_name, clinic_address, clinic_phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.UserID, d.Specialization, d.Experience, d.Qualifications,
		d.Description, d.Clinic.Name, d.Clinic.Address, d.Clinic.PhoneNumber); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByLogin(ctx context.Context, loginID string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1 OR phone_number = $1`, loginID))
}

func (r *userRepoPG) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	var p PatientProfile
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, date_of_birth, gender, address
		FROM patient_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.DateOfBirth, &p.Gender, &p.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("patient profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const doctorProfileCols = `user_id, specialization, experience, qualifications, description,
	clinic_name, clinic_address, clinic_phone, average_rating, rating_count`

func scanDoctorProfile(row pgx.Row) (*DoctorProfile, error) {
	var d DoctorProfile
	err := row.Scan(&d.UserID, &d.Specialization, &d.Experience, &d.Qualifications, &d.Description,
		&d.Clinic.Name, &d.Clinic.Address, &d.Clinic.PhoneNumber, &d.AverageRating, &d.RatingCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("doctor profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *userRepoPG) GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	return scanDoctorProfile(r.pool.QueryRow(ctx,
		`SELECT `+doctorProfileCols+` FROM doctor_profiles WHERE user_id = $1`, userID))
}

func (r *userRepoPG) UpdateUser(ctx context.Context, u *User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET email=$2, phone_number=$3, name=$4, avatar=$5, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.Email, u.PhoneNumber, u.Name, u.Avatar)
	return translateUnique(err)
}

func (r *userRepoPG) UpdatePatientProfile(ctx context.Context, p *PatientProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient_profiles SET date_of_birth=$2, gender=$3, address=$4
		WHERE user_id = $1`,
		p.UserID, p.DateOfBirth, p.Gender, p.Address)
	return err
}

func (r *userRepoPG) UpdateDoctorProfile(ctx context.Context, d *DoctorProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor_profiles SET specialization=$2, experience=$3, qualifications=$4,
			description=$5, clinic_name=$6, clinic_address=$7, clinic_phone=$8
		WHERE user_id = $1`,
		d.UserID, d.Specialization, d.Experience, d.Qualifications,
		d.Description, d.Clinic.Name, d.Clinic.Address, d.Clinic.PhoneNumber)
	return err
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id = $1`, id, passwordHash)
	return err
}

func (r *userRepoPG) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = 'Doctor')`, id).Scan(&exists)
	return exists, err
}

func (r *userRepoPG) SearchDoctors(ctx context.Context, specialization, name string, limit, offset int) ([]*DoctorSummary, int, error) {
	where := ` WHERE u.role = 'Doctor'`
	var args []interface{}
	idx := 1

	if specialization != "" {
		where += fmt.Sprintf(` AND d.specialization ILIKE $%d`, idx)
		args = append(args, "%"+specialization+"%")
		idx++
	}
	if name != "" {
		where += fmt.Sprintf(` AND u.name ILIKE $%d`, idx)
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users u JOIN doctor_profiles d ON d.user_id = u.id`+where,
		args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.name, u.avatar, d.specialization, d.experience,
			d.clinic_name, d.clinic_address, d.clinic_phone, d.average_rating, d.rating_count
		FROM users u JOIN doctor_profiles d ON d.user_id = u.id` + where +
		fmt.Sprintf(` ORDER BY d.average_rating DESC, u.name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DoctorSummary
	for rows.Next() {
		var s DoctorSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Avatar, &s.Specialization, &s.Experience,
			&s.Clinic.Name, &s.Clinic.Address, &s.Clinic.PhoneNumber,
			&s.AverageRating, &s.RatingCount); err != nil {
			return nil, 0, err
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

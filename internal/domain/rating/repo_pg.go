package rating

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/platform/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const ratingCols = `id, patient_id, doctor_id, appointment_id, score, comment, created_at, updated_at`

func scanRating(row pgx.Row) (*Rating, error) {
	var r Rating
	err := row.Scan(&r.ID, &r.PatientID, &r.DoctorID, &r.AppointmentID, &r.Score, &r.Comment,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("rating not found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *repoPG) Create(ctx context.Context, rating *Rating) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ratings (id, patient_id, doctor_id, appointment_id, score, comment)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rating.ID, rating.PatientID, rating.DoctorID, rating.AppointmentID, rating.Score, rating.Comment)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflictf("this appointment has already been rated")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Rating, error) {
	return scanRating(r.pool.QueryRow(ctx, `SELECT `+ratingCols+` FROM ratings WHERE id = $1`, id))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Rating, error) {
	return scanRating(r.pool.QueryRow(ctx,
		`SELECT `+ratingCols+` FROM ratings WHERE appointment_id = $1`, appointmentID))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("rating not found")
	}
	return nil
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Rating, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ratings WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.patient_id, r.doctor_id, r.appointment_id, r.score, r.comment,
			r.created_at, r.updated_at, u.name, u.avatar
		FROM ratings r JOIN users u ON u.id = r.patient_id
		WHERE r.doctor_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`,
		doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Rating
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.ID, &rt.PatientID, &rt.DoctorID, &rt.AppointmentID, &rt.Score, &rt.Comment,
			&rt.CreatedAt, &rt.UpdatedAt, &rt.PatientName, &rt.PatientAvatar); err != nil {
			return nil, 0, err
		}
		items = append(items, &rt)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ComputeStats(ctx context.Context, doctorID uuid.UUID) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings WHERE doctor_id = $1`,
		doctorID).Scan(&stats.AverageRating, &stats.RatingCount)
	return stats, err
}

func (r *repoPG) SaveStats(ctx context.Context, doctorID uuid.UUID, stats Stats) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctor_profiles SET average_rating = $2, rating_count = $3
		WHERE user_id = $1`,
		doctorID, stats.AverageRating, stats.RatingCount)
	return err
}

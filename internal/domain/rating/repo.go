package rating

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists ratings and the doctor's denormalized aggregate.
type Repository interface {
	// Create inserts a rating. A second rating for the same appointment
	// surfaces as a conflict.
	Create(ctx context.Context, r *Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rating, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Rating, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByDoctor returns the doctor's ratings, newest first, with the
	// rating patient's name and avatar joined in.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Rating, int, error)
	// ComputeStats recomputes AVG and COUNT over all the doctor's ratings.
	ComputeStats(ctx context.Context, doctorID uuid.UUID) (Stats, error)
	// SaveStats writes the aggregate onto the doctor's profile.
	SaveStats(ctx context.Context, doctorID uuid.UUID, stats Stats) error
}

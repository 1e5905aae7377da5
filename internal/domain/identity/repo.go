package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users and their role-specific profiles.
type UserRepository interface {
	// CreatePatient inserts the base user and patient profile together.
	// A duplicate email or phone number surfaces as a conflict.
	CreatePatient(ctx context.Context, u *User, p *PatientProfile) error
	// CreateDoctor inserts the base user and doctor profile together.
	CreateDoctor(ctx context.Context, u *User, d *DoctorProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// GetByLogin looks up a user by email or phone number.
	GetByLogin(ctx context.Context, loginID string) (*User, error)
	GetPatientProfile(ctx context.Context, userID uuid.UUID) (*PatientProfile, error)
	GetDoctorProfile(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error)
	UpdateUser(ctx context.Context, u *User) error
	UpdatePatientProfile(ctx context.Context, p *PatientProfile) error
	UpdateDoctorProfile(ctx context.Context, d *DoctorProfile) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
	SearchDoctors(ctx context.Context, specialization, name string, limit, offset int) ([]*DoctorSummary, int, error)
}

package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/platform/auth"
)

// User is the base account record shared by patients and doctors. Exactly
// one of Email and PhoneNumber may be empty.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PhoneNumber  *string   `db:"phone_number" json:"phone_number,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Avatar       string    `db:"avatar" json:"avatar"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PatientProfile extends a User with role Patient.
type PatientProfile struct {
	UserID      uuid.UUID  `db:"user_id" json:"-"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
}

// ClinicInfo describes the clinic a doctor practices at.
type ClinicInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// DoctorProfile extends a User with role Doctor. AverageRating and
// RatingCount are written only by the rating recomputation step.
type DoctorProfile struct {
	UserID         uuid.UUID  `db:"user_id" json:"-"`
	Specialization string     `db:"specialization" json:"specialization"`
	Experience     string     `db:"experience" json:"experience"`
	Qualifications string     `db:"qualifications" json:"qualifications"`
	Description    string     `db:"description" json:"description"`
	Clinic         ClinicInfo `db:"-" json:"clinic"`
	AverageRating  float64    `db:"average_rating" json:"average_rating"`
	RatingCount    int        `db:"rating_count" json:"rating_count"`
}

// Profile is a user together with their role-specific payload.
type Profile struct {
	User
	Patient *PatientProfile `json:"patient,omitempty"`
	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
}

// DoctorSummary is the public search-result shape for a doctor.
type DoctorSummary struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Avatar         string     `json:"avatar"`
	Specialization string     `json:"specialization"`
	Experience     string     `json:"experience"`
	Clinic         ClinicInfo `json:"clinic"`
	AverageRating  float64    `json:"average_rating"`
	RatingCount    int        `json:"rating_count"`
}

package rating

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one patient's score for one completed appointment. At most one
// rating exists per appointment.
type Rating struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Score         int       `db:"score" json:"score"`
	Comment       string    `db:"comment" json:"comment"`
	PatientName   string    `db:"-" json:"patient_name,omitempty"`
	PatientAvatar string    `db:"-" json:"patient_avatar,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Stats is the recomputed aggregate stored on the doctor's profile.
type Stats struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

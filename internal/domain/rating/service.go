package rating

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/scheduling"
	"github.com/medibook/medibook/internal/platform/apperr"
)

// AppointmentSource supplies the appointment a rating refers to.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
}

// DoctorDirectory checks doctor accounts exist.
type DoctorDirectory interface {
	DoctorExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	ratings      Repository
	appointments AppointmentSource
	doctors      DoctorDirectory
}

func NewService(ratings Repository, appointments AppointmentSource, doctors DoctorDirectory) *Service {
	return &Service{ratings: ratings, appointments: appointments, doctors: doctors}
}

type CreateRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment"`
}

// Create records the patient's rating for a completed appointment and then
// recomputes the doctor's aggregate. The recompute is a deliberate
// synchronous step after the write, never a storage trigger.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req CreateRequest) (*Rating, error) {
	if req.DoctorID == uuid.Nil || req.AppointmentID == uuid.Nil {
		return nil, apperr.Validationf("doctor_id and appointment_id are required")
	}
	if req.Score < 1 || req.Score > 5 {
		return nil, apperr.Validationf("score must be between 1 and 5")
	}

	appt, err := s.appointments.GetByID(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != patientID {
		return nil, apperr.Authorizationf("you are not authorized to rate this appointment")
	}
	if appt.DoctorID != req.DoctorID {
		return nil, apperr.Validationf("doctor_id does not match the appointment")
	}
	if appt.Status != scheduling.StatusCompleted {
		return nil, apperr.Validationf("appointment must be completed before it can be rated")
	}

	if existing, err := s.ratings.GetByAppointment(ctx, req.AppointmentID); err == nil && existing != nil {
		return nil, apperr.Conflictf("this appointment has already been rated")
	} else if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	exists, err := s.doctors.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("doctor not found")
	}

	rating := &Rating{
		PatientID:     patientID,
		DoctorID:      req.DoctorID,
		AppointmentID: req.AppointmentID,
		Score:         req.Score,
		Comment:       req.Comment,
	}
	// The unique index on appointment_id catches a concurrent duplicate.
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, req.DoctorID); err != nil {
		return nil, err
	}
	return rating, nil
}

// Delete removes the patient's own rating and recomputes the doctor's
// aggregate.
func (s *Service) Delete(ctx context.Context, patientID, ratingID uuid.UUID) error {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.PatientID != patientID {
		return apperr.Authorizationf("you can only delete your own rating")
	}

	if err := s.ratings.Delete(ctx, ratingID); err != nil {
		return err
	}
	return s.recompute(ctx, rating.DoctorID)
}

// ListForDoctor returns a doctor's ratings, newest first.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Rating, int, error) {
	exists, err := s.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, apperr.NotFoundf("doctor not found")
	}
	return s.ratings.ListByDoctor(ctx, doctorID, limit, offset)
}

// recompute rebuilds the doctor's average and count from all their ratings.
func (s *Service) recompute(ctx context.Context, doctorID uuid.UUID) error {
	stats, err := s.ratings.ComputeStats(ctx, doctorID)
	if err != nil {
		return err
	}
	return s.ratings.SaveStats(ctx, doctorID, stats)
}

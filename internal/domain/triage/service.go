package triage

import (
	"context"

	"github.com/medibook/medibook/internal/domain/identity"
	"github.com/medibook/medibook/internal/platform/apperr"
)

// UnknownSpecialization is returned when no specialization is mapped for the
// predicted disease.
const UnknownSpecialization = "Unknown"

// suggestedDoctorLimit caps how many doctors a diagnosis suggests.
const suggestedDoctorLimit = 5

// DoctorFinder finds doctors by specialization. Implemented by the identity
// service.
type DoctorFinder interface {
	SearchDoctors(ctx context.Context, specialization, name string, limit, offset int) ([]*identity.DoctorSummary, int, error)
}

type Service struct {
	classifier Classifier
	lookup     *Lookup
	doctors    DoctorFinder
}

func NewService(classifier Classifier, lookup *Lookup, doctors DoctorFinder) *Service {
	return &Service{classifier: classifier, lookup: lookup, doctors: doctors}
}

type Diagnosis struct {
	PredictedDisease     string                    `json:"predicted_disease"`
	TargetSpecialization string                    `json:"target_specialization"`
	SuggestedDoctors     []*identity.DoctorSummary `json:"suggested_doctors"`
}

// Diagnose runs the classifier on the given symptoms, maps the predicted
// disease to a specialization and suggests matching doctors.
func (s *Service) Diagnose(ctx context.Context, symptoms []string) (*Diagnosis, error) {
	if len(symptoms) == 0 {
		return nil, apperr.Validationf("please provide a list of symptoms")
	}

	disease, err := s.classifier.Predict(ctx, symptoms)
	if err != nil {
		return nil, err
	}

	diag := &Diagnosis{
		PredictedDisease:     disease,
		TargetSpecialization: UnknownSpecialization,
		SuggestedDoctors:     []*identity.DoctorSummary{},
	}

	spec, ok := s.lookup.SpecializationFor(disease)
	if !ok {
		return diag, nil
	}
	diag.TargetSpecialization = spec

	doctors, _, err := s.doctors.SearchDoctors(ctx, spec, "", suggestedDoctorLimit, 0)
	if err != nil {
		return nil, err
	}
	if doctors != nil {
		diag.SuggestedDoctors = doctors
	}
	return diag, nil
}

// KnownSymptoms lists the symptom vocabulary the classifier was trained on.
func (s *Service) KnownSymptoms() []string {
	symptoms := s.lookup.Symptoms()
	if symptoms == nil {
		return []string{}
	}
	return symptoms
}

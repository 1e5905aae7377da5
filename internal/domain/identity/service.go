package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/scheduling"
	"github.com/medibook/medibook/internal/platform/apperr"
	"github.com/medibook/medibook/internal/platform/auth"
)

// CalendarSource supplies a doctor's upcoming work calendars for the public
// doctor-details view.
type CalendarSource interface {
	ListDays(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*scheduling.DayCalendar, error)
}

type Service struct {
	users     UserRepository
	issuer    *auth.TokenIssuer
	calendars CalendarSource
	now       func() time.Time
}

func NewService(users UserRepository, issuer *auth.TokenIssuer, calendars CalendarSource) *Service {
	return &Service{
		users:     users,
		issuer:    issuer,
		calendars: calendars,
		now:       time.Now,
	}
}

// DoctorExists reports whether a doctor account exists. Satisfies the
// scheduling domain's directory dependency.
func (s *Service) DoctorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.users.DoctorExists(ctx, id)
}

// -- registration and login --

type RegisterPatientRequest struct {
	Email       *string    `json:"email"`
	PhoneNumber *string    `json:"phone_number"`
	Password    string     `json:"password"`
	Name        string     `json:"name"`
	Avatar      string     `json:"avatar"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Address     *string    `json:"address"`
}

// AuthResponse is the payload returned on registration and login.
type AuthResponse struct {
	Profile
	Token string `json:"token"`
}

func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}

// RegisterPatient creates a patient account and returns it with a fresh token.
func (s *Service) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (*AuthResponse, error) {
	if len(req.Password) < auth.MinPasswordLength {
		return nil, apperr.Validationf("password must be at least %d characters", auth.MinPasswordLength)
	}
	req.Email = emptyToNil(req.Email)
	req.PhoneNumber = emptyToNil(req.PhoneNumber)
	if req.Email == nil && req.PhoneNumber == nil {
		return nil, apperr.Validationf("email or phone number is required")
	}
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Name:         req.Name,
		Avatar:       req.Avatar,
		Role:         auth.RolePatient,
	}
	profile := &PatientProfile{
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	if err := s.users.CreatePatient(ctx, user, profile); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Profile: Profile{User: *user, Patient: profile},
		Token:   token,
	}, nil
}

// RegisterDoctor creates a doctor account. Exposed through the seed command,
// not the public API.
func (s *Service) RegisterDoctor(ctx context.Context, req RegisterPatientRequest, doctor DoctorProfile) (*Profile, error) {
	if len(req.Password) < auth.MinPasswordLength {
		return nil, apperr.Validationf("password must be at least %d characters", auth.MinPasswordLength)
	}
	req.Email = emptyToNil(req.Email)
	req.PhoneNumber = emptyToNil(req.PhoneNumber)
	if req.Email == nil && req.PhoneNumber == nil {
		return nil, apperr.Validationf("email or phone number is required")
	}
	if req.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if doctor.Specialization == "" {
		return nil, apperr.Validationf("specialization is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Name:         req.Name,
		Avatar:       req.Avatar,
		Role:         auth.RoleDoctor,
	}
	if err := s.users.CreateDoctor(ctx, user, &doctor); err != nil {
		return nil, err
	}
	return &Profile{User: *user, Doctor: &doctor}, nil
}

// Login authenticates by email or phone number plus password.
func (s *Service) Login(ctx context.Context, loginID, password string) (*AuthResponse, error) {
	if loginID == "" || password == "" {
		return nil, apperr.Validationf("login id and password are required")
	}

	user, err := s.users.GetByLogin(ctx, loginID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Authorizationf("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Authorizationf("invalid credentials")
	}

	profile, err := s.loadProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Profile: *profile, Token: token}, nil
}

func (s *Service) loadProfile(ctx context.Context, user *User) (*Profile, error) {
	profile := &Profile{User: *user}
	switch user.Role {
	case auth.RolePatient:
		p, err := s.users.GetPatientProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Patient = p
	case auth.RoleDoctor:
		d, err := s.users.GetDoctorProfile(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Doctor = d
	}
	return profile, nil
}

// -- profile --

// GetProfile returns the caller's own profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.loadProfile(ctx, user)
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Avatar      *string `json:"avatar"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`

	// Patient fields.
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Address     *string    `json:"address"`

	// Doctor fields.
	Specialization *string     `json:"specialization"`
	Experience     *string     `json:"experience"`
	Qualifications *string     `json:"qualifications"`
	Description    *string     `json:"description"`
	Clinic         *ClinicInfo `json:"clinic"`
}

// UpdateProfile applies partial updates to the caller's base user record and
// role-specific payload. Absent fields keep their value.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Email != nil {
		user.Email = emptyToNil(req.Email)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = emptyToNil(req.PhoneNumber)
	}
	if user.Email == nil && user.PhoneNumber == nil {
		return nil, apperr.Validationf("email or phone number is required")
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	profile := &Profile{User: *user}
	switch user.Role {
	case auth.RolePatient:
		p, err := s.users.GetPatientProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if req.DateOfBirth != nil {
			p.DateOfBirth = req.DateOfBirth
		}
		if req.Gender != nil {
			p.Gender = req.Gender
		}
		if req.Address != nil {
			p.Address = req.Address
		}
		if err := s.users.UpdatePatientProfile(ctx, p); err != nil {
			return nil, err
		}
		profile.Patient = p
	case auth.RoleDoctor:
		d, err := s.users.GetDoctorProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if req.Specialization != nil {
			d.Specialization = *req.Specialization
		}
		if req.Experience != nil {
			d.Experience = *req.Experience
		}
		if req.Qualifications != nil {
			d.Qualifications = *req.Qualifications
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if req.Clinic != nil {
			d.Clinic = *req.Clinic
		}
		if err := s.users.UpdateDoctorProfile(ctx, d); err != nil {
			return nil, err
		}
		profile.Doctor = d
	}
	return profile, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validationf("current and new password are required")
	}
	if len(next) < auth.MinPasswordLength {
		return apperr.Validationf("new password must be at least %d characters", auth.MinPasswordLength)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperr.Authorizationf("current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// -- public doctor views --

// SearchDoctors lists doctors matching the case-insensitive specialization
// and name filters.
func (s *Service) SearchDoctors(ctx context.Context, specialization, name string, limit, offset int) ([]*DoctorSummary, int, error) {
	return s.users.SearchDoctors(ctx, specialization, name, limit, offset)
}

// DoctorDetails is the public doctor view with the next week's calendars.
type DoctorDetails struct {
	Profile
	UpcomingSchedules []*scheduling.DayCalendar `json:"upcoming_schedules"`
}

// GetDoctorDetails returns a doctor's profile together with their calendars
// for the next seven days.
func (s *Service) GetDoctorDetails(ctx context.Context, doctorID uuid.UUID) (*DoctorDetails, error) {
	user, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if user.Role != auth.RoleDoctor {
		return nil, apperr.NotFoundf("doctor not found")
	}
	doctor, err := s.users.GetDoctorProfile(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	today := scheduling.NormalizeDay(s.now())
	schedules, err := s.calendars.ListDays(ctx, doctorID, today, today.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []*scheduling.DayCalendar{}
	}

	return &DoctorDetails{
		Profile:           Profile{User: *user, Doctor: doctor},
		UpcomingSchedules: schedules,
	}, nil
}

package identity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibook/medibook/internal/platform/auth"
	"github.com/medibook/medibook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth and public doctor endpoints.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/auth/register/patient", h.RegisterPatient)
	public.POST("/auth/login", h.Login)
	public.GET("/patients/doctors/search", h.SearchDoctors)
	public.GET("/patients/doctors/:id/details", h.GetDoctorDetails)

	api.GET("/auth/me", h.GetMyProfile)
	api.PUT("/auth/me", h.UpdateMyProfile)
	api.PUT("/auth/me/password", h.ChangePassword)
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var req RegisterPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.RegisterPatient(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.Login(c.Request().Context(), req.LoginID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetMyProfile(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	profile, err := h.svc.GetProfile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateMyProfile(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.svc.UpdateProfile(c.Request().Context(), caller.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) ChangePassword(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.ChangePassword(c.Request().Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *Handler) SearchDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)

	items, total, err := h.svc.SearchDoctors(c.Request().Context(),
		c.QueryParam("specialization"), c.QueryParam("name"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*DoctorSummary{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDoctorDetails(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	details, err := h.svc.GetDoctorDetails(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

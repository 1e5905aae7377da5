package rating

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

// RegisterRoutes mounts the rating endpoints. Listing a doctor's ratings is
// public; creating and deleting require a patient.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.GET("/ratings/doctor/:doctorId", h.ListForDoctor)

	patient := api.Group("/ratings", auth.RequireRole(auth.RolePatient))
	patient.POST("", h.Create)
	patient.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rating, err := h.svc.Create(c.Request().Context(), caller.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rating)
}

func (h *Handler) Delete(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid rating id")
	}

	if err := h.svc.Delete(c.Request().Context(), caller.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListForDoctor(c.Request().Context(), doctorID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Rating{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

package triage

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the triage endpoints. The symptom vocabulary is
// public so the client can render the picker; diagnosing requires a login.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.GET("/chatbot/symptoms", h.ListSymptoms)
	api.POST("/chatbot/diagnose", h.Diagnose)
}

type diagnoseRequest struct {
	Symptoms []string `json:"symptoms"`
}

func (h *Handler) Diagnose(c echo.Context) error {
	var req diagnoseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	diag, err := h.svc.Diagnose(c.Request().Context(), req.Symptoms)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, diag)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"symptoms": h.svc.KnownSymptoms()})
}

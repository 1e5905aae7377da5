package scheduling

import (
	"net/http"
	"time"

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

// RegisterRoutes mounts the calendar and appointment endpoints. The public
// group carries no auth; the api group runs behind the token middleware.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.GET("/appointments/slots", h.GetAvailableSlots)

	patient := api.Group("", auth.RequireRole(auth.RolePatient))
	patient.POST("/appointments", h.CreateAppointment)
	patient.GET("/appointments/my", h.ListMyAppointments)
	patient.PUT("/appointments/:id/cancel", h.CancelMyAppointment)

	doctor := api.Group("/doctors/me", auth.RequireRole(auth.RoleDoctor))
	doctor.POST("/schedules", h.SetSchedule)
	doctor.GET("/schedules", h.ListSchedules)
	doctor.GET("/schedules/:date", h.GetSchedule)
	doctor.DELETE("/schedules/:date", h.DeleteSchedule)
	doctor.GET("/appointments", h.ListDoctorAppointments)
	doctor.GET("/appointments/:id", h.GetDoctorAppointment)
	doctor.PUT("/appointments/:id", h.UpdateAppointmentStatus)
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// -- Calendar handlers --

type setScheduleRequest struct {
	Date   string      `json:"date"`
	Shifts []WorkShift `json:"shifts"`
}

func (h *Handler) SetSchedule(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	var req setScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	cal, err := h.svc.SetDay(c.Request().Context(), caller.ID, day, req.Shifts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

func (h *Handler) ListSchedules(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	from := NormalizeDay(time.Now())
	to := from.AddDate(0, 0, 6)
	if s := c.QueryParam("from"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		from = d
	}
	if s := c.QueryParam("to"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		to = d
	}

	cals, err := h.svc.ListDays(c.Request().Context(), caller.ID, from, to)
	if err != nil {
		return err
	}
	if cals == nil {
		cals = []*DayCalendar{}
	}
	return c.JSON(http.StatusOK, cals)
}

func (h *Handler) GetSchedule(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	day, err := parseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	cal, err := h.svc.GetDay(c.Request().Context(), caller.ID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

func (h *Handler) DeleteSchedule(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	day, err := parseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	if err := h.svc.DeleteDay(c.Request().Context(), caller.ID, day); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Slot handlers --

func (h *Handler) GetAvailableSlots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	day, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required, expected YYYY-MM-DD")
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":                     NormalizeDay(day),
		"available_slots_by_shift": slots,
	})
}

// -- Appointment handlers --

type createAppointmentRequest struct {
	DoctorID       uuid.UUID  `json:"doctor_id"`
	Date           string     `json:"date"`
	Shift          ShiftLabel `json:"shift"`
	StartTime      string     `json:"start_time"`
	ReasonForVisit string     `json:"reason_for_visit"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	appt, err := h.svc.Book(c.Request().Context(), caller.ID, BookRequest{
		DoctorID:       req.DoctorID,
		Day:            day,
		Shift:          req.Shift,
		StartTime:      req.StartTime,
		ReasonForVisit: req.ReasonForVisit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ListMyAppointments(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)
	pg := pagination.FromContext(c)

	items, total, err := h.svc.ListForPatient(c.Request().Context(), caller.ID,
		c.QueryParam("status"), c.QueryParam("period"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CancelMyAppointment(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	appt, err := h.svc.CancelByPatient(c.Request().Context(), caller.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListDoctorAppointments(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)
	pg := pagination.FromContext(c)

	var day *time.Time
	if s := c.QueryParam("date"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		day = &d
	}

	items, total, err := h.svc.ListForDoctor(c.Request().Context(), caller.ID,
		c.QueryParam("status"), day, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDoctorAppointment(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	appt, err := h.svc.GetForDoctor(c.Request().Context(), caller.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

type updateStatusRequest struct {
	Status AppointmentStatus `json:"status"`
	Notes  *string           `json:"notes"`
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	caller, _ := auth.CallerFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.svc.DoctorUpdateStatus(c.Request().Context(), caller.ID, id, req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

package note

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staffRead := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleNurse))
	staffRead.GET("/notes", h.List)
	staffRead.GET("/notes/today", h.ListToday)
	staffRead.GET("/notes/staff/:id", h.ListByStaff)
	staffRead.GET("/notes/appointment/:id", h.GetByAppointment)

	anyRole := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleNurse, auth.RolePatient))
	anyRole.GET("/notes/:id", h.Get)
	anyRole.GET("/notes/patient/:id", h.ListByPatient)

	authors := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RolePhysician))
	authors.POST("/notes", h.Create)
	authors.PUT("/notes/:id", h.Update)

	api.DELETE("/notes/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	notes, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, notes, total)
}

func (h *Handler) ListToday(c echo.Context) error {
	pg := pagination.FromContext(c)
	notes, total, err := h.svc.ListToday(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, notes, total)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid clinical note id")
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, n)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	notes, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, notes, total)
}

func (h *Handler) ListByStaff(c echo.Context) error {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid staff id")
	}
	pg := pagination.FromContext(c)
	notes, total, err := h.svc.ListByStaff(c.Request().Context(), staffID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, notes, total)
}

func (h *Handler) GetByAppointment(c echo.Context) error {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid appointment id")
	}
	n, err := h.svc.GetByAppointment(c.Request().Context(), appointmentID)
	if err != nil {
		return err
	}
	return response.OK(c, n)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	n, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "clinical note created", n)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid clinical note id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	n, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.OK(c, n)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid clinical note id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "clinical note deleted")
}

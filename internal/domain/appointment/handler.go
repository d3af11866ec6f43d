package appointment

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
	staffRead.GET("/appointments", h.List)
	staffRead.GET("/appointments/staff/:id", h.ListByStaff)
	staffRead.POST("/appointments", h.Create)
	staffRead.PUT("/appointments/:id", h.Update)

	anyRole := api.Group("", auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleNurse, auth.RolePatient))
	anyRole.GET("/appointments/:id", h.Get)
	anyRole.GET("/appointments/patient/:id", h.ListByPatient)

	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, appts, total)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid appointment id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, a)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, appts, total)
}

func (h *Handler) ListByStaff(c echo.Context) error {
	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid staff id")
	}
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByStaff(c.Request().Context(), staffID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, appts, total)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "appointment created", a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid appointment id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	a, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.OK(c, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid appointment id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "appointment deleted")
}

package patient

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
	staffRead.GET("/patients", h.List)
	staffRead.GET("/patients/search/:term", h.Search)

	api.GET("/patients/:id", h.Get,
		auth.RequireRole(auth.RoleAdmin, auth.RolePhysician, auth.RoleNurse, auth.RolePatient))
	api.POST("/patients", h.Create,
		auth.RequireRole(auth.RoleAdmin, auth.RolePatient))

	adminOnly := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminOnly.PUT("/patients/:id", h.Update)
	adminOnly.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, patients, total)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.Search(c.Request().Context(), c.Param("term"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, patients, total)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "patient created", p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid patient id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "patient deleted")
}

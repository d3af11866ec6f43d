package staff

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
	staffRead.GET("/staff", h.List)
	staffRead.GET("/staff/search/:term", h.Search)
	staffRead.GET("/staff/:id", h.Get)
	staffRead.POST("/staff", h.Create)

	adminOnly := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminOnly.GET("/staff/stats", h.Stats)
	adminOnly.PUT("/staff/:id", h.Update)
	adminOnly.DELETE("/staff/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	staff, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, staff, total)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	staff, total, err := h.svc.Search(c.Request().Context(), c.Param("term"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.List(c, staff, total)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid staff id")
	}
	st, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, st)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	st, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "staff member created", st)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid staff id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	st, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return response.OK(c, st)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.New(apperr.InvalidValue, "invalid staff id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return response.OKMessage(c, "staff member deleted")
}

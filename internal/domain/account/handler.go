package account

import (
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public credential endpoints. These are the
// only routes outside the authenticated group.
func (h *Handler) RegisterRoutes(public *echo.Group) {
	public.POST("/auth/signup", h.Signup)
	public.POST("/auth/login", h.Login)
}

func (h *Handler) Signup(c echo.Context) error {
	var in SignupInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	acct, err := h.svc.Signup(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "account created", acct)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.InvalidValue, "malformed request body")
	}
	session, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return response.OK(c, session)
}

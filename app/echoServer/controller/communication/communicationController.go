package communication

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	cs "github.com/miccx-24/boardinghousebackend/service/communication"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type OpenReq struct {
	TenantID int64 `json:"tenant_id" validate:"required,gt=0"`
}

type SendReq struct {
	Content string `json:"content" validate:"required"`
}

type Controller struct {
	Svc     cs.Service
	Tenants ts.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/landlord/conversations
func (h *Controller) Open(c echo.Context) error {
	var req OpenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	conv, err := h.Svc.Open(c.Request().Context(), req.TenantID, p.UserID)
	if err != nil {
		return h.fail(c, "conversation open", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conv})
}

// POST /v1/tenant/conversations
func (h *Controller) OpenMine(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	conv, err := h.Svc.Open(c.Request().Context(), tenant.ID, tenant.LandlordID)
	if err != nil {
		return h.fail(c, "conversation open", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conv})
}

// GET /v1/landlord/conversations
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	rows, err := h.Svc.ListForLandlord(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "conversation list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// POST /v1/{landlord,tenant}/conversations/:id/messages
func (h *Controller) Send(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req SendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	msg, err := h.Svc.Send(c.Request().Context(), id, p.UserID, req.Content)
	if err != nil {
		return h.fail(c, "message send", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// GET /v1/{landlord,tenant}/conversations/:id/messages
func (h *Controller) Messages(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)

	rows, err := h.Svc.Messages(c.Request().Context(), id, p.UserID)
	if err != nil {
		return h.fail(c, "messages", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch cs.Code(err) {
	case cs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "conversation not found"})
	case cs.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "forbidden"})
	case cs.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

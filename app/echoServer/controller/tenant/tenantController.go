package tenant

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CreateTenantReq struct {
	Name               string  `json:"name" validate:"required"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              *string `json:"phone"`
	UserID             *int64  `json:"user_id"`
	GatewayCustomerRef *string `json:"gateway_customer_ref"`
}

type AssignRoomReq struct {
	RoomID int64 `json:"room_id" validate:"required,gt=0"`
}

type Controller struct {
	Svc ts.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/landlord/tenants
func (h *Controller) Create(c echo.Context) error {
	var req CreateTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	t, err := h.Svc.Create(c.Request().Context(), p.UserID, ts.CreateInput{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		UserID:             req.UserID,
		GatewayCustomerRef: req.GatewayCustomerRef,
	})
	if err != nil {
		return h.fail(c, "tenant create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": t})
}

// GET /v1/landlord/tenants
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	rows, err := h.Svc.List(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "tenant list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/tenants/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	t, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "tenant detail", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// GET /v1/tenant/profile
func (h *Controller) Profile(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	t, err := h.Svc.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "tenant profile", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// POST /v1/landlord/tenants/:id/assign-room
func (h *Controller) AssignRoom(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req AssignRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}

	t, err := h.Svc.AssignRoom(c.Request().Context(), id, req.RoomID)
	if err != nil {
		return h.fail(c, "assign room", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": t})
}

// POST /v1/landlord/tenants/:id/remove-room
func (h *Controller) RemoveFromRoom(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	if err := h.Svc.RemoveFromRoom(c.Request().Context(), id); err != nil {
		return h.fail(c, "remove from room", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"tenant_id": id}})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch ts.Code(err) {
	case ts.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
	case ts.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "room not found"})
	case ts.ErrRoomOccupied:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "room is not available"})
	case ts.ErrNoRoom:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "tenant has no room"})
	case ts.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

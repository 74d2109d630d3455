package room

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	rs "github.com/miccx-24/boardinghousebackend/service/room"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/landlord/rooms
func (h *Controller) Create(c echo.Context) error {
	var req CreateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	rm, err := h.Svc.Create(c.Request().Context(), p.UserID, rs.CreateInput{
		Number:    req.Number,
		Type:      req.Type,
		Price:     req.Price,
		Capacity:  req.Capacity,
		Amenities: req.Amenities,
		Notes:     req.Notes,
	})
	if err != nil {
		return h.fail(c, "room create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": rm})
}

// GET /v1/landlord/rooms
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	rows, err := h.Svc.List(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "room list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/rooms/maintenance
func (h *Controller) Maintenance(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	rows, err := h.Svc.MaintenanceRooms(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "maintenance rooms", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/rooms/stats
func (h *Controller) Stats(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	st, err := h.Svc.Stats(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "room stats", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": st})
}

// PATCH /v1/landlord/rooms/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req UpdateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}

	rm, err := h.Svc.Update(c.Request().Context(), id, rs.UpdateInput{
		Number:   req.Number,
		Type:     req.Type,
		Status:   req.Status,
		Price:    req.Price,
		Capacity: req.Capacity,
		Notes:    req.Notes,
	})
	if err != nil {
		return h.fail(c, "room update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rm})
}

// DELETE /v1/landlord/rooms/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "room delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": id}})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch rs.Code(err) {
	case rs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "room not found"})
	case rs.ErrDuplicateNumber:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "room number already exists"})
	case rs.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

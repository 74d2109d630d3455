package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	inventoryrepo "github.com/miccx-24/boardinghousebackend/repository/inventory"
	is "github.com/miccx-24/boardinghousebackend/service/inventory"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AddItemReq struct {
	Name          string           `json:"name" validate:"required"`
	Category      string           `json:"category" validate:"required"`
	Quantity      int              `json:"quantity" validate:"required,gt=0"`
	Condition     string           `json:"condition" validate:"required"`
	RoomID        *int64           `json:"room_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Description   *string          `json:"description"`
}

type UpdateItemReq struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Quantity      *int             `json:"quantity"`
	Condition     *string          `json:"condition"`
	RoomID        *int64           `json:"room_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Description   *string          `json:"description"`
}

type TransferReq struct {
	RoomID   int64 `json:"room_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/landlord/inventory
func (h *Controller) Add(c echo.Context) error {
	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	item, err := h.Svc.Add(c.Request().Context(), p.UserID, is.AddInput{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Condition:     req.Condition,
		RoomID:        req.RoomID,
		PurchasePrice: req.PurchasePrice,
		Description:   req.Description,
	})
	if err != nil {
		return h.fail(c, "inventory add", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": item})
}

// GET /v1/landlord/inventory
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	f := inventoryrepo.Filter{
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
	}
	if v := c.QueryParam("room_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid room_id"})
		}
		f.RoomID = id
	}

	rows, err := h.Svc.List(c.Request().Context(), p.UserID, f)
	if err != nil {
		return h.fail(c, "inventory list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// PATCH /v1/landlord/inventory/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}

	item, err := h.Svc.Update(c.Request().Context(), id, is.UpdateInput{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Condition:     req.Condition,
		RoomID:        req.RoomID,
		PurchasePrice: req.PurchasePrice,
		Description:   req.Description,
	})
	if err != nil {
		return h.fail(c, "inventory update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": item})
}

// DELETE /v1/landlord/inventory/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "inventory delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": id}})
}

// POST /v1/landlord/inventory/:id/transfer
func (h *Controller) Transfer(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req TransferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	item, err := h.Svc.Transfer(c.Request().Context(), p.UserID, id, req.RoomID, req.Quantity)
	if err != nil {
		return h.fail(c, "inventory transfer", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": item})
}

// GET /v1/landlord/inventory/report
func (h *Controller) Report(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	rep, err := h.Svc.Report(c.Request().Context(), p.UserID)
	if err != nil {
		return h.fail(c, "inventory report", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rep})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch is.Code(err) {
	case is.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "item not found"})
	case is.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "room not found"})
	case is.ErrBadQuantity:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "quantity exceeds available stock"})
	case is.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

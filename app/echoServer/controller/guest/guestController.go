package guest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	"github.com/miccx-24/boardinghousebackend/model"
	guestrepo "github.com/miccx-24/boardinghousebackend/repository/guest"
	gs "github.com/miccx-24/boardinghousebackend/service/guest"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RegisterGuestReq struct {
	TenantID         int64  `json:"tenant_id" validate:"required,gt=0"`
	Name             string `json:"name" validate:"required"`
	Identification   string `json:"identification" validate:"required"`
	ContactNumber    string `json:"contact_number"`
	Purpose          string `json:"purpose"`
	ExpectedDuration string `json:"expected_duration"`
	StartDate        string `json:"start_date" validate:"required"`
}

type DecisionReq struct {
	Notes *string `json:"notes"`
}

type Controller struct {
	Svc gs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/landlord/guests
func (h *Controller) Register(c echo.Context) error {
	var req RegisterGuestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	g, err := h.Svc.Register(c.Request().Context(), p.UserID, gs.RegisterInput{
		TenantID:         req.TenantID,
		Name:             req.Name,
		Identification:   req.Identification,
		ContactNumber:    req.ContactNumber,
		Purpose:          req.Purpose,
		ExpectedDuration: req.ExpectedDuration,
		StartDate:        req.StartDate,
	})
	if err != nil {
		return h.fail(c, "guest register", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": g})
}

// GET /v1/landlord/guests
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	f := guestrepo.Filter{Status: model.GuestStatus(c.QueryParam("status"))}
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		f.TenantID = id
	}

	rows, err := h.Svc.List(c.Request().Context(), p.UserID, f)
	if err != nil {
		return h.fail(c, "guest list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// POST /v1/landlord/guests/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	return h.decide(c, h.Svc.Approve, "guest approve")
}

// POST /v1/landlord/guests/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	return h.decide(c, h.Svc.Reject, "guest reject")
}

type decideFn func(ctx context.Context, guestID, actorID int64, notes *string) (*model.Guest, error)

func (h *Controller) decide(c echo.Context, fn decideFn, op string) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req DecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	p, _ := jwtx.FromContext(c)

	g, err := fn(c.Request().Context(), id, p.UserID, req.Notes)
	if err != nil {
		return h.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": g})
}

// POST /v1/landlord/guests/:id/checkout
func (h *Controller) Checkout(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	if err := h.Svc.Checkout(c.Request().Context(), id); err != nil {
		return h.fail(c, "guest checkout", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"checked_out": id}})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch gs.Code(err) {
	case gs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "guest not found"})
	case gs.ErrTenantNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
	case gs.ErrNotPending:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "guest already decided"})
	case gs.ErrNotApproved:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "guest is not checked in"})
	case gs.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

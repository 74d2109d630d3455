package billing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	bs "github.com/miccx-24/boardinghousebackend/service/billing"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc     bs.Service
	Tenants ts.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/landlord/bills
func (h *Controller) Create(c echo.Context) error {
	var req CreateBillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	bill, err := h.Svc.Create(c.Request().Context(), bs.CreateInput{
		TenantID:    req.TenantID,
		LandlordID:  p.UserID,
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
		BillType:    req.BillType,
	})
	if err != nil {
		return h.fail(c, "bill create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": bill})
}

// PATCH /v1/landlord/bills/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req UpdateBillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}

	bill, err := h.Svc.Update(c.Request().Context(), id, bs.UpdateInput{
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
		BillType:    req.BillType,
	})
	if err != nil {
		return h.fail(c, "bill update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": bill})
}

// DELETE /v1/landlord/bills/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)

	if err := h.Svc.Delete(c.Request().Context(), id, p.UserID); err != nil {
		return h.fail(c, "bill delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": id}})
}

// GET /v1/landlord/bills
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	in := bs.ListInput{
		Status:    c.QueryParam("status"),
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
	}
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		in.TenantID = id
	}

	bills, err := h.Svc.List(c.Request().Context(), p.UserID, in)
	if err != nil {
		return h.fail(c, "bill list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": bills})
}

// GET /v1/billing/history
func (h *Controller) History(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	hist, err := h.Svc.History(c.Request().Context(), tenant.ID, c.QueryParam("period"), c.QueryParam("search"))
	if err != nil {
		return h.fail(c, "billing history", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": hist})
}

// GET /v1/tenant/balance
func (h *Controller) Balance(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	bal, err := h.Svc.Balance(c.Request().Context(), tenant.ID)
	if err != nil {
		return h.fail(c, "balance", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"balance": bal}})
}

// POST /v1/landlord/billing/overdue/run
func (h *Controller) RunOverdue(c echo.Context) error {
	n, err := h.Svc.SweepOverdue(c.Request().Context())
	if err != nil {
		return h.fail(c, "overdue sweep", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"marked_overdue": n}})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch bs.Code(err) {
	case bs.ErrTenantNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
	case bs.ErrBillNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "bill not found"})
	case bs.ErrBadAmount:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amount must be greater than zero"})
	case bs.ErrBadDate:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid date"})
	case bs.ErrBadType:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid bill type"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

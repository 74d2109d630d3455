package payment

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	"github.com/miccx-24/boardinghousebackend/model"
	paymentrepo "github.com/miccx-24/boardinghousebackend/repository/payment"
	ps "github.com/miccx-24/boardinghousebackend/service/payment"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc     ps.Service
	Tenants ts.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/billing/pay
func (h *Controller) Pay(c echo.Context) error {
	var req PayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	pay, err := h.Svc.ProcessOnline(c.Request().Context(), ps.OnlineInput{
		TenantID: tenant.ID,
		BillID:   req.BillID,
		Amount:   req.Amount,
		Method:   req.Method,
	})
	if err != nil {
		return h.fail(c, "online payment", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": pay})
}

// POST /v1/landlord/payments
func (h *Controller) Record(c echo.Context) error {
	var req RecordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	pay, err := h.Svc.Record(c.Request().Context(), ps.RecordInput{
		TenantID:    req.TenantID,
		LandlordID:  p.UserID,
		BillID:      req.BillID,
		Amount:      req.Amount,
		Method:      req.Method,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		return h.fail(c, "record payment", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": pay})
}

// POST /v1/billing/void/:paymentId
func (h *Controller) Void(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("paymentId"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req VoidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	pay, err := h.Svc.Void(c.Request().Context(), id, req.Reason, p.UserID)
	if err != nil {
		return h.fail(c, "void payment", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": pay})
}

// GET /v1/landlord/payments
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	f := paymentrepo.Filter{
		Status: model.PaymentStatus(c.QueryParam("status")),
		Method: c.QueryParam("method"),
	}
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		f.TenantID = id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid from date"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid to date"})
		}
		f.To = &t
	}

	rows, err := h.Svc.List(c.Request().Context(), p.UserID, f)
	if err != nil {
		return h.fail(c, "payment list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/payments/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)

	pay, err := h.Svc.Detail(c.Request().Context(), id, p.UserID)
	if err != nil {
		return h.fail(c, "payment detail", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": pay})
}

// GET /v1/landlord/payments/stats
func (h *Controller) Stats(c echo.Context) error {
	var tenantID int64
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		tenantID = id
	}

	p, _ := jwtx.FromContext(c)
	st, err := h.Svc.Stats(c.Request().Context(), p.UserID, tenantID)
	if err != nil {
		return h.fail(c, "payment stats", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": st})
}

// POST /v1/tenant/payments
func (h *Controller) CreateMine(c echo.Context) error {
	var req TenantPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	pay, err := h.Svc.CreateTenantPayment(c.Request().Context(), tenant.ID, req.Amount, req.Method)
	if err != nil {
		return h.fail(c, "tenant payment", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": pay})
}

// GET /v1/tenant/payments
func (h *Controller) ListMine(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	rows, err := h.Svc.ListForTenant(c.Request().Context(), tenant.ID)
	if err != nil {
		return h.fail(c, "tenant payment list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// DELETE /v1/tenant/payments/:id
func (h *Controller) CancelMine(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	if err := h.Svc.CancelPending(c.Request().Context(), tenant.ID, id); err != nil {
		return h.fail(c, "cancel payment", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"cancelled": id}})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch ps.Code(err) {
	case ps.ErrTenantNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
	case ps.ErrBillNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "bill not found"})
	case ps.ErrPaymentNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "payment not found"})
	case ps.ErrBillNotPayable:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "bill is not payable"})
	case ps.ErrNotVoidable:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "only completed payments can be voided"})
	case ps.ErrBadAmount:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amount must be greater than zero"})
	case ps.ErrBadDate:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid date"})
	case ps.ErrNoCustomerRef:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "tenant has no payment profile"})
	case ps.ErrDeclined:
		return c.JSON(http.StatusPaymentRequired, echo.Map{"success": false, "message": "payment declined"})
	case ps.ErrGateway:
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "payment gateway unavailable"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

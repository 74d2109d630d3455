package lease

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	"github.com/miccx-24/boardinghousebackend/model"
	leaserepo "github.com/miccx-24/boardinghousebackend/repository/lease"
	ls "github.com/miccx-24/boardinghousebackend/service/lease"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CreateLeaseReq struct {
	TenantID    int64           `json:"tenant_id" validate:"required,gt=0"`
	RoomID      int64           `json:"room_id" validate:"required,gt=0"`
	StartDate   string          `json:"start_date" validate:"required"`
	EndDate     string          `json:"end_date" validate:"required"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Terms       string          `json:"terms"`
}

type Controller struct {
	Svc     ls.Service
	Tenants ts.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/landlord/leases
func (h *Controller) Create(c echo.Context) error {
	var req CreateLeaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	l, err := h.Svc.Create(c.Request().Context(), p.UserID, ls.CreateInput{
		TenantID:    req.TenantID,
		RoomID:      req.RoomID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MonthlyRent: req.MonthlyRent,
		Terms:       req.Terms,
	})
	if err != nil {
		return h.fail(c, "lease create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": l})
}

// GET /v1/landlord/leases
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	f := leaserepo.Filter{Status: model.LeaseStatus(c.QueryParam("status"))}
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		f.TenantID = id
	}

	rows, err := h.Svc.List(c.Request().Context(), p.UserID, f)
	if err != nil {
		return h.fail(c, "lease list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/leases/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)

	l, err := h.Svc.Detail(c.Request().Context(), p.UserID, id)
	if err != nil {
		return h.fail(c, "lease detail", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": l})
}

// POST /v1/landlord/leases/:id/terminate
func (h *Controller) Terminate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	p, _ := jwtx.FromContext(c)

	l, err := h.Svc.Terminate(c.Request().Context(), p.UserID, id)
	if err != nil {
		return h.fail(c, "lease terminate", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": l})
}

// POST /v1/landlord/leases/expire/run
func (h *Controller) RunExpiry(c echo.Context) error {
	n, err := h.Svc.SweepExpired(c.Request().Context())
	if err != nil {
		return h.fail(c, "lease expiry sweep", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"expired": n}})
}

// GET /v1/tenant/lease
func (h *Controller) Mine(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	l, err := h.Svc.ActiveForTenant(c.Request().Context(), tenant.ID)
	if err != nil {
		return h.fail(c, "active lease", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": l})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch ls.Code(err) {
	case ls.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "lease not found"})
	case ls.ErrTenantNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant not found"})
	case ls.ErrRoomNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "room not found"})
	case ls.ErrNotActive:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "lease is not active"})
	case ls.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

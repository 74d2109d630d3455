package maintenance

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/miccx-24/boardinghousebackend/app/echoServer/jwtx"
	"github.com/miccx-24/boardinghousebackend/model"
	maintrepo "github.com/miccx-24/boardinghousebackend/repository/maintenance"
	ms "github.com/miccx-24/boardinghousebackend/service/maintenance"
	ts "github.com/miccx-24/boardinghousebackend/service/tenant"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CreateRequestReq struct {
	RoomID      *int64 `json:"room_id"`
	Issue       string `json:"issue" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

type AssignReq struct {
	Assignee string `json:"assignee" validate:"required"`
}

type NoteReq struct {
	Content string `json:"content" validate:"required"`
}

type Controller struct {
	Svc     ms.Service
	Tenants ts.Service
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/tenant/maintenance
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
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

	mr, err := h.Svc.Create(c.Request().Context(), tenant.ID, tenant.LandlordID, ms.CreateInput{
		RoomID:      req.RoomID,
		Issue:       req.Issue,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return h.fail(c, "maintenance create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": mr})
}

// GET /v1/tenant/maintenance
func (h *Controller) ListMine(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	tenant, err := h.Tenants.ByUser(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "tenant profile not found"})
	}

	rows, err := h.Svc.ListForTenant(c.Request().Context(), tenant.ID)
	if err != nil {
		return h.fail(c, "maintenance list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// GET /v1/landlord/maintenance
func (h *Controller) List(c echo.Context) error {
	p, _ := jwtx.FromContext(c)
	f := maintrepo.Filter{
		Status:   model.MaintenanceStatus(c.QueryParam("status")),
		Priority: model.MaintenancePriority(c.QueryParam("priority")),
	}
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid tenant_id"})
		}
		f.TenantID = id
	}

	rows, err := h.Svc.List(c.Request().Context(), p.UserID, f)
	if err != nil {
		return h.fail(c, "maintenance list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// PATCH /v1/landlord/maintenance/:id/status
func (h *Controller) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return h.fail(c, "maintenance status", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": id, "status": req.Status}})
}

// POST /v1/landlord/maintenance/:id/assign
func (h *Controller) Assign(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req AssignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Assign(c.Request().Context(), id, req.Assignee); err != nil {
		return h.fail(c, "maintenance assign", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": id, "assigned_to": req.Assignee}})
}

// POST /v1/landlord/maintenance/:id/notes
func (h *Controller) AddNote(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	var req NoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "validation error", "errors": err.Error()})
	}
	p, _ := jwtx.FromContext(c)

	note, err := h.Svc.AddNote(c.Request().Context(), id, p.UserID, req.Content)
	if err != nil {
		return h.fail(c, "maintenance note", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": note})
}

// GET /v1/landlord/maintenance/:id/notes
func (h *Controller) Notes(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid id"})
	}
	rows, err := h.Svc.Notes(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "maintenance notes", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch ms.Code(err) {
	case ms.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "request not found"})
	case ms.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "bad input"})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		h.Log.Error(op, "err", err, "req_id", rid, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
	}
}

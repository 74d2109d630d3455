package maintsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
	maintrepo "github.com/miccx-24/boardinghousebackend/repository/maintenance"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrBadInput ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type CreateInput struct {
	RoomID      *int64
	Issue       string
	Description string
	Priority    string
}

type Service interface {
	Create(ctx context.Context, tenantID, landlordID int64, in CreateInput) (*model.MaintenanceRequest, error)
	List(ctx context.Context, landlordID int64, f maintrepo.Filter) ([]model.MaintenanceRequest, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]model.MaintenanceRequest, error)
	SetStatus(ctx context.Context, requestID int64, status string) error
	Assign(ctx context.Context, requestID int64, assignee string) error
	AddNote(ctx context.Context, requestID, authorID int64, content string) (*model.MaintenanceNote, error)
	Notes(ctx context.Context, requestID int64) ([]model.MaintenanceNote, error)
}

type service struct {
	r   maintrepo.Repo
	now func() time.Time
}

func New(r maintrepo.Repo) Service { return &service{r: r, now: time.Now} }

func validPriority(p string) bool {
	switch model.MaintenancePriority(p) {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityEmergency:
		return true
	}
	return false
}

func validStatus(st string) bool {
	switch model.MaintenanceStatus(st) {
	case model.MaintenancePending, model.MaintenanceInProgress, model.MaintenanceCompleted, model.MaintenanceCancelled:
		return true
	}
	return false
}

func (s *service) Create(ctx context.Context, tenantID, landlordID int64, in CreateInput) (*model.MaintenanceRequest, error) {
	if in.Issue == "" || in.Description == "" {
		return nil, makeErr(ErrBadInput)
	}
	priority := in.Priority
	if priority == "" {
		priority = string(model.PriorityLow)
	}
	if !validPriority(priority) {
		return nil, makeErr(ErrBadInput)
	}

	m := &model.MaintenanceRequest{
		TenantID:    tenantID,
		LandlordID:  landlordID,
		RoomID:      in.RoomID,
		Issue:       in.Issue,
		Description: in.Description,
		Priority:    model.MaintenancePriority(priority),
	}
	if err := s.r.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) List(ctx context.Context, landlordID int64, f maintrepo.Filter) ([]model.MaintenanceRequest, error) {
	return s.r.List(ctx, landlordID, f)
}

func (s *service) ListForTenant(ctx context.Context, tenantID int64) ([]model.MaintenanceRequest, error) {
	return s.r.ListForTenant(ctx, tenantID)
}

func (s *service) SetStatus(ctx context.Context, requestID int64, status string) error {
	if !validStatus(status) {
		return makeErr(ErrBadInput)
	}
	var completedAt *time.Time
	if model.MaintenanceStatus(status) == model.MaintenanceCompleted {
		at := s.now()
		completedAt = &at
	}
	ok, err := s.r.SetStatus(ctx, requestID, model.MaintenanceStatus(status), completedAt)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Assign(ctx context.Context, requestID int64, assignee string) error {
	if assignee == "" {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.Assign(ctx, requestID, assignee)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) AddNote(ctx context.Context, requestID, authorID int64, content string) (*model.MaintenanceNote, error) {
	if content == "" {
		return nil, makeErr(ErrBadInput)
	}
	if _, err := s.r.ByID(ctx, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	n := &model.MaintenanceNote{RequestID: requestID, AuthorID: authorID, Content: content}
	if err := s.r.AddNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Notes(ctx context.Context, requestID int64) ([]model.MaintenanceNote, error) {
	return s.r.Notes(ctx, requestID)
}

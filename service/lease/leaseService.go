package leasesvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
	leaserepo "github.com/miccx-24/boardinghousebackend/repository/lease"
)

type ErrCode string

const (
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrTenantNotFound ErrCode = "TENANT_NOT_FOUND"
	ErrRoomNotFound   ErrCode = "ROOM_NOT_FOUND"
	ErrNotActive      ErrCode = "NOT_ACTIVE"
	ErrBadInput       ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type CreateInput struct {
	TenantID    int64
	RoomID      int64
	StartDate   string
	EndDate     string
	MonthlyRent decimal.Decimal
	Terms       string
}

type TenantRepo interface {
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
}

type RoomRepo interface {
	ByID(ctx context.Context, id int64) (*model.Room, error)
}

type Service interface {
	Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Lease, error)
	List(ctx context.Context, landlordID int64, f leaserepo.Filter) ([]model.Lease, error)
	Detail(ctx context.Context, landlordID, leaseID int64) (*model.Lease, error)
	ActiveForTenant(ctx context.Context, tenantID int64) (*model.Lease, error)
	Terminate(ctx context.Context, landlordID, leaseID int64) (*model.Lease, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	leases  leaserepo.Repo
	tenants TenantRepo
	rooms   RoomRepo
	now     func() time.Time
}

func New(leases leaserepo.Repo, tenants TenantRepo, rooms RoomRepo) Service {
	return &service{leases: leases, tenants: tenants, rooms: rooms, now: time.Now}
}

func (s *service) Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Lease, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, makeErr(ErrBadInput)
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, makeErr(ErrBadInput)
	}
	if !end.After(start) || in.MonthlyRent.LessThanOrEqual(decimal.Zero) {
		return nil, makeErr(ErrBadInput)
	}

	tenant, err := s.tenants.ByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}
	if tenant.LandlordID != landlordID {
		return nil, makeErr(ErrTenantNotFound)
	}
	if _, err := s.rooms.ByID(ctx, in.RoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrRoomNotFound)
		}
		return nil, err
	}

	l := &model.Lease{
		TenantID:    in.TenantID,
		LandlordID:  landlordID,
		RoomID:      in.RoomID,
		StartDate:   start,
		EndDate:     end,
		MonthlyRent: in.MonthlyRent,
		Terms:       in.Terms,
	}
	if err := s.leases.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) List(ctx context.Context, landlordID int64, f leaserepo.Filter) ([]model.Lease, error) {
	return s.leases.List(ctx, landlordID, f)
}

func (s *service) Detail(ctx context.Context, landlordID, leaseID int64) (*model.Lease, error) {
	l, err := s.leases.ByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if l.LandlordID != landlordID {
		return nil, makeErr(ErrNotFound)
	}
	return l, nil
}

func (s *service) ActiveForTenant(ctx context.Context, tenantID int64) (*model.Lease, error) {
	l, err := s.leases.ActiveForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

func (s *service) Terminate(ctx context.Context, landlordID, leaseID int64) (*model.Lease, error) {
	l, err := s.Detail(ctx, landlordID, leaseID)
	if err != nil {
		return nil, err
	}
	ok, err := s.leases.Terminate(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotActive)
	}
	l.Status = model.LeaseTerminated
	return l, nil
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	return s.leases.MarkExpiredBefore(ctx, s.now())
}

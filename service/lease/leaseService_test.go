package leasesvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/miccx-24/boardinghousebackend/model"
	leaserepo "github.com/miccx-24/boardinghousebackend/repository/lease"
)

type leasesMock struct {
	insertFn    func(ctx context.Context, l *model.Lease) error
	byIDFn      func(ctx context.Context, id int64) (*model.Lease, error)
	terminateFn func(ctx context.Context, id int64) (bool, error)
	sweepFn     func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *leasesMock) Insert(ctx context.Context, l *model.Lease) error { return m.insertFn(ctx, l) }
func (m *leasesMock) ByID(ctx context.Context, id int64) (*model.Lease, error) {
	return m.byIDFn(ctx, id)
}
func (m *leasesMock) List(ctx context.Context, landlordID int64, f leaserepo.Filter) ([]model.Lease, error) {
	return nil, nil
}
func (m *leasesMock) ActiveForTenant(ctx context.Context, tenantID int64) (*model.Lease, error) {
	return nil, sql.ErrNoRows
}
func (m *leasesMock) Terminate(ctx context.Context, id int64) (bool, error) {
	return m.terminateFn(ctx, id)
}
func (m *leasesMock) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.sweepFn(ctx, cutoff)
}

type tenantsMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Tenant, error)
}

func (m *tenantsMock) ByID(ctx context.Context, id int64) (*model.Tenant, error) {
	return m.byIDFn(ctx, id)
}

type roomsMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Room, error)
}

func (m *roomsMock) ByID(ctx context.Context, id int64) (*model.Room, error) {
	return m.byIDFn(ctx, id)
}

func tenantOf(landlordID int64) *tenantsMock {
	return &tenantsMock{byIDFn: func(ctx context.Context, id int64) (*model.Tenant, error) {
		return &model.Tenant{ID: id, LandlordID: landlordID}, nil
	}}
}

func roomOK() *roomsMock {
	return &roomsMock{byIDFn: func(ctx context.Context, id int64) (*model.Room, error) {
		return &model.Room{ID: id}, nil
	}}
}

func validInput() CreateInput {
	return CreateInput{
		TenantID:    3,
		RoomID:      5,
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MonthlyRent: decimal.RequireFromString("450.00"),
		Terms:       "no smoking",
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&leasesMock{}, tenantOf(1), roomOK())

	bad := validInput()
	bad.StartDate = "01/01/2026"
	_, err := svc.Create(context.Background(), 1, bad)
	require.Equal(t, ErrBadInput, Code(err))

	bad = validInput()
	bad.EndDate = bad.StartDate
	_, err = svc.Create(context.Background(), 1, bad)
	require.Equal(t, ErrBadInput, Code(err))

	bad = validInput()
	bad.MonthlyRent = decimal.Zero
	_, err = svc.Create(context.Background(), 1, bad)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestCreate_TenantScope(t *testing.T) {
	missing := &tenantsMock{byIDFn: func(ctx context.Context, id int64) (*model.Tenant, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(&leasesMock{}, missing, roomOK())
	_, err := svc.Create(context.Background(), 1, validInput())
	require.Equal(t, ErrTenantNotFound, Code(err))

	// another landlord's tenant looks the same as a missing one
	svc = New(&leasesMock{}, tenantOf(2), roomOK())
	_, err = svc.Create(context.Background(), 1, validInput())
	require.Equal(t, ErrTenantNotFound, Code(err))
}

func TestCreate_Success(t *testing.T) {
	var got *model.Lease
	lm := &leasesMock{insertFn: func(ctx context.Context, l *model.Lease) error {
		got = l
		l.ID = 11
		l.Status = model.LeaseActive
		return nil
	}}
	svc := New(lm, tenantOf(1), roomOK())

	l, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)
	require.Equal(t, got, l)
	require.Equal(t, int64(1), l.LandlordID)
	require.Equal(t, model.LeaseActive, l.Status)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), l.StartDate)
	require.True(t, l.MonthlyRent.Equal(decimal.RequireFromString("450.00")))
}

func TestDetail_HidesForeignLease(t *testing.T) {
	lm := &leasesMock{byIDFn: func(ctx context.Context, id int64) (*model.Lease, error) {
		return &model.Lease{ID: id, LandlordID: 2, Status: model.LeaseActive}, nil
	}}
	svc := New(lm, tenantOf(1), roomOK())

	_, err := svc.Detail(context.Background(), 1, 11)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestTerminate(t *testing.T) {
	lm := &leasesMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Lease, error) {
			return &model.Lease{ID: id, LandlordID: 1, Status: model.LeaseActive}, nil
		},
		terminateFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}
	svc := New(lm, tenantOf(1), roomOK())

	l, err := svc.Terminate(context.Background(), 1, 11)
	require.NoError(t, err)
	require.Equal(t, model.LeaseTerminated, l.Status)

	lm.terminateFn = func(ctx context.Context, id int64) (bool, error) { return false, nil }
	_, err = svc.Terminate(context.Background(), 1, 11)
	require.Equal(t, ErrNotActive, Code(err))
}

func TestSweepExpired(t *testing.T) {
	var cutoff time.Time
	lm := &leasesMock{sweepFn: func(ctx context.Context, c time.Time) (int64, error) {
		cutoff = c
		return 4, nil
	}}
	svc := New(lm, tenantOf(1), roomOK()).(*service)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }

	n, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), cutoff)
}

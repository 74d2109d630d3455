package billingsvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/miccx-24/boardinghousebackend/model"
	billrepo "github.com/miccx-24/boardinghousebackend/repository/bill"
	striperepo "github.com/miccx-24/boardinghousebackend/repository/stripe"
)

type billsMock struct {
	insertFn  func(ctx context.Context, b *model.Bill) error
	updateFn  func(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error)
	deleteFn  func(ctx context.Context, id, landlordID int64) (*string, bool, error)
	listFn    func(ctx context.Context, landlordID int64, f billrepo.Filter) ([]model.Bill, error)
	searchFn  func(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error)
	sumFn     func(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	overdueFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *billsMock) Insert(ctx context.Context, b *model.Bill) error { return m.insertFn(ctx, b) }
func (m *billsMock) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error) {
	return m.updateFn(ctx, id, fields)
}
func (m *billsMock) Delete(ctx context.Context, id, landlordID int64) (*string, bool, error) {
	return m.deleteFn(ctx, id, landlordID)
}
func (m *billsMock) List(ctx context.Context, landlordID int64, f billrepo.Filter) ([]model.Bill, error) {
	return m.listFn(ctx, landlordID, f)
}
func (m *billsMock) Search(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error) {
	return m.searchFn(ctx, tenantID, from, to, search)
}
func (m *billsMock) SumAmounts(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	return m.sumFn(ctx, tenantID)
}
func (m *billsMock) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.overdueFn(ctx, cutoff)
}

type tenantsMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Tenant, error)
}

func (m *tenantsMock) ByID(ctx context.Context, id int64) (*model.Tenant, error) {
	return m.byIDFn(ctx, id)
}

type paymentsMock struct {
	sumFn  func(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	lastFn func(ctx context.Context, tenantID int64) (decimal.Decimal, error)
}

func (m *paymentsMock) SumCompleted(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	return m.sumFn(ctx, tenantID)
}
func (m *paymentsMock) LastCompletedAmount(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	return m.lastFn(ctx, tenantID)
}

type invoicesMock struct {
	createFn func(ctx context.Context, req striperepo.CreateInvoiceReq) (*striperepo.CreateInvoiceResp, error)
	cancelFn func(ctx context.Context, invoiceID string) error
}

func (m *invoicesMock) CreateInvoice(ctx context.Context, req striperepo.CreateInvoiceReq) (*striperepo.CreateInvoiceResp, error) {
	return m.createFn(ctx, req)
}
func (m *invoicesMock) CancelInvoice(ctx context.Context, invoiceID string) error {
	return m.cancelFn(ctx, invoiceID)
}

func tenantWithRef(ref *string) *tenantsMock {
	return &tenantsMock{byIDFn: func(ctx context.Context, id int64) (*model.Tenant, error) {
		return &model.Tenant{ID: id, LandlordID: 1, Email: "t@example.com", GatewayCustomerRef: ref}, nil
	}}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- tests ---

func TestCreate_Validation(t *testing.T) {
	s := New(&billsMock{}, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	ctx := context.Background()

	_, err := s.Create(ctx, CreateInput{TenantID: 1, Amount: decimal.Zero, DueDate: "2026-09-01", BillType: "rent"})
	require.Equal(t, ErrBadAmount, Code(err))

	_, err = s.Create(ctx, CreateInput{TenantID: 1, Amount: dec("100"), DueDate: "not-a-date", BillType: "rent"})
	require.Equal(t, ErrBadDate, Code(err))

	_, err = s.Create(ctx, CreateInput{TenantID: 1, Amount: dec("100"), DueDate: "2026-09-01", BillType: "subscription"})
	require.Equal(t, ErrBadType, Code(err))
}

func TestCreate_TenantMissing(t *testing.T) {
	tm := &tenantsMock{byIDFn: func(ctx context.Context, id int64) (*model.Tenant, error) {
		return nil, sql.ErrNoRows
	}}
	s := New(&billsMock{}, tm, &paymentsMock{}, &invoicesMock{})

	_, err := s.Create(context.Background(), CreateInput{TenantID: 7, Amount: dec("100"), DueDate: "2026-09-01", BillType: "rent"})
	require.Equal(t, ErrTenantNotFound, Code(err))
}

func TestCreate_InvoiceOnlyWithGatewayRef(t *testing.T) {
	ctx := context.Background()
	created := 0
	inv := &invoicesMock{
		createFn: func(ctx context.Context, req striperepo.CreateInvoiceReq) (*striperepo.CreateInvoiceResp, error) {
			created++
			require.Equal(t, "cus_123", req.CustomerRef)
			return &striperepo.CreateInvoiceResp{InvoiceID: "in_9"}, nil
		},
	}
	bm := &billsMock{insertFn: func(ctx context.Context, b *model.Bill) error { b.ID = 5; return nil }}

	ref := "cus_123"
	s := New(bm, tenantWithRef(&ref), &paymentsMock{}, inv)
	b, err := s.Create(ctx, CreateInput{TenantID: 1, LandlordID: 1, Amount: dec("250"), Description: "Rent", DueDate: "2026-09-01", BillType: "rent"})
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.NotNil(t, b.ExternalInvoiceRef)
	require.Equal(t, "in_9", *b.ExternalInvoiceRef)

	// Tenants without a gateway profile never touch the provider.
	s = New(bm, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	b, err = s.Create(ctx, CreateInput{TenantID: 1, LandlordID: 1, Amount: dec("250"), DueDate: "2026-09-01", BillType: "rent"})
	require.NoError(t, err)
	require.Nil(t, b.ExternalInvoiceRef)
}

func TestUpdate_RejectsBadFields(t *testing.T) {
	s := New(&billsMock{}, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	ctx := context.Background()

	neg := dec("-5")
	_, err := s.Update(ctx, 1, UpdateInput{Amount: &neg})
	require.Equal(t, ErrBadAmount, Code(err))

	bad := "soon"
	_, err = s.Update(ctx, 1, UpdateInput{DueDate: &bad})
	require.Equal(t, ErrBadDate, Code(err))
}

func TestUpdate_NotFound(t *testing.T) {
	bm := &billsMock{updateFn: func(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error) {
		return nil, sql.ErrNoRows
	}}
	s := New(bm, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})

	d := "Water"
	_, err := s.Update(context.Background(), 99, UpdateInput{Description: &d})
	require.Equal(t, ErrBillNotFound, Code(err))
}

func TestDelete_CancelsExternalInvoice(t *testing.T) {
	ctx := context.Background()
	cancelled := []string{}
	inv := &invoicesMock{cancelFn: func(ctx context.Context, invoiceID string) error {
		cancelled = append(cancelled, invoiceID)
		return nil
	}}
	ref := "in_42"
	bm := &billsMock{deleteFn: func(ctx context.Context, id, landlordID int64) (*string, bool, error) {
		return &ref, true, nil
	}}

	s := New(bm, tenantWithRef(nil), &paymentsMock{}, inv)
	require.NoError(t, s.Delete(ctx, 3, 1))
	require.Equal(t, []string{"in_42"}, cancelled)

	// No invoice ref means no provider call.
	bm.deleteFn = func(ctx context.Context, id, landlordID int64) (*string, bool, error) {
		return nil, true, nil
	}
	s = New(bm, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	require.NoError(t, s.Delete(ctx, 4, 1))
}

func TestDelete_CancelFailureSurfaces(t *testing.T) {
	ref := "in_42"
	bm := &billsMock{deleteFn: func(ctx context.Context, id, landlordID int64) (*string, bool, error) {
		return &ref, true, nil
	}}
	inv := &invoicesMock{cancelFn: func(ctx context.Context, invoiceID string) error {
		return errors.New("provider down")
	}}

	s := New(bm, tenantWithRef(nil), &paymentsMock{}, inv)
	err := s.Delete(context.Background(), 3, 1)
	require.Error(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	bm := &billsMock{deleteFn: func(ctx context.Context, id, landlordID int64) (*string, bool, error) {
		return nil, false, nil
	}}
	s := New(bm, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	require.Equal(t, ErrBillNotFound, Code(s.Delete(context.Background(), 3, 1)))
}

func TestBalance_BilledMinusCompleted(t *testing.T) {
	bm := &billsMock{sumFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
		return dec("100"), nil
	}}
	pm := &paymentsMock{sumFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
		return dec("40"), nil
	}}

	s := New(bm, tenantWithRef(nil), pm, &invoicesMock{})
	bal, err := s.Balance(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, bal.Equal(dec("60")), "got %s", bal)
}

func TestHistory_SummaryClampsOutstanding(t *testing.T) {
	bm := &billsMock{
		searchFn: func(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error) {
			return []model.Bill{{ID: 1}}, nil
		},
		sumFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
			return dec("50"), nil
		},
	}
	pm := &paymentsMock{
		sumFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
			return dec("80"), nil
		},
		lastFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
			return dec("80"), nil
		},
	}

	s := New(bm, tenantWithRef(nil), pm, &invoicesMock{})
	h, err := s.History(context.Background(), 1, "", "")
	require.NoError(t, err)
	require.Len(t, h.Bills, 1)
	require.True(t, h.Summary.CurrentBalance.Equal(dec("-30")))
	require.True(t, h.Summary.OutstandingBalance.IsZero())
	require.True(t, h.Summary.LastPaymentAmount.Equal(dec("80")))
}

func TestHistory_MonthWindow(t *testing.T) {
	var gotFrom, gotTo *time.Time
	bm := &billsMock{
		searchFn: func(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
		sumFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) { return decimal.Zero, nil },
	}
	pm := &paymentsMock{
		sumFn:  func(ctx context.Context, tenantID int64) (decimal.Decimal, error) { return decimal.Zero, nil },
		lastFn: func(ctx context.Context, tenantID int64) (decimal.Decimal, error) { return decimal.Zero, nil },
	}

	svc := New(bm, tenantWithRef(nil), pm, &invoicesMock{}).(*service)
	svc.now = func() time.Time { return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC) }

	_, err := svc.History(context.Background(), 1, "month", "")
	require.NoError(t, err)
	require.NotNil(t, gotFrom)
	require.NotNil(t, gotTo)
	require.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), *gotFrom)
	require.Equal(t, time.August, gotTo.Month())
	require.Equal(t, 31, gotTo.Day())
}

func TestSweepOverdue(t *testing.T) {
	bm := &billsMock{overdueFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
		return 3, nil
	}}
	s := New(bm, tenantWithRef(nil), &paymentsMock{}, &invoicesMock{})
	n, err := s.SweepOverdue(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

package billingsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
	billrepo "github.com/miccx-24/boardinghousebackend/repository/bill"
	striperepo "github.com/miccx-24/boardinghousebackend/repository/stripe"
)

// errors used by controllers

type ErrCode string

const (
	ErrTenantNotFound ErrCode = "TENANT_NOT_FOUND"
	ErrBillNotFound   ErrCode = "BILL_NOT_FOUND"
	ErrBadAmount      ErrCode = "BAD_AMOUNT"
	ErrBadDate        ErrCode = "BAD_DATE"
	ErrBadType        ErrCode = "BAD_TYPE"
)

type codedError struct {
	code  ErrCode
	cause error
}

func (e codedError) Error() string {
	if e.cause != nil {
		return string(e.code) + ": " + e.cause.Error()
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type CreateInput struct {
	TenantID    int64
	LandlordID  int64
	Amount      decimal.Decimal
	Description string
	DueDate     string
	BillType    string
}

type UpdateInput struct {
	Amount      *decimal.Decimal
	Description *string
	DueDate     *string
	BillType    *string
}

type ListInput struct {
	Status    string
	TenantID  int64
	StartDate string
	EndDate   string
}

type Summary struct {
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	LastPaymentAmount  decimal.Decimal `json:"last_payment_amount"`
}

type History struct {
	Bills   []model.Bill `json:"bills"`
	Summary Summary      `json:"summary"`
}

// collaborator slices, mocked in tests

type BillRepo interface {
	Insert(ctx context.Context, b *model.Bill) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error)
	Delete(ctx context.Context, id, landlordID int64) (invoiceRef *string, found bool, err error)
	List(ctx context.Context, landlordID int64, f billrepo.Filter) ([]model.Bill, error)
	Search(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error)
	SumAmounts(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type TenantRepo interface {
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
}

type PaymentReader interface {
	SumCompleted(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	LastCompletedAmount(ctx context.Context, tenantID int64) (decimal.Decimal, error)
}

type InvoiceProvider interface {
	CreateInvoice(ctx context.Context, req striperepo.CreateInvoiceReq) (*striperepo.CreateInvoiceResp, error)
	CancelInvoice(ctx context.Context, invoiceID string) error
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Bill, error)
	Update(ctx context.Context, billID int64, in UpdateInput) (*model.Bill, error)
	Delete(ctx context.Context, billID, landlordID int64) error
	List(ctx context.Context, landlordID int64, in ListInput) ([]model.Bill, error)
	History(ctx context.Context, tenantID int64, period, search string) (*History, error)
	Balance(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	SweepOverdue(ctx context.Context) (int64, error)
}

type service struct {
	bills    BillRepo
	tenants  TenantRepo
	payments PaymentReader
	invoices InvoiceProvider
	now      func() time.Time
}

func New(bills BillRepo, tenants TenantRepo, payments PaymentReader, invoices InvoiceProvider) Service {
	return &service{bills: bills, tenants: tenants, payments: payments, invoices: invoices, now: time.Now}
}

func validBillType(t string) bool {
	switch model.BillType(t) {
	case model.BillRent, model.BillUtility, model.BillMaintenance, model.BillOther:
		return true
	}
	return false
}

// parseDate accepts date-only and RFC3339 forms.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Bill, error) {
	if !in.Amount.IsPositive() {
		return nil, makeErr(ErrBadAmount)
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, codedError{code: ErrBadDate, cause: err}
	}
	if !validBillType(in.BillType) {
		return nil, makeErr(ErrBadType)
	}

	tenant, err := s.tenants.ByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}

	b := &model.Bill{
		TenantID:    in.TenantID,
		LandlordID:  in.LandlordID,
		Amount:      in.Amount,
		Description: in.Description,
		DueDate:     due,
		BillType:    model.BillType(in.BillType),
	}

	if tenant.GatewayCustomerRef != nil {
		inv, err := s.invoices.CreateInvoice(ctx, striperepo.CreateInvoiceReq{
			CustomerRef: *tenant.GatewayCustomerRef,
			Amount:      in.Amount,
			Description: in.Description,
			DueDate:     due,
		})
		if err != nil {
			return nil, fmt.Errorf("create invoice: %w", err)
		}
		b.ExternalInvoiceRef = &inv.InvoiceID
	}

	if err := s.bills.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update applies a partial update. Status is excluded: bill status moves only
// through payment recording and voiding.
func (s *service) Update(ctx context.Context, billID int64, in UpdateInput) (*model.Bill, error) {
	fields := map[string]any{}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, makeErr(ErrBadAmount)
		}
		fields["amount"] = *in.Amount
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.DueDate != nil {
		due, err := parseDate(*in.DueDate)
		if err != nil {
			return nil, codedError{code: ErrBadDate, cause: err}
		}
		fields["due_date"] = due
	}
	if in.BillType != nil {
		if !validBillType(*in.BillType) {
			return nil, makeErr(ErrBadType)
		}
		fields["bill_type"] = *in.BillType
	}

	b, err := s.bills.UpdateFields(ctx, billID, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBillNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, billID, landlordID int64) error {
	ref, found, err := s.bills.Delete(ctx, billID, landlordID)
	if err != nil {
		return err
	}
	if !found {
		return makeErr(ErrBillNotFound)
	}
	if ref != nil {
		// Provider failures surface to the caller; the local delete stands.
		if err := s.invoices.CancelInvoice(ctx, *ref); err != nil {
			return fmt.Errorf("cancel invoice %s: %w", *ref, err)
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, landlordID int64, in ListInput) ([]model.Bill, error) {
	f := billrepo.Filter{TenantID: in.TenantID, Status: model.BillStatus(in.Status)}
	if in.StartDate != "" && in.EndDate != "" {
		from, err := parseDate(in.StartDate)
		if err != nil {
			return nil, codedError{code: ErrBadDate, cause: err}
		}
		to, err := parseDate(in.EndDate)
		if err != nil {
			return nil, codedError{code: ErrBadDate, cause: err}
		}
		f.From, f.To = &from, &to
	}
	return s.bills.List(ctx, landlordID, f)
}

// periodWindow returns the calendar window for a history period relative to now.
func periodWindow(now time.Time, period string) (from, to *time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()
	switch period {
	case "month":
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		return &start, &end
	case "quarter":
		qm := time.Month((int(m)-1)/3*3 + 1)
		start := time.Date(y, qm, 1, 0, 0, 0, 0, loc)
		return &start, nil
	case "year":
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end := time.Date(y, time.December, 31, 23, 59, 59, 0, loc)
		return &start, &end
	}
	return nil, nil
}

func (s *service) History(ctx context.Context, tenantID int64, period, search string) (*History, error) {
	from, to := periodWindow(s.now(), period)
	bills, err := s.bills.Search(ctx, tenantID, from, to, search)
	if err != nil {
		return nil, err
	}

	balance, err := s.Balance(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	outstanding := balance
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	last, err := s.payments.LastCompletedAmount(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &History{
		Bills: bills,
		Summary: Summary{
			CurrentBalance:     balance,
			OutstandingBalance: outstanding,
			LastPaymentAmount:  last,
		},
	}, nil
}

// Balance is total billed minus total completed payments. Cancelled bills
// still count toward the billed sum (kept as-is pending product confirmation).
func (s *service) Balance(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	billed, err := s.bills.SumAmounts(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := s.payments.SumCompleted(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	return billed.Sub(paid), nil
}

func (s *service) SweepOverdue(ctx context.Context) (int64, error) {
	return s.bills.MarkOverdueBefore(ctx, s.now().UTC())
}

package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
	mailrepo "github.com/miccx-24/boardinghousebackend/repository/mailer"
	paymentrepo "github.com/miccx-24/boardinghousebackend/repository/payment"
	striperepo "github.com/miccx-24/boardinghousebackend/repository/stripe"
)

// errors used by controllers

type ErrCode string

const (
	ErrTenantNotFound  ErrCode = "TENANT_NOT_FOUND"
	ErrBillNotFound    ErrCode = "BILL_NOT_FOUND"
	ErrPaymentNotFound ErrCode = "PAYMENT_NOT_FOUND"
	ErrBillNotPayable  ErrCode = "BILL_NOT_PAYABLE"
	ErrNotVoidable     ErrCode = "NOT_VOIDABLE"
	ErrBadAmount       ErrCode = "BAD_AMOUNT"
	ErrBadDate         ErrCode = "BAD_DATE"
	ErrNoCustomerRef   ErrCode = "NO_CUSTOMER_REF"
	ErrDeclined        ErrCode = "DECLINED"
	ErrGateway         ErrCode = "GATEWAY"
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

type RecordInput struct {
	TenantID    int64
	LandlordID  int64
	BillID      *int64
	Amount      decimal.Decimal
	Method      string
	PaymentDate string
}

type OnlineInput struct {
	TenantID int64
	BillID   *int64
	Amount   decimal.Decimal
	Method   string
}

// collaborator slices, mocked in tests

type PaymentRepo interface {
	Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	ByID(ctx context.Context, id int64) (*model.Payment, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error)
	MarkVoided(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error
	List(ctx context.Context, landlordID int64, f paymentrepo.Filter) ([]model.Payment, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error)
	CancelPending(ctx context.Context, tenantID, paymentID int64) (bool, error)
	Stats(ctx context.Context, landlordID, tenantID int64) (*paymentrepo.Stats, error)
}

type BillRepo interface {
	ByID(ctx context.Context, id int64) (*model.Bill, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
	RevertToPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
}

type TenantRepo interface {
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
}

type Gateway interface {
	Charge(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error)
	Refund(ctx context.Context, transactionID string) error
}

type Service interface {
	Record(ctx context.Context, in RecordInput) (*model.Payment, error)
	ProcessOnline(ctx context.Context, in OnlineInput) (*model.Payment, error)
	Void(ctx context.Context, paymentID int64, reason string, actorID int64) (*model.Payment, error)
	CreateTenantPayment(ctx context.Context, tenantID int64, amount decimal.Decimal, method string) (*model.Payment, error)
	CancelPending(ctx context.Context, tenantID, paymentID int64) error
	List(ctx context.Context, landlordID int64, f paymentrepo.Filter) ([]model.Payment, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error)
	Detail(ctx context.Context, paymentID, landlordID int64) (*model.Payment, error)
	Stats(ctx context.Context, landlordID, tenantID int64) (*paymentrepo.Stats, error)
}

type service struct {
	db       *sql.DB
	payments PaymentRepo
	bills    BillRepo
	tenants  TenantRepo
	gw       Gateway
	mail     mailrepo.Repo
	log      *slog.Logger
	now      func() time.Time
}

func New(db *sql.DB, payments PaymentRepo, bills BillRepo, tenants TenantRepo, gw Gateway, mail mailrepo.Repo, log *slog.Logger) Service {
	return &service{
		db: db, payments: payments, bills: bills, tenants: tenants,
		gw: gw, mail: mail, log: log, now: time.Now,
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *service) Record(ctx context.Context, in RecordInput) (*model.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, makeErr(ErrBadAmount)
	}
	when := s.now()
	if in.PaymentDate != "" {
		t, err := parseDate(in.PaymentDate)
		if err != nil {
			return nil, codedError{code: ErrBadDate, cause: err}
		}
		when = t
	}

	tenant, err := s.tenants.ByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}
	if in.BillID != nil {
		if _, err := s.bills.ByID(ctx, *in.BillID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrBillNotFound)
			}
			return nil, err
		}
	}

	p := &model.Payment{
		TenantID:      in.TenantID,
		LandlordID:    in.LandlordID,
		BillID:        in.BillID,
		Amount:        in.Amount,
		PaymentMethod: in.Method,
		PaymentDate:   when,
		Status:        model.PaymentCompleted,
	}
	if err := s.writePayment(ctx, p); err != nil {
		return nil, err
	}

	s.notify(tenant.Email, "Payment Confirmation",
		fmt.Sprintf("Your payment of %s has been recorded successfully.", in.Amount.StringFixed(2)))
	return p, nil
}

// writePayment persists the payment and the bill-status flip in one
// transaction. The conditional update keyed on the bill's current status
// closes the double-payment race between concurrent writers.
func (s *service) writePayment(ctx context.Context, p *model.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.payments.Insert(ctx, tx, p); err != nil {
		return err
	}
	if p.BillID != nil && p.Status == model.PaymentCompleted {
		var ok bool
		if ok, err = s.bills.MarkPaid(ctx, tx, *p.BillID); err != nil {
			return err
		}
		if !ok {
			err = makeErr(ErrBillNotPayable)
			return err
		}
	}
	return tx.Commit()
}

// notify is fire-and-forget: a delivery failure is logged, never surfaced.
func (s *service) notify(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mail.Send(ctx, mailrepo.SendReq{To: to, Subject: subject, Body: body}); err != nil {
			s.log.Error("payment notification failed", "to", to, "err", err)
		}
	}()
}

func (s *service) ProcessOnline(ctx context.Context, in OnlineInput) (*model.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, makeErr(ErrBadAmount)
	}
	tenant, err := s.tenants.ByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}
	if tenant.GatewayCustomerRef == nil {
		return nil, makeErr(ErrNoCustomerRef)
	}
	if in.BillID != nil {
		if _, err := s.bills.ByID(ctx, *in.BillID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrBillNotFound)
			}
			return nil, err
		}
	}

	resp, err := s.gw.Charge(ctx, striperepo.ChargeReq{
		Amount:         in.Amount,
		CustomerRef:    *tenant.GatewayCustomerRef,
		Method:         in.Method,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		var ge *striperepo.GatewayError
		if errors.As(err, &ge) && ge.Declined {
			return nil, codedError{code: ErrDeclined, cause: err}
		}
		return nil, codedError{code: ErrGateway, cause: err}
	}

	p := &model.Payment{
		TenantID:           in.TenantID,
		LandlordID:         tenant.LandlordID,
		BillID:             in.BillID,
		Amount:             in.Amount,
		PaymentMethod:      "online",
		PaymentDate:        s.now(),
		Status:             model.PaymentCompleted,
		ExternalPaymentRef: &resp.TransactionID,
	}
	if err := s.writePayment(ctx, p); err != nil {
		// The charge went through but the local write did not; refund so the
		// tenant is not charged for a payment we never recorded.
		if rerr := s.gw.Refund(ctx, resp.TransactionID); rerr != nil {
			s.log.Error("compensating refund failed", "txn", resp.TransactionID, "err", rerr)
		}
		return nil, err
	}

	s.notify(tenant.Email, "Payment Confirmation",
		fmt.Sprintf("Your online payment of %s has been processed.", in.Amount.StringFixed(2)))
	return p, nil
}

func (s *service) Void(ctx context.Context, paymentID int64, reason string, actorID int64) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.payments.GetForUpdate(ctx, tx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrPaymentNotFound)
		}
		return nil, err
	}
	if p.Status != model.PaymentCompleted {
		err = makeErr(ErrNotVoidable)
		return nil, err
	}

	at := s.now()
	if err = s.payments.MarkVoided(ctx, tx, paymentID, reason, actorID, at); err != nil {
		return nil, err
	}
	if p.BillID != nil {
		// No check for other completed payments against the same bill; one
		// terminal payment per bill is the working assumption.
		if _, err = s.bills.RevertToPending(ctx, tx, *p.BillID); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	p.Status = model.PaymentVoided
	p.VoidReason = &reason
	p.VoidedBy = &actorID
	p.VoidedAt = &at
	return p, nil
}

func (s *service) CreateTenantPayment(ctx context.Context, tenantID int64, amount decimal.Decimal, method string) (*model.Payment, error) {
	if !amount.IsPositive() {
		return nil, makeErr(ErrBadAmount)
	}
	tenant, err := s.tenants.ByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}

	p := &model.Payment{
		TenantID:      tenantID,
		LandlordID:    tenant.LandlordID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentDate:   s.now(),
		Status:        model.PaymentPending,
	}
	if err := s.writePayment(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) CancelPending(ctx context.Context, tenantID, paymentID int64) error {
	ok, err := s.payments.CancelPending(ctx, tenantID, paymentID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrPaymentNotFound)
	}
	return nil
}

func (s *service) List(ctx context.Context, landlordID int64, f paymentrepo.Filter) ([]model.Payment, error) {
	return s.payments.List(ctx, landlordID, f)
}

func (s *service) ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error) {
	return s.payments.ListForTenant(ctx, tenantID)
}

func (s *service) Detail(ctx context.Context, paymentID, landlordID int64) (*model.Payment, error) {
	p, err := s.payments.ByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPaymentNotFound)
		}
		return nil, err
	}
	if p.LandlordID != landlordID {
		return nil, makeErr(ErrPaymentNotFound)
	}
	return p, nil
}

func (s *service) Stats(ctx context.Context, landlordID, tenantID int64) (*paymentrepo.Stats, error) {
	return s.payments.Stats(ctx, landlordID, tenantID)
}

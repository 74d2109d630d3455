package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/miccx-24/boardinghousebackend/model"
	mailrepo "github.com/miccx-24/boardinghousebackend/repository/mailer"
	paymentrepo "github.com/miccx-24/boardinghousebackend/repository/payment"
	striperepo "github.com/miccx-24/boardinghousebackend/repository/stripe"
)

type paymentsMock struct {
	insertFn        func(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	byIDFn          func(ctx context.Context, id int64) (*model.Payment, error)
	getForUpdateFn  func(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error)
	markVoidedFn    func(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error
	cancelPendingFn func(ctx context.Context, tenantID, paymentID int64) (bool, error)
}

func (m *paymentsMock) Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	return m.insertFn(ctx, tx, p)
}
func (m *paymentsMock) ByID(ctx context.Context, id int64) (*model.Payment, error) {
	return m.byIDFn(ctx, id)
}
func (m *paymentsMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error) {
	return m.getForUpdateFn(ctx, tx, id)
}
func (m *paymentsMock) MarkVoided(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error {
	return m.markVoidedFn(ctx, tx, id, reason, actorID, at)
}
func (m *paymentsMock) List(ctx context.Context, landlordID int64, f paymentrepo.Filter) ([]model.Payment, error) {
	return nil, nil
}
func (m *paymentsMock) ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error) {
	return nil, nil
}
func (m *paymentsMock) CancelPending(ctx context.Context, tenantID, paymentID int64) (bool, error) {
	return m.cancelPendingFn(ctx, tenantID, paymentID)
}
func (m *paymentsMock) Stats(ctx context.Context, landlordID, tenantID int64) (*paymentrepo.Stats, error) {
	return &paymentrepo.Stats{}, nil
}

type billsMock struct {
	byIDFn     func(ctx context.Context, id int64) (*model.Bill, error)
	markPaidFn func(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
	revertFn   func(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
}

func (m *billsMock) ByID(ctx context.Context, id int64) (*model.Bill, error) { return m.byIDFn(ctx, id) }
func (m *billsMock) MarkPaid(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	return m.markPaidFn(ctx, tx, id)
}
func (m *billsMock) RevertToPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	return m.revertFn(ctx, tx, id)
}

type tenantsMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Tenant, error)
}

func (m *tenantsMock) ByID(ctx context.Context, id int64) (*model.Tenant, error) {
	return m.byIDFn(ctx, id)
}

type gatewayMock struct {
	chargeFn func(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error)
	refundFn func(ctx context.Context, transactionID string) error
}

func (m *gatewayMock) Charge(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error) {
	return m.chargeFn(ctx, req)
}
func (m *gatewayMock) Refund(ctx context.Context, transactionID string) error {
	return m.refundFn(ctx, transactionID)
}

type mailMock struct {
	sent chan mailrepo.SendReq
	err  error
}

func (m *mailMock) Send(ctx context.Context, req mailrepo.SendReq) error {
	if m.sent != nil {
		m.sent <- req
	}
	return m.err
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tenantOK(ref *string) *tenantsMock {
	return &tenantsMock{byIDFn: func(ctx context.Context, id int64) (*model.Tenant, error) {
		return &model.Tenant{ID: id, LandlordID: 1, Email: "t@example.com", GatewayCustomerRef: ref}, nil
	}}
}

func newTestService(t *testing.T, pm *paymentsMock, bm *billsMock, tm *tenantsMock, gw *gatewayMock, mail *mailMock) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if mail == nil {
		mail = &mailMock{}
	}
	svc := New(db, pm, bm, tm, gw, mail, discardLog()).(*service)
	return svc, mock
}

// --- tests ---

func TestRecord_MarksBillPaid(t *testing.T) {
	billID := int64(10)
	var paidBill int64
	pm := &paymentsMock{insertFn: func(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
		p.ID = 77
		return nil
	}}
	bm := &billsMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Bill, error) {
			return &model.Bill{ID: id, Status: model.BillPending}, nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
			paidBill = id
			return true, nil
		},
	}
	mail := &mailMock{sent: make(chan mailrepo.SendReq, 1)}
	svc, mock := newTestService(t, pm, bm, tenantOK(nil), &gatewayMock{}, mail)
	mock.ExpectBegin()
	mock.ExpectCommit()

	p, err := svc.Record(context.Background(), RecordInput{
		TenantID: 1, LandlordID: 2, BillID: &billID,
		Amount: dec("150"), Method: "cash", PaymentDate: "2026-08-01",
	})
	require.NoError(t, err)
	require.Equal(t, int64(77), p.ID)
	require.Equal(t, model.PaymentCompleted, p.Status)
	require.Equal(t, billID, paidBill)
	require.NoError(t, mock.ExpectationsWereMet())

	select {
	case req := <-mail.sent:
		require.Equal(t, "t@example.com", req.To)
	case <-time.After(2 * time.Second):
		t.Fatal("expected confirmation mail")
	}
}

func TestRecord_Validation(t *testing.T) {
	svc, _ := newTestService(t, &paymentsMock{}, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)

	_, err := svc.Record(context.Background(), RecordInput{TenantID: 1, Amount: decimal.Zero})
	require.Equal(t, ErrBadAmount, Code(err))

	_, err = svc.Record(context.Background(), RecordInput{TenantID: 1, Amount: dec("10"), PaymentDate: "yesterday"})
	require.Equal(t, ErrBadDate, Code(err))
}

func TestRecord_BillNotPayable(t *testing.T) {
	billID := int64(10)
	pm := &paymentsMock{insertFn: func(ctx context.Context, tx *sql.Tx, p *model.Payment) error { return nil }}
	bm := &billsMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Bill, error) {
			return &model.Bill{ID: id, Status: model.BillPaid}, nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
			return false, nil
		},
	}
	svc, mock := newTestService(t, pm, bm, tenantOK(nil), &gatewayMock{}, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Record(context.Background(), RecordInput{
		TenantID: 1, BillID: &billID, Amount: dec("150"), Method: "cash",
	})
	require.Equal(t, ErrBillNotPayable, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessOnline_RequiresCustomerRef(t *testing.T) {
	svc, _ := newTestService(t, &paymentsMock{}, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)

	_, err := svc.ProcessOnline(context.Background(), OnlineInput{TenantID: 1, Amount: dec("50")})
	require.Equal(t, ErrNoCustomerRef, Code(err))
}

func TestProcessOnline_DeclinedAndGatewayFailure(t *testing.T) {
	ref := "cus_1"
	gw := &gatewayMock{chargeFn: func(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error) {
		return nil, &striperepo.GatewayError{Status: 402, Code: "card_declined", Declined: true, Msg: "declined"}
	}}
	svc, _ := newTestService(t, &paymentsMock{}, &billsMock{}, tenantOK(&ref), gw, nil)

	_, err := svc.ProcessOnline(context.Background(), OnlineInput{TenantID: 1, Amount: dec("50")})
	require.Equal(t, ErrDeclined, Code(err))

	gw.chargeFn = func(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error) {
		return nil, errors.New("connection reset")
	}
	_, err = svc.ProcessOnline(context.Background(), OnlineInput{TenantID: 1, Amount: dec("50")})
	require.Equal(t, ErrGateway, Code(err))
}

func TestProcessOnline_Success(t *testing.T) {
	ref := "cus_1"
	var charged striperepo.ChargeReq
	gw := &gatewayMock{chargeFn: func(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error) {
		charged = req
		return &striperepo.ChargeResp{TransactionID: "txn_8"}, nil
	}}
	pm := &paymentsMock{insertFn: func(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
		p.ID = 9
		return nil
	}}
	svc, mock := newTestService(t, pm, &billsMock{}, tenantOK(&ref), gw, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	p, err := svc.ProcessOnline(context.Background(), OnlineInput{TenantID: 1, Amount: dec("75"), Method: "card"})
	require.NoError(t, err)
	require.Equal(t, "online", p.PaymentMethod)
	require.NotNil(t, p.ExternalPaymentRef)
	require.Equal(t, "txn_8", *p.ExternalPaymentRef)
	require.Equal(t, "cus_1", charged.CustomerRef)
	require.NotEmpty(t, charged.IdempotencyKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessOnline_RefundsWhenWriteFails(t *testing.T) {
	ref := "cus_1"
	refunded := ""
	gw := &gatewayMock{
		chargeFn: func(ctx context.Context, req striperepo.ChargeReq) (*striperepo.ChargeResp, error) {
			return &striperepo.ChargeResp{TransactionID: "txn_8"}, nil
		},
		refundFn: func(ctx context.Context, transactionID string) error {
			refunded = transactionID
			return nil
		},
	}
	pm := &paymentsMock{insertFn: func(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
		return errors.New("insert failed")
	}}
	svc, mock := newTestService(t, pm, &billsMock{}, tenantOK(&ref), gw, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ProcessOnline(context.Background(), OnlineInput{TenantID: 1, Amount: dec("75")})
	require.Error(t, err)
	require.Equal(t, "txn_8", refunded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoid_RevertsBill(t *testing.T) {
	billID := int64(4)
	var reverted int64
	pm := &paymentsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error) {
			return &model.Payment{ID: id, BillID: &billID, Status: model.PaymentCompleted}, nil
		},
		markVoidedFn: func(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error {
			return nil
		},
	}
	bm := &billsMock{revertFn: func(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
		reverted = id
		return true, nil
	}}
	svc, mock := newTestService(t, pm, bm, tenantOK(nil), &gatewayMock{}, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	p, err := svc.Void(context.Background(), 20, "entered twice", 3)
	require.NoError(t, err)
	require.Equal(t, model.PaymentVoided, p.Status)
	require.Equal(t, billID, reverted)
	require.NotNil(t, p.VoidReason)
	require.Equal(t, "entered twice", *p.VoidReason)
	require.NotNil(t, p.VoidedBy)
	require.Equal(t, int64(3), *p.VoidedBy)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoid_OnlyCompleted(t *testing.T) {
	pm := &paymentsMock{getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error) {
		return &model.Payment{ID: id, Status: model.PaymentPending}, nil
	}}
	svc, mock := newTestService(t, pm, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Void(context.Background(), 20, "x", 3)
	require.Equal(t, ErrNotVoidable, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoid_NotFound(t *testing.T) {
	pm := &paymentsMock{getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error) {
		return nil, sql.ErrNoRows
	}}
	svc, mock := newTestService(t, pm, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Void(context.Background(), 20, "x", 3)
	require.Equal(t, ErrPaymentNotFound, Code(err))
}

func TestRecord_NotifyFailureDoesNotFailPayment(t *testing.T) {
	pm := &paymentsMock{insertFn: func(ctx context.Context, tx *sql.Tx, p *model.Payment) error { return nil }}
	mail := &mailMock{sent: make(chan mailrepo.SendReq, 1), err: errors.New("smtp down")}
	svc, mock := newTestService(t, pm, &billsMock{}, tenantOK(nil), &gatewayMock{}, mail)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Record(context.Background(), RecordInput{TenantID: 1, Amount: dec("10"), Method: "cash"})
	require.NoError(t, err)

	select {
	case <-mail.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("expected mail attempt")
	}
}

func TestCancelPending_NotFound(t *testing.T) {
	pm := &paymentsMock{cancelPendingFn: func(ctx context.Context, tenantID, paymentID int64) (bool, error) {
		return false, nil
	}}
	svc, _ := newTestService(t, pm, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)

	err := svc.CancelPending(context.Background(), 1, 2)
	require.Equal(t, ErrPaymentNotFound, Code(err))
}

func TestDetail_ScopedToLandlord(t *testing.T) {
	pm := &paymentsMock{byIDFn: func(ctx context.Context, id int64) (*model.Payment, error) {
		return &model.Payment{ID: id, LandlordID: 7}, nil
	}}
	svc, _ := newTestService(t, pm, &billsMock{}, tenantOK(nil), &gatewayMock{}, nil)

	p, err := svc.Detail(context.Background(), 5, 7)
	require.NoError(t, err)
	require.Equal(t, int64(5), p.ID)

	_, err = svc.Detail(context.Background(), 5, 8)
	require.Equal(t, ErrPaymentNotFound, Code(err))
}

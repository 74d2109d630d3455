package paymentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Filter struct {
	TenantID int64
	Status   model.PaymentStatus
	Method   string
	From     *time.Time
	To       *time.Time
}

type Stats struct {
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalPayments  int64           `json:"total_payments"`
	AveragePayment decimal.Decimal `json:"average_payment"`
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error
	ByID(ctx context.Context, id int64) (*model.Payment, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error)
	MarkVoided(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error
	List(ctx context.Context, landlordID int64, f Filter) ([]model.Payment, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error)
	CancelPending(ctx context.Context, tenantID, paymentID int64) (bool, error)

	SumCompleted(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	LastCompletedAmount(ctx context.Context, tenantID int64) (decimal.Decimal, error)
	Stats(ctx context.Context, landlordID, tenantID int64) (*Stats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const paymentCols = `id, tenant_id, landlord_id, bill_id, amount, payment_method, payment_date, status, external_payment_ref, void_reason, voided_by, voided_at, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.TenantID, &p.LandlordID, &p.BillID, &p.Amount,
		&p.PaymentMethod, &p.PaymentDate, &p.Status, &p.ExternalPaymentRef,
		&p.VoidReason, &p.VoidedBy, &p.VoidedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (tenant_id, landlord_id, bill_id, amount, payment_method, payment_date, status, external_payment_ref)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		p.TenantID, p.LandlordID, p.BillID, p.Amount, p.PaymentMethod, p.PaymentDate, p.Status, p.ExternalPaymentRef,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id=$1`, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Payment, error) {
	return scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) MarkVoided(ctx context.Context, tx *sql.Tx, id int64, reason string, actorID int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
UPDATE payments
SET status='voided', void_reason=$2, voided_by=$3, voided_at=$4
WHERE id=$1`, id, reason, actorID, at)
	return err
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.Payment, error) {
	q := `SELECT ` + paymentCols + ` FROM payments WHERE landlord_id=$1`
	args := []any{landlordID}
	if f.TenantID > 0 {
		args = append(args, f.TenantID)
		q += fmt.Sprintf(" AND tenant_id=$%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.Method != "" {
		args = append(args, f.Method)
		q += fmt.Sprintf(" AND payment_method=$%d", len(args))
	}
	if f.From != nil && f.To != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(" AND payment_date >= $%d", len(args))
		args = append(args, *f.To)
		q += fmt.Sprintf(" AND payment_date <= $%d", len(args))
	}
	q += ` ORDER BY payment_date DESC`
	return r.queryPayments(ctx, q, args...)
}

func (r *repo) ListForTenant(ctx context.Context, tenantID int64) ([]model.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE tenant_id=$1 ORDER BY payment_date DESC`, tenantID)
}

func (r *repo) queryPayments(ctx context.Context, q string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) CancelPending(ctx context.Context, tenantID, paymentID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status='cancelled' WHERE id=$1 AND tenant_id=$2 AND status='pending'`,
		paymentID, tenantID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) SumCompleted(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount),0) FROM payments WHERE tenant_id=$1 AND status='completed'`,
		tenantID,
	).Scan(&sum)
	return sum, err
}

func (r *repo) LastCompletedAmount(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	var amt decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
SELECT amount FROM payments
WHERE tenant_id=$1 AND status='completed'
ORDER BY payment_date DESC
LIMIT 1`, tenantID).Scan(&amt)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	return amt, err
}

// Stats aggregates completed payments for the landlord; tenantID narrows to
// one tenant when non-zero.
func (r *repo) Stats(ctx context.Context, landlordID, tenantID int64) (*Stats, error) {
	const q = `
SELECT COALESCE(SUM(amount),0), COUNT(*), COALESCE(AVG(amount),0)
FROM payments
WHERE landlord_id=$1 AND ($2=0 OR tenant_id=$2) AND status='completed'`
	s := &Stats{}
	if err := r.db.QueryRowContext(ctx, q, landlordID, tenantID).Scan(&s.TotalPaid, &s.TotalPayments, &s.AveragePayment); err != nil {
		return nil, err
	}
	return s, nil
}

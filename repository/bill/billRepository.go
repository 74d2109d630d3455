package billrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
)

// Filter narrows landlord-side bill listings. Zero values mean "no filter".
type Filter struct {
	Status   model.BillStatus
	TenantID int64
	From     *time.Time
	To       *time.Time
}

type Repo interface {
	Insert(ctx context.Context, b *model.Bill) error
	ByID(ctx context.Context, id int64) (*model.Bill, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error)
	// Delete removes the bill and reports its external invoice ref, when set.
	Delete(ctx context.Context, id, landlordID int64) (invoiceRef *string, found bool, err error)
	List(ctx context.Context, landlordID int64, f Filter) ([]model.Bill, error)
	Search(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error)
	SumAmounts(ctx context.Context, tenantID int64) (decimal.Decimal, error)

	// MarkPaid flips pending|overdue → paid inside the payment transaction.
	// Reports false when the bill is absent or not in a payable status.
	MarkPaid(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
	// RevertToPending flips paid → pending when the covering payment is voided.
	RevertToPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
	MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const billCols = `id, tenant_id, landlord_id, amount, description, due_date, bill_type, status, external_invoice_ref, created_at`

func scanBill(row interface{ Scan(...any) error }) (*model.Bill, error) {
	b := &model.Bill{}
	err := row.Scan(&b.ID, &b.TenantID, &b.LandlordID, &b.Amount, &b.Description,
		&b.DueDate, &b.BillType, &b.Status, &b.ExternalInvoiceRef, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) Insert(ctx context.Context, b *model.Bill) error {
	const q = `
INSERT INTO bills (tenant_id, landlord_id, amount, description, due_date, bill_type, status, external_invoice_ref)
VALUES ($1,$2,$3,$4,$5,$6,'pending',$7)
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.TenantID, b.LandlordID, b.Amount, b.Description, b.DueDate, b.BillType, b.ExternalInvoiceRef,
	).Scan(&b.ID, &b.Status, &b.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Bill, error) {
	return scanBill(r.db.QueryRowContext(ctx,
		`SELECT `+billCols+` FROM bills WHERE id=$1`, id))
}

func (r *repo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Bill, error) {
	if len(fields) == 0 {
		return r.ByID(ctx, id)
	}
	set := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	args = append(args, id)
	for col, v := range fields {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	q := `UPDATE bills SET ` + strings.Join(set, ", ") + ` WHERE id=$1 RETURNING ` + billCols
	return scanBill(r.db.QueryRowContext(ctx, q, args...))
}

func (r *repo) Delete(ctx context.Context, id, landlordID int64) (*string, bool, error) {
	var ref *string
	err := r.db.QueryRowContext(ctx, `
DELETE FROM bills WHERE id=$1 AND landlord_id=$2
RETURNING external_invoice_ref`, id, landlordID).Scan(&ref)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ref, true, nil
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.Bill, error) {
	q := `SELECT ` + billCols + ` FROM bills WHERE landlord_id=$1`
	args := []any{landlordID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.TenantID > 0 {
		args = append(args, f.TenantID)
		q += fmt.Sprintf(" AND tenant_id=$%d", len(args))
	}
	if f.From != nil && f.To != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(" AND due_date >= $%d", len(args))
		args = append(args, *f.To)
		q += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}
	q += ` ORDER BY due_date DESC`
	return r.queryBills(ctx, q, args...)
}

func (r *repo) Search(ctx context.Context, tenantID int64, from, to *time.Time, search string) ([]model.Bill, error) {
	q := `SELECT ` + billCols + ` FROM bills WHERE tenant_id=$1`
	args := []any{tenantID}
	if from != nil {
		args = append(args, *from)
		q += fmt.Sprintf(" AND due_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		q += fmt.Sprintf(" AND due_date <= $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		cond := fmt.Sprintf("(description ILIKE $%d OR external_invoice_ref ILIKE $%d", len(args), len(args))
		if amt, err := decimal.NewFromString(search); err == nil {
			args = append(args, amt)
			cond += fmt.Sprintf(" OR amount = $%d", len(args))
		}
		q += " AND " + cond + ")"
	}
	q += ` ORDER BY due_date DESC`
	return r.queryBills(ctx, q, args...)
}

func (r *repo) queryBills(ctx context.Context, q string, args ...any) ([]model.Bill, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) SumAmounts(ctx context.Context, tenantID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount),0) FROM bills WHERE tenant_id=$1`, tenantID,
	).Scan(&sum)
	return sum, err
}

func (r *repo) MarkPaid(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET status='paid' WHERE id=$1 AND status IN ('pending','overdue')`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) RevertToPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET status='pending' WHERE id=$1 AND status='paid'`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET status='overdue' WHERE status='pending' AND due_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

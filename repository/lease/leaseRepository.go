package leaserepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Filter struct {
	Status   model.LeaseStatus
	TenantID int64
}

type Repo interface {
	Insert(ctx context.Context, l *model.Lease) error
	ByID(ctx context.Context, id int64) (*model.Lease, error)
	List(ctx context.Context, landlordID int64, f Filter) ([]model.Lease, error)
	ActiveForTenant(ctx context.Context, tenantID int64) (*model.Lease, error)
	Terminate(ctx context.Context, id int64) (bool, error)
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const leaseCols = `id, tenant_id, landlord_id, room_id, start_date, end_date, monthly_rent, terms, status, created_at`

func scanLease(row interface{ Scan(...any) error }) (*model.Lease, error) {
	l := &model.Lease{}
	err := row.Scan(&l.ID, &l.TenantID, &l.LandlordID, &l.RoomID, &l.StartDate,
		&l.EndDate, &l.MonthlyRent, &l.Terms, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) Insert(ctx context.Context, l *model.Lease) error {
	const q = `
INSERT INTO leases (tenant_id, landlord_id, room_id, start_date, end_date, monthly_rent, terms, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,'active')
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		l.TenantID, l.LandlordID, l.RoomID, l.StartDate, l.EndDate, l.MonthlyRent, l.Terms,
	).Scan(&l.ID, &l.Status, &l.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Lease, error) {
	return scanLease(r.db.QueryRowContext(ctx,
		`SELECT `+leaseCols+` FROM leases WHERE id=$1`, id))
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.Lease, error) {
	q := `SELECT ` + leaseCols + ` FROM leases WHERE landlord_id=$1`
	args := []any{landlordID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.TenantID > 0 {
		args = append(args, f.TenantID)
		q += fmt.Sprintf(" AND tenant_id=$%d", len(args))
	}
	q += ` ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *repo) ActiveForTenant(ctx context.Context, tenantID int64) (*model.Lease, error) {
	return scanLease(r.db.QueryRowContext(ctx, `
SELECT `+leaseCols+` FROM leases
WHERE tenant_id=$1 AND status='active'
ORDER BY start_date DESC
LIMIT 1`, tenantID))
}

func (r *repo) Terminate(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leases SET status='terminated' WHERE id=$1 AND status='active'`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leases SET status='expired' WHERE status='active' AND end_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

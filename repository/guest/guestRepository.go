package guestrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Filter struct {
	Status   model.GuestStatus
	TenantID int64
}

type Repo interface {
	Insert(ctx context.Context, g *model.Guest) error
	ByID(ctx context.Context, id int64) (*model.Guest, error)
	List(ctx context.Context, landlordID int64, f Filter) ([]model.Guest, error)
	// Decide moves a pending guest to approved/rejected; reports false when
	// the guest is absent or no longer pending.
	Decide(ctx context.Context, id int64, status model.GuestStatus, notes *string, actorID int64, at time.Time) (bool, error)
	Checkout(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const guestCols = `id, tenant_id, landlord_id, name, identification, contact_number, purpose, expected_duration, start_date, status, approval_notes, approved_by, approved_at, created_at`

func scanGuest(row interface{ Scan(...any) error }) (*model.Guest, error) {
	g := &model.Guest{}
	err := row.Scan(&g.ID, &g.TenantID, &g.LandlordID, &g.Name, &g.Identification,
		&g.ContactNumber, &g.Purpose, &g.ExpectedDuration, &g.StartDate, &g.Status,
		&g.ApprovalNotes, &g.ApprovedBy, &g.ApprovedAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repo) Insert(ctx context.Context, g *model.Guest) error {
	const q = `
INSERT INTO guests (tenant_id, landlord_id, name, identification, contact_number, purpose, expected_duration, start_date, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending')
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		g.TenantID, g.LandlordID, g.Name, g.Identification, g.ContactNumber,
		g.Purpose, g.ExpectedDuration, g.StartDate,
	).Scan(&g.ID, &g.Status, &g.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Guest, error) {
	return scanGuest(r.db.QueryRowContext(ctx,
		`SELECT `+guestCols+` FROM guests WHERE id=$1`, id))
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.Guest, error) {
	q := `SELECT ` + guestCols + ` FROM guests WHERE landlord_id=$1`
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

	var out []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *repo) Decide(ctx context.Context, id int64, status model.GuestStatus, notes *string, actorID int64, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE guests
SET status=$2, approval_notes=$3, approved_by=$4, approved_at=$5
WHERE id=$1 AND status='pending'`, id, status, notes, actorID, at)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Checkout(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE guests SET status='checked_out' WHERE id=$1 AND status='approved'`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

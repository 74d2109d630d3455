package maintrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Filter struct {
	Status   model.MaintenanceStatus
	Priority model.MaintenancePriority
	TenantID int64
}

type Repo interface {
	Insert(ctx context.Context, m *model.MaintenanceRequest) error
	ByID(ctx context.Context, id int64) (*model.MaintenanceRequest, error)
	List(ctx context.Context, landlordID int64, f Filter) ([]model.MaintenanceRequest, error)
	ListForTenant(ctx context.Context, tenantID int64) ([]model.MaintenanceRequest, error)
	SetStatus(ctx context.Context, id int64, status model.MaintenanceStatus, completedAt *time.Time) (bool, error)
	Assign(ctx context.Context, id int64, assignee string) (bool, error)
	AddNote(ctx context.Context, n *model.MaintenanceNote) error
	Notes(ctx context.Context, requestID int64) ([]model.MaintenanceNote, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const reqCols = `id, tenant_id, landlord_id, room_id, issue, description, priority, status, assigned_to, completed_at, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*model.MaintenanceRequest, error) {
	m := &model.MaintenanceRequest{}
	err := row.Scan(&m.ID, &m.TenantID, &m.LandlordID, &m.RoomID, &m.Issue, &m.Description,
		&m.Priority, &m.Status, &m.AssignedTo, &m.CompletedAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) Insert(ctx context.Context, m *model.MaintenanceRequest) error {
	const q = `
INSERT INTO maintenance_requests (tenant_id, landlord_id, room_id, issue, description, priority, status)
VALUES ($1,$2,$3,$4,$5,$6,'pending')
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		m.TenantID, m.LandlordID, m.RoomID, m.Issue, m.Description, m.Priority,
	).Scan(&m.ID, &m.Status, &m.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.MaintenanceRequest, error) {
	return scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+reqCols+` FROM maintenance_requests WHERE id=$1`, id))
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.MaintenanceRequest, error) {
	q := `SELECT ` + reqCols + ` FROM maintenance_requests WHERE landlord_id=$1`
	args := []any{landlordID}
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		q += fmt.Sprintf(" AND priority=$%d", len(args))
	}
	if f.TenantID > 0 {
		args = append(args, f.TenantID)
		q += fmt.Sprintf(" AND tenant_id=$%d", len(args))
	}
	q += ` ORDER BY created_at DESC`
	return r.query(ctx, q, args...)
}

func (r *repo) ListForTenant(ctx context.Context, tenantID int64) ([]model.MaintenanceRequest, error) {
	return r.query(ctx,
		`SELECT `+reqCols+` FROM maintenance_requests WHERE tenant_id=$1 ORDER BY created_at DESC`, tenantID)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.MaintenanceRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MaintenanceRequest
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *repo) SetStatus(ctx context.Context, id int64, status model.MaintenanceStatus, completedAt *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests SET status=$2, completed_at=$3 WHERE id=$1`,
		id, status, completedAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Assign(ctx context.Context, id int64, assignee string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests SET assigned_to=$2, status='in_progress' WHERE id=$1 AND status='pending'`,
		id, assignee)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) AddNote(ctx context.Context, n *model.MaintenanceNote) error {
	return r.db.QueryRowContext(ctx, `
INSERT INTO maintenance_notes (request_id, author_id, content)
VALUES ($1,$2,$3)
RETURNING id, created_at`,
		n.RequestID, n.AuthorID, n.Content,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *repo) Notes(ctx context.Context, requestID int64) ([]model.MaintenanceNote, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, request_id, author_id, content, created_at
FROM maintenance_notes
WHERE request_id=$1
ORDER BY created_at ASC`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MaintenanceNote
	for rows.Next() {
		var n model.MaintenanceNote
		if err := rows.Scan(&n.ID, &n.RequestID, &n.AuthorID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

package tenantrepo

import (
	"context"
	"database/sql"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Repo interface {
	Create(ctx context.Context, t *model.Tenant) error
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
	ByUserID(ctx context.Context, userID int64) (*model.Tenant, error)
	ListForLandlord(ctx context.Context, landlordID int64) ([]model.Tenant, error)
	SetRoom(ctx context.Context, tx *sql.Tx, tenantID int64, roomID *int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const tenantCols = `id, landlord_id, user_id, name, email, phone, room_id, gateway_customer_ref, status, created_at`

func scanTenant(row interface{ Scan(...any) error }) (*model.Tenant, error) {
	t := &model.Tenant{}
	err := row.Scan(&t.ID, &t.LandlordID, &t.UserID, &t.Name, &t.Email, &t.Phone,
		&t.RoomID, &t.GatewayCustomerRef, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) Create(ctx context.Context, t *model.Tenant) error {
	const q = `
INSERT INTO tenants (landlord_id, user_id, name, email, phone, room_id, gateway_customer_ref, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,'active')
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		t.LandlordID, t.UserID, t.Name, t.Email, t.Phone, t.RoomID, t.GatewayCustomerRef,
	).Scan(&t.ID, &t.Status, &t.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantCols+` FROM tenants WHERE id=$1`, id))
}

func (r *repo) ByUserID(ctx context.Context, userID int64) (*model.Tenant, error) {
	return scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantCols+` FROM tenants WHERE user_id=$1`, userID))
}

func (r *repo) ListForLandlord(ctx context.Context, landlordID int64) ([]model.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tenantCols+` FROM tenants WHERE landlord_id=$1 ORDER BY name ASC`, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repo) SetRoom(ctx context.Context, tx *sql.Tx, tenantID int64, roomID *int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE tenants SET room_id=$2 WHERE id=$1`, tenantID, roomID)
	return err
}

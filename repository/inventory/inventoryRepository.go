package inventoryrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Filter struct {
	Category  string
	RoomID    int64
	Condition string
}

type CategoryRow struct {
	Category   string          `json:"category"`
	TotalItems int64           `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
	ItemCount  int64           `json:"item_count"`
}

type RoomRow struct {
	RoomID     *int64 `json:"room_id"`
	TotalItems int64  `json:"total_items"`
	ItemCount  int64  `json:"item_count"`
}

type Repo interface {
	Insert(ctx context.Context, it *model.InventoryItem) error
	ByID(ctx context.Context, id int64) (*model.InventoryItem, error)
	List(ctx context.Context, landlordID int64, f Filter) ([]model.InventoryItem, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.InventoryItem, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ReportByCategory(ctx context.Context, landlordID int64) ([]CategoryRow, error)
	ReportByRoom(ctx context.Context, landlordID int64) ([]RoomRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error)
	MoveToRoom(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error
	ReduceQuantity(ctx context.Context, tx *sql.Tx, id int64, by int) error
	// MergeQuantity adds qty onto an existing matching item in the destination
	// room; reports false when no matching item exists there.
	MergeQuantity(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error)
	InsertTransferred(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const itemCols = `id, landlord_id, room_id, name, category, quantity, condition, purchase_price, description, transferred_from, transferred_at, created_at`

func scanItem(row interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	it := &model.InventoryItem{}
	err := row.Scan(&it.ID, &it.LandlordID, &it.RoomID, &it.Name, &it.Category,
		&it.Quantity, &it.Condition, &it.PurchasePrice, &it.Description,
		&it.TransferredFrom, &it.TransferredAt, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) Insert(ctx context.Context, it *model.InventoryItem) error {
	const q = `
INSERT INTO inventory_items (landlord_id, room_id, name, category, quantity, condition, purchase_price, description)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		it.LandlordID, it.RoomID, it.Name, it.Category, it.Quantity, it.Condition, it.PurchasePrice, it.Description,
	).Scan(&it.ID, &it.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM inventory_items WHERE id=$1`, id))
}

func (r *repo) List(ctx context.Context, landlordID int64, f Filter) ([]model.InventoryItem, error) {
	q := `SELECT ` + itemCols + ` FROM inventory_items WHERE landlord_id=$1`
	args := []any{landlordID}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND category=$%d", len(args))
	}
	if f.RoomID > 0 {
		args = append(args, f.RoomID)
		q += fmt.Sprintf(" AND room_id=$%d", len(args))
	}
	if f.Condition != "" {
		args = append(args, f.Condition)
		q += fmt.Sprintf(" AND condition=$%d", len(args))
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *repo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.InventoryItem, error) {
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
	q := `UPDATE inventory_items SET ` + strings.Join(set, ", ") + ` WHERE id=$1 RETURNING ` + itemCols
	return scanItem(r.db.QueryRowContext(ctx, q, args...))
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) ReportByCategory(ctx context.Context, landlordID int64) ([]CategoryRow, error) {
	const q = `
SELECT category,
       COALESCE(SUM(quantity),0),
       COALESCE(SUM(quantity * COALESCE(purchase_price,0)),0),
       COUNT(*)
FROM inventory_items
WHERE landlord_id=$1
GROUP BY category
ORDER BY category ASC`
	rows, err := r.db.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.Category, &c.TotalItems, &c.TotalValue, &c.ItemCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) ReportByRoom(ctx context.Context, landlordID int64) ([]RoomRow, error) {
	const q = `
SELECT room_id, COALESCE(SUM(quantity),0), COUNT(*)
FROM inventory_items
WHERE landlord_id=$1
GROUP BY room_id
ORDER BY room_id ASC NULLS LAST`
	rows, err := r.db.QueryContext(ctx, q, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoomRow
	for rows.Next() {
		var rr RoomRow
		if err := rows.Scan(&rr.RoomID, &rr.TotalItems, &rr.ItemCount); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
	return scanItem(tx.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM inventory_items WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) MoveToRoom(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
UPDATE inventory_items
SET room_id=$2, transferred_from=$3, transferred_at=$4
WHERE id=$1`, id, roomID, from, at)
	return err
}

func (r *repo) ReduceQuantity(ctx context.Context, tx *sql.Tx, id int64, by int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = quantity - $2 WHERE id=$1`, id, by)
	return err
}

func (r *repo) MergeQuantity(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error) {
	res, err := tx.ExecContext(ctx, `
UPDATE inventory_items
SET quantity = quantity + $5
WHERE landlord_id=$1 AND room_id=$2 AND name=$3 AND category=$4 AND condition=$6`,
		landlordID, roomID, name, category, qty, condition)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) InsertTransferred(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error {
	const q = `
INSERT INTO inventory_items (landlord_id, room_id, name, category, quantity, condition, purchase_price, description, transferred_from, transferred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		it.LandlordID, it.RoomID, it.Name, it.Category, it.Quantity, it.Condition,
		it.PurchasePrice, it.Description, it.TransferredFrom, it.TransferredAt,
	).Scan(&it.ID, &it.CreatedAt)
}

package roomrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Stats struct {
	TotalRooms     int             `json:"total_rooms"`
	AvailableRooms int             `json:"available_rooms"`
	OccupancyRate  int             `json:"occupancy_rate"`
	AverageRate    decimal.Decimal `json:"average_rate"`
}

type Repo interface {
	Create(ctx context.Context, rm *model.Room) error
	ByID(ctx context.Context, id int64) (*model.Room, error)
	NumberExists(ctx context.Context, landlordID int64, number string) (bool, error)
	List(ctx context.Context, landlordID int64) ([]model.Room, error)
	ListByStatus(ctx context.Context, landlordID int64, status model.RoomStatus) ([]model.Room, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Room, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context, landlordID int64) (*Stats, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const roomCols = `id, landlord_id, number, type, status, price, capacity, amenities, notes, created_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	rm := &model.Room{}
	err := row.Scan(&rm.ID, &rm.LandlordID, &rm.Number, &rm.Type, &rm.Status,
		&rm.Price, &rm.Capacity, &rm.Amenities, &rm.Notes, &rm.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *repo) Create(ctx context.Context, rm *model.Room) error {
	const q = `
INSERT INTO rooms (landlord_id, number, type, status, price, capacity, amenities, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		rm.LandlordID, rm.Number, rm.Type, rm.Status, rm.Price, rm.Capacity, rm.Amenities, rm.Notes,
	).Scan(&rm.ID, &rm.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE id=$1`, id))
}

func (r *repo) NumberExists(ctx context.Context, landlordID int64, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM rooms WHERE landlord_id=$1 AND number=$2)`,
		landlordID, number,
	).Scan(&exists)
	return exists, err
}

func (r *repo) List(ctx context.Context, landlordID int64) ([]model.Room, error) {
	return r.list(ctx, `SELECT `+roomCols+` FROM rooms WHERE landlord_id=$1 ORDER BY number ASC`, landlordID)
}

func (r *repo) ListByStatus(ctx context.Context, landlordID int64, status model.RoomStatus) ([]model.Room, error) {
	return r.list(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE landlord_id=$1 AND status=$2 ORDER BY number ASC`,
		landlordID, status)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	return out, rows.Err()
}

// UpdateFields applies a partial update. Keys are column names vetted by the service.
func (r *repo) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.Room, error) {
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
	q := `UPDATE rooms SET ` + strings.Join(set, ", ") + ` WHERE id=$1 RETURNING ` + roomCols
	return scanRoom(r.db.QueryRowContext(ctx, q, args...))
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) Stats(ctx context.Context, landlordID int64) (*Stats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status='available'),
       COALESCE(ROUND(100.0 * COUNT(*) FILTER (WHERE status='occupied') / NULLIF(COUNT(*),0)),0)::INT,
       COALESCE(AVG(price),0)
FROM rooms
WHERE landlord_id=$1`
	s := &Stats{}
	if err := r.db.QueryRowContext(ctx, q, landlordID).Scan(
		&s.TotalRooms, &s.AvailableRooms, &s.OccupancyRate, &s.AverageRate,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error) {
	return scanRoom(tx.QueryRowContext(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE rooms SET status=$2 WHERE id=$1`, id, status)
	return err
}

package inventorysvc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/miccx-24/boardinghousebackend/model"
	inventoryrepo "github.com/miccx-24/boardinghousebackend/repository/inventory"
)

type itemsMock struct {
	insertFn       func(ctx context.Context, it *model.InventoryItem) error
	getForUpdateFn func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error)
	moveFn         func(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error
	reduceFn       func(ctx context.Context, tx *sql.Tx, id int64, by int) error
	mergeFn        func(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error)
	insertMovedFn  func(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error
}

func (m *itemsMock) Insert(ctx context.Context, it *model.InventoryItem) error {
	return m.insertFn(ctx, it)
}
func (m *itemsMock) List(ctx context.Context, landlordID int64, f inventoryrepo.Filter) ([]model.InventoryItem, error) {
	return nil, nil
}
func (m *itemsMock) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.InventoryItem, error) {
	return nil, sql.ErrNoRows
}
func (m *itemsMock) Delete(ctx context.Context, id int64) (bool, error) { return false, nil }
func (m *itemsMock) ReportByCategory(ctx context.Context, landlordID int64) ([]inventoryrepo.CategoryRow, error) {
	return nil, nil
}
func (m *itemsMock) ReportByRoom(ctx context.Context, landlordID int64) ([]inventoryrepo.RoomRow, error) {
	return nil, nil
}
func (m *itemsMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
	return m.getForUpdateFn(ctx, tx, id)
}
func (m *itemsMock) MoveToRoom(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error {
	return m.moveFn(ctx, tx, id, roomID, from, at)
}
func (m *itemsMock) ReduceQuantity(ctx context.Context, tx *sql.Tx, id int64, by int) error {
	return m.reduceFn(ctx, tx, id, by)
}
func (m *itemsMock) MergeQuantity(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error) {
	return m.mergeFn(ctx, tx, landlordID, roomID, name, category, condition, qty)
}
func (m *itemsMock) InsertTransferred(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error {
	return m.insertMovedFn(ctx, tx, it)
}

type roomsMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.Room, error)
}

func (m *roomsMock) ByID(ctx context.Context, id int64) (*model.Room, error) {
	return m.byIDFn(ctx, id)
}

func roomOK() *roomsMock {
	return &roomsMock{byIDFn: func(ctx context.Context, id int64) (*model.Room, error) {
		return &model.Room{ID: id, LandlordID: 1, Number: "A1"}, nil
	}}
}

func stockedItem(roomID int64, qty int) *model.InventoryItem {
	return &model.InventoryItem{
		ID:         7,
		LandlordID: 1,
		RoomID:     &roomID,
		Name:       "Mattress",
		Category:   "furniture",
		Quantity:   qty,
		Condition:  "good",
	}
}

func newTestService(t *testing.T, im *itemsMock, rm *roomsMock) (*service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := New(db, im, rm).(*service)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, mock
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService(t, &itemsMock{}, roomOK())

	cases := []AddInput{
		{Name: "", Category: "furniture", Quantity: 1},
		{Name: "Mattress", Category: "", Quantity: 1},
		{Name: "Mattress", Category: "furniture", Quantity: 0},
	}
	for _, in := range cases {
		_, err := svc.Add(context.Background(), 1, in)
		require.Equal(t, ErrBadInput, Code(err))
	}
}

func TestAdd_RoomMissing(t *testing.T) {
	rm := &roomsMock{byIDFn: func(ctx context.Context, id int64) (*model.Room, error) {
		return nil, sql.ErrNoRows
	}}
	svc, _ := newTestService(t, &itemsMock{}, rm)

	room := int64(99)
	_, err := svc.Add(context.Background(), 1, AddInput{Name: "Fan", Category: "appliance", Quantity: 2, RoomID: &room})
	require.Equal(t, ErrRoomNotFound, Code(err))
}

func TestTransfer_QuantityBounds(t *testing.T) {
	im := &itemsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
			return stockedItem(2, 3), nil
		},
	}
	svc, mock := newTestService(t, im, roomOK())

	_, err := svc.Transfer(context.Background(), 1, 7, 5, 0)
	require.Equal(t, ErrBadQuantity, Code(err))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Transfer(context.Background(), 1, 7, 5, 4)
	require.Equal(t, ErrBadQuantity, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransfer_RoomMissing(t *testing.T) {
	rm := &roomsMock{byIDFn: func(ctx context.Context, id int64) (*model.Room, error) {
		return nil, sql.ErrNoRows
	}}
	svc, _ := newTestService(t, &itemsMock{}, rm)

	_, err := svc.Transfer(context.Background(), 1, 7, 5, 1)
	require.Equal(t, ErrRoomNotFound, Code(err))
}

func TestTransfer_FullQuantityMovesRow(t *testing.T) {
	var movedID, movedRoom int64
	var movedFrom *int64
	im := &itemsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
			return stockedItem(2, 3), nil
		},
		moveFn: func(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error {
			movedID, movedRoom, movedFrom = id, roomID, from
			return nil
		},
	}
	svc, mock := newTestService(t, im, roomOK())

	mock.ExpectBegin()
	mock.ExpectCommit()
	it, err := svc.Transfer(context.Background(), 1, 7, 5, 3)
	require.NoError(t, err)
	require.Equal(t, int64(7), movedID)
	require.Equal(t, int64(5), movedRoom)
	require.NotNil(t, movedFrom)
	require.Equal(t, int64(2), *movedFrom)

	require.NotNil(t, it.RoomID)
	require.Equal(t, int64(5), *it.RoomID)
	require.NotNil(t, it.TransferredFrom)
	require.Equal(t, int64(2), *it.TransferredFrom)
	require.NotNil(t, it.TransferredAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransfer_PartialMergesIntoDestination(t *testing.T) {
	var mergedQty, reducedBy int
	im := &itemsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
			return stockedItem(2, 5), nil
		},
		mergeFn: func(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error) {
			require.Equal(t, int64(5), roomID)
			require.Equal(t, "Mattress", name)
			require.Equal(t, "furniture", category)
			require.Equal(t, "good", condition)
			mergedQty = qty
			return true, nil
		},
		reduceFn: func(ctx context.Context, tx *sql.Tx, id int64, by int) error {
			reducedBy = by
			return nil
		},
		insertMovedFn: func(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error {
			t.Fatal("no new row expected when destination merges")
			return nil
		},
	}
	svc, mock := newTestService(t, im, roomOK())

	mock.ExpectBegin()
	mock.ExpectCommit()
	it, err := svc.Transfer(context.Background(), 1, 7, 5, 2)
	require.NoError(t, err)
	require.Equal(t, 2, mergedQty)
	require.Equal(t, 2, reducedBy)
	require.Equal(t, 3, it.Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransfer_PartialSplitsWithoutMerge(t *testing.T) {
	var inserted *model.InventoryItem
	var reducedBy int
	im := &itemsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
			return stockedItem(2, 5), nil
		},
		mergeFn: func(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error) {
			return false, nil
		},
		insertMovedFn: func(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error {
			inserted = it
			return nil
		},
		reduceFn: func(ctx context.Context, tx *sql.Tx, id int64, by int) error {
			reducedBy = by
			return nil
		},
	}
	svc, mock := newTestService(t, im, roomOK())

	mock.ExpectBegin()
	mock.ExpectCommit()
	it, err := svc.Transfer(context.Background(), 1, 7, 5, 2)
	require.NoError(t, err)

	require.NotNil(t, inserted)
	require.Equal(t, 2, inserted.Quantity)
	require.NotNil(t, inserted.RoomID)
	require.Equal(t, int64(5), *inserted.RoomID)
	require.NotNil(t, inserted.TransferredFrom)
	require.Equal(t, int64(2), *inserted.TransferredFrom)
	require.NotNil(t, inserted.TransferredAt)

	require.Equal(t, 2, reducedBy)
	require.Equal(t, 3, it.Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransfer_ItemMissing(t *testing.T) {
	im := &itemsMock{
		getForUpdateFn: func(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc, mock := newTestService(t, im, roomOK())

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Transfer(context.Background(), 1, 404, 5, 1)
	require.Equal(t, ErrNotFound, Code(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NegativeQuantity(t *testing.T) {
	svc, _ := newTestService(t, &itemsMock{}, roomOK())

	neg := -1
	_, err := svc.Update(context.Background(), 7, UpdateInput{Quantity: &neg})
	require.Equal(t, ErrBadQuantity, Code(err))
}

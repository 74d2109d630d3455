package inventorysvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
	inventoryrepo "github.com/miccx-24/boardinghousebackend/repository/inventory"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrRoomNotFound ErrCode = "ROOM_NOT_FOUND"
	ErrBadQuantity  ErrCode = "BAD_QUANTITY"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type AddInput struct {
	Name          string
	Category      string
	Quantity      int
	Condition     string
	RoomID        *int64
	PurchasePrice *decimal.Decimal
	Description   *string
}

type UpdateInput struct {
	Name          *string
	Category      *string
	Quantity      *int
	Condition     *string
	RoomID        *int64
	PurchasePrice *decimal.Decimal
	Description   *string
}

type Report struct {
	ByCategory []inventoryrepo.CategoryRow `json:"by_category"`
	ByRoom     []inventoryrepo.RoomRow     `json:"by_room"`
}

// collaborator slices, mocked in tests

type ItemRepo interface {
	Insert(ctx context.Context, it *model.InventoryItem) error
	List(ctx context.Context, landlordID int64, f inventoryrepo.Filter) ([]model.InventoryItem, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (*model.InventoryItem, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ReportByCategory(ctx context.Context, landlordID int64) ([]inventoryrepo.CategoryRow, error)
	ReportByRoom(ctx context.Context, landlordID int64) ([]inventoryrepo.RoomRow, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.InventoryItem, error)
	MoveToRoom(ctx context.Context, tx *sql.Tx, id, roomID int64, from *int64, at time.Time) error
	ReduceQuantity(ctx context.Context, tx *sql.Tx, id int64, by int) error
	MergeQuantity(ctx context.Context, tx *sql.Tx, landlordID, roomID int64, name, category, condition string, qty int) (bool, error)
	InsertTransferred(ctx context.Context, tx *sql.Tx, it *model.InventoryItem) error
}

type RoomChecker interface {
	ByID(ctx context.Context, id int64) (*model.Room, error)
}

type Service interface {
	Add(ctx context.Context, landlordID int64, in AddInput) (*model.InventoryItem, error)
	List(ctx context.Context, landlordID int64, f inventoryrepo.Filter) ([]model.InventoryItem, error)
	Update(ctx context.Context, itemID int64, in UpdateInput) (*model.InventoryItem, error)
	Delete(ctx context.Context, itemID int64) error
	Transfer(ctx context.Context, landlordID, itemID, newRoomID int64, quantity int) (*model.InventoryItem, error)
	Report(ctx context.Context, landlordID int64) (*Report, error)
}

type service struct {
	db    *sql.DB
	items ItemRepo
	rooms RoomChecker
	now   func() time.Time
}

func New(db *sql.DB, items ItemRepo, rooms RoomChecker) Service {
	return &service{db: db, items: items, rooms: rooms, now: time.Now}
}

func (s *service) Add(ctx context.Context, landlordID int64, in AddInput) (*model.InventoryItem, error) {
	if in.Name == "" || in.Category == "" || in.Quantity <= 0 {
		return nil, makeErr(ErrBadInput)
	}
	if in.RoomID != nil {
		if _, err := s.rooms.ByID(ctx, *in.RoomID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, makeErr(ErrRoomNotFound)
			}
			return nil, err
		}
	}
	it := &model.InventoryItem{
		LandlordID:    landlordID,
		RoomID:        in.RoomID,
		Name:          in.Name,
		Category:      in.Category,
		Quantity:      in.Quantity,
		Condition:     in.Condition,
		PurchasePrice: in.PurchasePrice,
		Description:   in.Description,
	}
	if err := s.items.Insert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) List(ctx context.Context, landlordID int64, f inventoryrepo.Filter) ([]model.InventoryItem, error) {
	return s.items.List(ctx, landlordID, f)
}

func (s *service) Update(ctx context.Context, itemID int64, in UpdateInput) (*model.InventoryItem, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, makeErr(ErrBadQuantity)
		}
		fields["quantity"] = *in.Quantity
	}
	if in.Condition != nil {
		fields["condition"] = *in.Condition
	}
	if in.RoomID != nil {
		fields["room_id"] = *in.RoomID
	}
	if in.PurchasePrice != nil {
		fields["purchase_price"] = *in.PurchasePrice
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	it, err := s.items.UpdateFields(ctx, itemID, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, itemID int64) error {
	ok, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

// Transfer moves quantity between rooms. The whole quantity moves the row;
// a partial quantity splits it, merging into a matching item already in the
// destination room when one exists.
func (s *service) Transfer(ctx context.Context, landlordID, itemID, newRoomID int64, quantity int) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, makeErr(ErrBadQuantity)
	}
	if _, err := s.rooms.ByID(ctx, newRoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrRoomNotFound)
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	it, err := s.items.GetForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound)
		}
		return nil, err
	}
	if quantity > it.Quantity {
		err = makeErr(ErrBadQuantity)
		return nil, err
	}

	at := s.now()
	if quantity == it.Quantity {
		if err = s.items.MoveToRoom(ctx, tx, itemID, newRoomID, it.RoomID, at); err != nil {
			return nil, err
		}
		it.TransferredFrom = it.RoomID
		it.RoomID = &newRoomID
		it.TransferredAt = &at
	} else {
		merged, merr := s.items.MergeQuantity(ctx, tx, landlordID, newRoomID, it.Name, it.Category, it.Condition, quantity)
		if merr != nil {
			err = merr
			return nil, err
		}
		if !merged {
			moved := &model.InventoryItem{
				LandlordID:      landlordID,
				RoomID:          &newRoomID,
				Name:            it.Name,
				Category:        it.Category,
				Quantity:        quantity,
				Condition:       it.Condition,
				PurchasePrice:   it.PurchasePrice,
				Description:     it.Description,
				TransferredFrom: it.RoomID,
				TransferredAt:   &at,
			}
			if err = s.items.InsertTransferred(ctx, tx, moved); err != nil {
				return nil, err
			}
		}
		if err = s.items.ReduceQuantity(ctx, tx, itemID, quantity); err != nil {
			return nil, err
		}
		it.Quantity -= quantity
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Report(ctx context.Context, landlordID int64) (*Report, error) {
	byCat, err := s.items.ReportByCategory(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	byRoom, err := s.items.ReportByRoom(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	return &Report{ByCategory: byCat, ByRoom: byRoom}, nil
}

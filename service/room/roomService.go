package roomsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/miccx-24/boardinghousebackend/model"
	roomrepo "github.com/miccx-24/boardinghousebackend/repository/room"
)

type ErrCode string

const (
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrDuplicateNumber ErrCode = "DUPLICATE_NUMBER"
	ErrBadInput        ErrCode = "BAD_INPUT"
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

type CreateInput struct {
	Number    string
	Type      string
	Price     decimal.Decimal
	Capacity  int
	Amenities *string
	Notes     *string
}

type UpdateInput struct {
	Number   *string
	Type     *string
	Status   *string
	Price    *decimal.Decimal
	Capacity *int
	Notes    *string
}

type Service interface {
	Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Room, error)
	List(ctx context.Context, landlordID int64) ([]model.Room, error)
	MaintenanceRooms(ctx context.Context, landlordID int64) ([]model.Room, error)
	Update(ctx context.Context, roomID int64, in UpdateInput) (*model.Room, error)
	Delete(ctx context.Context, roomID int64) error
	Stats(ctx context.Context, landlordID int64) (*roomrepo.Stats, error)
}

type service struct{ r roomrepo.Repo }

func New(r roomrepo.Repo) Service { return &service{r: r} }

func validRoomType(t string) bool {
	switch model.RoomType(t) {
	case model.RoomSingle, model.RoomDouble, model.RoomSuite:
		return true
	}
	return false
}

func validRoomStatus(s string) bool {
	switch model.RoomStatus(s) {
	case model.RoomAvailable, model.RoomOccupied, model.RoomMaintenance:
		return true
	}
	return false
}

func (s *service) Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Room, error) {
	if in.Number == "" || !validRoomType(in.Type) || !in.Price.IsPositive() {
		return nil, makeErr(ErrBadInput)
	}
	exists, err := s.r.NumberExists(ctx, landlordID, in.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, makeErr(ErrDuplicateNumber)
	}
	capacity := in.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	rm := &model.Room{
		LandlordID: landlordID,
		Number:     in.Number,
		Type:       model.RoomType(in.Type),
		Status:     model.RoomAvailable,
		Price:      in.Price,
		Capacity:   capacity,
		Amenities:  in.Amenities,
		Notes:      in.Notes,
	}
	if err := s.r.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) List(ctx context.Context, landlordID int64) ([]model.Room, error) {
	return s.r.List(ctx, landlordID)
}

func (s *service) MaintenanceRooms(ctx context.Context, landlordID int64) ([]model.Room, error) {
	return s.r.ListByStatus(ctx, landlordID, model.RoomMaintenance)
}

func (s *service) Update(ctx context.Context, roomID int64, in UpdateInput) (*model.Room, error) {
	fields := map[string]any{}
	if in.Number != nil {
		fields["number"] = *in.Number
	}
	if in.Type != nil {
		if !validRoomType(*in.Type) {
			return nil, makeErr(ErrBadInput)
		}
		fields["type"] = *in.Type
	}
	if in.Status != nil {
		if !validRoomStatus(*in.Status) {
			return nil, makeErr(ErrBadInput)
		}
		fields["status"] = *in.Status
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, makeErr(ErrBadInput)
		}
		fields["price"] = *in.Price
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, makeErr(ErrBadInput)
		}
		fields["capacity"] = *in.Capacity
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	rm, err := s.r.UpdateFields(ctx, roomID, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return rm, nil
}

func (s *service) Delete(ctx context.Context, roomID int64) error {
	ok, err := s.r.Delete(ctx, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Stats(ctx context.Context, landlordID int64) (*roomrepo.Stats, error) {
	return s.r.Stats(ctx, landlordID)
}

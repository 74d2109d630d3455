package tenantsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/miccx-24/boardinghousebackend/model"
	roomrepo "github.com/miccx-24/boardinghousebackend/repository/room"
	tenantrepo "github.com/miccx-24/boardinghousebackend/repository/tenant"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrRoomNotFound ErrCode = "ROOM_NOT_FOUND"
	ErrRoomOccupied ErrCode = "ROOM_OCCUPIED"
	ErrNoRoom       ErrCode = "NO_ROOM"
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

type CreateInput struct {
	Name               string
	Email              string
	Phone              *string
	UserID             *int64
	GatewayCustomerRef *string
}

type Service interface {
	Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Tenant, error)
	List(ctx context.Context, landlordID int64) ([]model.Tenant, error)
	Detail(ctx context.Context, tenantID int64) (*model.Tenant, error)
	ByUser(ctx context.Context, userID int64) (*model.Tenant, error)
	AssignRoom(ctx context.Context, tenantID, roomID int64) (*model.Tenant, error)
	RemoveFromRoom(ctx context.Context, tenantID int64) error
}

type service struct {
	db      *sql.DB
	tenants tenantrepo.Repo
	rooms   roomrepo.Repo
}

func New(db *sql.DB, tenants tenantrepo.Repo, rooms roomrepo.Repo) Service {
	return &service{db: db, tenants: tenants, rooms: rooms}
}

func (s *service) Create(ctx context.Context, landlordID int64, in CreateInput) (*model.Tenant, error) {
	if in.Name == "" || in.Email == "" {
		return nil, makeErr(ErrBadInput)
	}
	t := &model.Tenant{
		LandlordID:         landlordID,
		UserID:             in.UserID,
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		GatewayCustomerRef: in.GatewayCustomerRef,
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) List(ctx context.Context, landlordID int64) ([]model.Tenant, error) {
	return s.tenants.ListForLandlord(ctx, landlordID)
}

func (s *service) Detail(ctx context.Context, tenantID int64) (*model.Tenant, error) {
	t, err := s.tenants.ByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (s *service) ByUser(ctx context.Context, userID int64) (*model.Tenant, error) {
	t, err := s.tenants.ByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// AssignRoom moves a tenant into an available room. The room row is locked so
// two assignments cannot both observe it available.
func (s *service) AssignRoom(ctx context.Context, tenantID, roomID int64) (*model.Tenant, error) {
	t, err := s.tenants.ByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
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

	rm, err := s.rooms.GetForUpdate(ctx, tx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrRoomNotFound)
		}
		return nil, err
	}
	if rm.Status != model.RoomAvailable {
		err = makeErr(ErrRoomOccupied)
		return nil, err
	}

	if err = s.rooms.SetStatus(ctx, tx, roomID, model.RoomOccupied); err != nil {
		return nil, err
	}
	if err = s.tenants.SetRoom(ctx, tx, tenantID, &roomID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	t.RoomID = &roomID
	return t, nil
}

func (s *service) RemoveFromRoom(ctx context.Context, tenantID int64) error {
	t, err := s.tenants.ByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if t.RoomID == nil {
		return makeErr(ErrNoRoom)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.rooms.SetStatus(ctx, tx, *t.RoomID, model.RoomAvailable); err != nil {
		return err
	}
	if err = s.tenants.SetRoom(ctx, tx, tenantID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

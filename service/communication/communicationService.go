package commsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
	convrepo "github.com/miccx-24/boardinghousebackend/repository/conversation"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrBadInput  ErrCode = "BAD_INPUT"
)

type codedError struct {
	code  ErrCode
	cause error
}

func (e codedError) Error() string {
	if e.cause != nil {
		return string(e.code) + ": " + e.cause.Error()
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type TenantRepo interface {
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
}

type Service interface {
	Open(ctx context.Context, tenantID, landlordID int64) (*model.Conversation, error)
	ListForLandlord(ctx context.Context, landlordID int64) ([]model.Conversation, error)
	Send(ctx context.Context, conversationID, senderID int64, content string) (*model.Message, error)
	Messages(ctx context.Context, conversationID, readerID int64) ([]model.Message, error)
}

type service struct {
	db      *sql.DB
	convs   convrepo.Repo
	tenants TenantRepo
	now     func() time.Time
}

func New(db *sql.DB, convs convrepo.Repo, tenants TenantRepo) Service {
	return &service{db: db, convs: convs, tenants: tenants, now: time.Now}
}

func (s *service) Open(ctx context.Context, tenantID, landlordID int64) (*model.Conversation, error) {
	return s.convs.GetOrCreate(ctx, tenantID, landlordID)
}

func (s *service) ListForLandlord(ctx context.Context, landlordID int64) ([]model.Conversation, error) {
	return s.convs.ListForLandlord(ctx, landlordID)
}

// Conversations link a tenant record to a landlord account. The tenant side
// is reached through the tenant's linked login, so participation is checked
// against the landlord's user id or the tenant record's user id.
func (s *service) participant(ctx context.Context, c *model.Conversation, userID int64) (bool, error) {
	if c.LandlordID == userID {
		return true, nil
	}
	t, err := s.tenants.ByID(ctx, c.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return t.UserID != nil && *t.UserID == userID, nil
}

func (s *service) Send(ctx context.Context, conversationID, senderID int64, content string) (msg *model.Message, err error) {
	if content == "" {
		return nil, makeErr(ErrBadInput)
	}
	conv, err := s.convs.ByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	ok, err := s.participant(ctx, conv, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrForbidden)
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

	m := &model.Message{ConversationID: conversationID, SenderID: senderID, Content: content}
	if err = s.convs.InsertMessage(ctx, tx, m); err != nil {
		return nil, err
	}
	if err = s.convs.TouchLastMessage(ctx, tx, conversationID, s.now()); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Messages(ctx context.Context, conversationID, readerID int64) ([]model.Message, error) {
	conv, err := s.convs.ByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	ok, err := s.participant(ctx, conv, readerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrForbidden)
	}

	msgs, err := s.convs.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	// Pulling the thread marks the other party's messages as read.
	if _, err := s.convs.MarkRead(ctx, conversationID, readerID); err != nil {
		return nil, err
	}
	return msgs, nil
}

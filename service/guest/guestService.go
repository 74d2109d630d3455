package guestsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
	guestrepo "github.com/miccx-24/boardinghousebackend/repository/guest"
	mailrepo "github.com/miccx-24/boardinghousebackend/repository/mailer"
)

type ErrCode string

const (
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrTenantNotFound ErrCode = "TENANT_NOT_FOUND"
	ErrNotPending     ErrCode = "NOT_PENDING"
	ErrNotApproved    ErrCode = "NOT_APPROVED"
	ErrBadInput       ErrCode = "BAD_INPUT"
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

type RegisterInput struct {
	TenantID         int64
	Name             string
	Identification   string
	ContactNumber    string
	Purpose          string
	ExpectedDuration string
	StartDate        string
}

type TenantRepo interface {
	ByID(ctx context.Context, id int64) (*model.Tenant, error)
}

type Service interface {
	Register(ctx context.Context, landlordID int64, in RegisterInput) (*model.Guest, error)
	List(ctx context.Context, landlordID int64, f guestrepo.Filter) ([]model.Guest, error)
	Approve(ctx context.Context, guestID, actorID int64, notes *string) (*model.Guest, error)
	Reject(ctx context.Context, guestID, actorID int64, notes *string) (*model.Guest, error)
	Checkout(ctx context.Context, guestID int64) error
}

type service struct {
	guests  guestrepo.Repo
	tenants TenantRepo
	mail    mailrepo.Repo
	log     *slog.Logger
	now     func() time.Time
}

func New(guests guestrepo.Repo, tenants TenantRepo, mail mailrepo.Repo, log *slog.Logger) Service {
	return &service{guests: guests, tenants: tenants, mail: mail, log: log, now: time.Now}
}

func (s *service) Register(ctx context.Context, landlordID int64, in RegisterInput) (*model.Guest, error) {
	if in.Name == "" || in.Identification == "" {
		return nil, makeErr(ErrBadInput)
	}
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, makeErr(ErrBadInput)
	}

	tenant, err := s.tenants.ByID(ctx, in.TenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTenantNotFound)
		}
		return nil, err
	}

	g := &model.Guest{
		TenantID:         in.TenantID,
		LandlordID:       landlordID,
		Name:             in.Name,
		Identification:   in.Identification,
		ContactNumber:    in.ContactNumber,
		Purpose:          in.Purpose,
		ExpectedDuration: in.ExpectedDuration,
		StartDate:        start,
	}
	if err := s.guests.Insert(ctx, g); err != nil {
		return nil, err
	}

	s.notify(tenant.Email, "Guest Registration Confirmation",
		fmt.Sprintf("A guest (%s) has been registered under your name.", g.Name))
	return g, nil
}

func (s *service) notify(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mail.Send(ctx, mailrepo.SendReq{To: to, Subject: subject, Body: body}); err != nil {
			s.log.Error("guest notification failed", "to", to, "err", err)
		}
	}()
}

func (s *service) List(ctx context.Context, landlordID int64, f guestrepo.Filter) ([]model.Guest, error) {
	return s.guests.List(ctx, landlordID, f)
}

func (s *service) Approve(ctx context.Context, guestID, actorID int64, notes *string) (*model.Guest, error) {
	return s.decide(ctx, guestID, actorID, model.GuestApproved, notes,
		"Guest Approval Notification", "Your guest (%s) has been approved.")
}

func (s *service) Reject(ctx context.Context, guestID, actorID int64, notes *string) (*model.Guest, error) {
	return s.decide(ctx, guestID, actorID, model.GuestRejected, notes,
		"Guest Registration Update", "Your guest (%s) could not be approved.")
}

func (s *service) decide(ctx context.Context, guestID, actorID int64, status model.GuestStatus, notes *string, subject, bodyFmt string) (*model.Guest, error) {
	ok, err := s.guests.Decide(ctx, guestID, status, notes, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either absent or already decided.
		if _, err := s.guests.ByID(ctx, guestID); errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, makeErr(ErrNotPending)
	}

	g, err := s.guests.ByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if tenant, terr := s.tenants.ByID(ctx, g.TenantID); terr == nil {
		s.notify(tenant.Email, subject, fmt.Sprintf(bodyFmt, g.Name))
	}
	return g, nil
}

func (s *service) Checkout(ctx context.Context, guestID int64) error {
	ok, err := s.guests.Checkout(ctx, guestID)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.guests.ByID(ctx, guestID); errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return makeErr(ErrNotApproved)
	}
	return nil
}

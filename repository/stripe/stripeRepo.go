package striperepo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type ChargeReq struct {
	Amount         decimal.Decimal
	CustomerRef    string
	Method         string
	IdempotencyKey string
}

type ChargeResp struct {
	TransactionID string
}

type CreateInvoiceReq struct {
	CustomerRef string
	Amount      decimal.Decimal
	Description string
	DueDate     time.Time
}

type CreateInvoiceResp struct {
	InvoiceID string
}

// GatewayError distinguishes client-side declines from infrastructure failures
// so the caller can map them to 402 vs 502.
type GatewayError struct {
	Status   int
	Code     string
	Declined bool
	Msg      string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("stripe: %s (status=%d code=%s)", e.Msg, e.Status, e.Code)
}

type Repo interface {
	Charge(ctx context.Context, req ChargeReq) (*ChargeResp, error)
	Refund(ctx context.Context, transactionID string) error
	CreateInvoice(ctx context.Context, req CreateInvoiceReq) (*CreateInvoiceResp, error)
	CancelInvoice(ctx context.Context, invoiceID string) error
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentVoided    PaymentStatus = "voided"
)

type Payment struct {
	ID                 int64           `json:"id"`
	TenantID           int64           `json:"tenant_id"`
	LandlordID         int64           `json:"landlord_id"`
	BillID             *int64          `json:"bill_id,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentDate        time.Time       `json:"payment_date"`
	Status             PaymentStatus   `json:"status"`
	ExternalPaymentRef *string         `json:"external_payment_ref,omitempty"`
	VoidReason         *string         `json:"void_reason,omitempty"`
	VoidedBy           *int64          `json:"voided_by,omitempty"`
	VoidedAt           *time.Time      `json:"voided_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

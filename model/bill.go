package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillRent        BillType = "rent"
	BillUtility     BillType = "utility"
	BillMaintenance BillType = "maintenance"
	BillOther       BillType = "other"
)

type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

type Bill struct {
	ID                 int64           `json:"id"`
	TenantID           int64           `json:"tenant_id"`
	LandlordID         int64           `json:"landlord_id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	DueDate            time.Time       `json:"due_date"`
	BillType           BillType        `json:"bill_type"`
	Status             BillStatus      `json:"status"`
	ExternalInvoiceRef *string         `json:"external_invoice_ref,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

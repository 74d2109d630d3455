package payment

import "github.com/shopspring/decimal"

type PayReq struct {
	BillID *int64          `json:"bill_id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

type RecordPaymentReq struct {
	TenantID    int64           `json:"tenant_id" validate:"required,gt=0"`
	BillID      *int64          `json:"bill_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method" validate:"required"`
	PaymentDate string          `json:"payment_date" validate:"required"`
}

type VoidReq struct {
	Reason string `json:"reason" validate:"required"`
}

type TenantPaymentReq struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required"`
}

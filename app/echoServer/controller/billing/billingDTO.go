package billing

import "github.com/shopspring/decimal"

type CreateBillReq struct {
	TenantID    int64           `json:"tenant_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
	DueDate     string          `json:"due_date" validate:"required"`
	BillType    string          `json:"bill_type" validate:"required"`
}

type UpdateBillReq struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	DueDate     *string          `json:"due_date"`
	BillType    *string          `json:"bill_type"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID              int64            `json:"id"`
	LandlordID      int64            `json:"landlord_id"`
	RoomID          *int64           `json:"room_id,omitempty"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Quantity        int              `json:"quantity"`
	Condition       string           `json:"condition"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price,omitempty"`
	Description     *string          `json:"description,omitempty"`
	TransferredFrom *int64           `json:"transferred_from,omitempty"`
	TransferredAt   *time.Time       `json:"transferred_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

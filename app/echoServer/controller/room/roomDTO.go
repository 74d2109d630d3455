package room

import "github.com/shopspring/decimal"

type CreateRoomReq struct {
	Number    string          `json:"number" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=single double suite"`
	Price     decimal.Decimal `json:"price"`
	Capacity  int             `json:"capacity" validate:"gte=0"`
	Amenities *string         `json:"amenities"`
	Notes     *string         `json:"notes"`
}

type UpdateRoomReq struct {
	Number   *string          `json:"number"`
	Type     *string          `json:"type"`
	Status   *string          `json:"status"`
	Price    *decimal.Decimal `json:"price"`
	Capacity *int             `json:"capacity"`
	Notes    *string          `json:"notes"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

type Room struct {
	ID         int64           `json:"id"`
	LandlordID int64           `json:"landlord_id"`
	Number     string          `json:"number"`
	Type       RoomType        `json:"type"`
	Status     RoomStatus      `json:"status"`
	Price      decimal.Decimal `json:"price"`
	Capacity   int             `json:"capacity"`
	Amenities  *string         `json:"amenities,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

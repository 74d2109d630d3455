package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaseStatus string

const (
	LeaseActive     LeaseStatus = "active"
	LeaseExpired    LeaseStatus = "expired"
	LeaseTerminated LeaseStatus = "terminated"
)

type Lease struct {
	ID          int64           `json:"id"`
	TenantID    int64           `json:"tenant_id"`
	LandlordID  int64           `json:"landlord_id"`
	RoomID      int64           `json:"room_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Terms       string          `json:"terms"`
	Status      LeaseStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

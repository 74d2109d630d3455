package model

import "time"

type TenantStatus string

const (
	TenantActive TenantStatus = "active"
	TenantFormer TenantStatus = "former"
)

// Tenant is the billable identity under a landlord. It may be linked to a
// login account (UserID) and to the room it currently occupies.
type Tenant struct {
	ID                 int64        `json:"id"`
	LandlordID         int64        `json:"landlord_id"`
	UserID             *int64       `json:"user_id,omitempty"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              *string      `json:"phone,omitempty"`
	RoomID             *int64       `json:"room_id,omitempty"`
	GatewayCustomerRef *string      `json:"gateway_customer_ref,omitempty"`
	Status             TenantStatus `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
}

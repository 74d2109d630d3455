package model

import "time"

type GuestStatus string

const (
	GuestPending    GuestStatus = "pending"
	GuestApproved   GuestStatus = "approved"
	GuestRejected   GuestStatus = "rejected"
	GuestCheckedOut GuestStatus = "checked_out"
)

type Guest struct {
	ID               int64       `json:"id"`
	TenantID         int64       `json:"tenant_id"`
	LandlordID       int64       `json:"landlord_id"`
	Name             string      `json:"name"`
	Identification   string      `json:"identification"`
	ContactNumber    string      `json:"contact_number"`
	Purpose          string      `json:"purpose"`
	ExpectedDuration string      `json:"expected_duration"`
	StartDate        time.Time   `json:"start_date"`
	Status           GuestStatus `json:"status"`
	ApprovalNotes    *string     `json:"approval_notes,omitempty"`
	ApprovedBy       *int64      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time  `json:"approved_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

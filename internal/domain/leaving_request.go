package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeavingRequestStatus string

const (
	LeavingRequestPending  LeavingRequestStatus = "PENDING"
	LeavingRequestApproved LeavingRequestStatus = "APPROVED"
	LeavingRequestRejected LeavingRequestStatus = "REJECTED"
)

// LeavingRequest is a member's notice of intent to vacate. PendingDues is a
// snapshot computed by the dues calculator; it goes stale when payments are
// approved afterwards and is refreshed by the dues-refresh job.
type LeavingRequest struct {
	ID        string               `json:"id"`
	MemberID  string               `json:"member_id"`
	LeaveDate time.Time            `json:"leave_date"`
	Reason    string               `json:"reason"`
	Status    LeavingRequestStatus `json:"status"`

	PendingDues    decimal.Decimal `json:"pending_dues"`
	RentDue        decimal.Decimal `json:"rent_due"`
	ElectricityDue decimal.Decimal `json:"electricity_due"`
	ApprovedCredit decimal.Decimal `json:"approved_credit"`
	Credit         decimal.Decimal `json:"credit"` // overpayment, reported but not netted below zero
	ComputedAt     *time.Time      `json:"computed_at,omitempty"`

	DecidedBy *string    `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCash   PaymentMethod = "CASH"
)

// PaymentRecord is one versioned submission of payment proof for a
// (member, month, year) billing period. Attempt numbers start at 1 and
// strictly increase within the period; at most one record per period may
// have ApprovalStatus PENDING at a time.
type PaymentRecord struct {
	ID             string          `json:"id"`
	MemberID       string          `json:"member_id"`
	Month          int             `json:"month"` // 1-12
	Year           int             `json:"year"`
	AttemptNumber  int             `json:"attempt_number"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	DueDate        time.Time       `json:"due_date"`
	OverdueDate    time.Time       `json:"overdue_date"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	ApprovalStatus ApprovalStatus  `json:"approval_status"`
	Overdue        bool            `json:"overdue"`
	ProofRef       string          `json:"proof_ref,omitempty"`
	RejectReason   string          `json:"reject_reason,omitempty"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	CreatedOn      time.Time       `json:"created_on"`
	UpdatedOn      time.Time       `json:"updated_on"`
}

// AttemptState is the (payment, approval) status pair of a period's latest
// attempt. The submit flow branches on it exhaustively; only four
// combinations are reachable.
type AttemptState struct {
	Payment  PaymentStatus
	Approval ApprovalStatus
}

var (
	// AttemptReserved is a record created ahead of payment (admin flow),
	// still waiting for proof.
	AttemptReserved = AttemptState{PaymentStatusPending, ApprovalStatusPending}
	// AttemptAwaitingDecision has proof uploaded, staff decision pending.
	AttemptAwaitingDecision = AttemptState{PaymentStatusPaid, ApprovalStatusPending}
	// AttemptSettled is an approved, immutable attempt.
	AttemptSettled = AttemptState{PaymentStatusPaid, ApprovalStatusApproved}
	// AttemptRejected allows a follow-up attempt.
	AttemptRejected = AttemptState{PaymentStatusPaid, ApprovalStatusRejected}
)

func (p *PaymentRecord) State() AttemptState {
	return AttemptState{p.PaymentStatus, p.ApprovalStatus}
}

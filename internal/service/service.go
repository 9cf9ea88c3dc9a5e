package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

// SubmitPaymentInput is one payment-proof submission for a billing period.
// SelfService selects the shorter member-portal grace period when the
// period's due dates are first established.
type SubmitPaymentInput struct {
	MemberID    string
	Month       int
	Year        int
	Amount      decimal.Decimal
	Method      domain.PaymentMethod
	ProofRef    string
	SelfService bool
}

type PaymentService interface {
	// SubmitPayment creates or updates the payment attempt for
	// (member, month, year) following the attempt-tracker rules. On
	// failure any proof file referenced by the input is deleted.
	SubmitPayment(ctx context.Context, in SubmitPaymentInput) (*domain.PaymentRecord, error)
	// ReservePayment creates an empty attempt ahead of payment
	// (admin-initiated flow); the member's later submission fills it in
	// place without shifting the due date.
	ReservePayment(ctx context.Context, memberID string, month, year int, amount decimal.Decimal) (*domain.PaymentRecord, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)
	ListPayments(ctx context.Context, memberID string, month, year int, page, pageSize int32) ([]domain.PaymentRecord, int32, error)
	ApprovePayment(ctx context.Context, approverID, paymentID string) (*domain.PaymentRecord, error)
	RejectPayment(ctx context.Context, approverID, paymentID, reason string) (*domain.PaymentRecord, error)
	// ReconcileOverdue flags overdue unpaid records across the member
	// base; idempotent, returns the number of records flagged.
	ReconcileOverdue(ctx context.Context) (int64, error)
}

type LeavingService interface {
	// Apply files a leaving request and stores a freshly computed dues
	// snapshot on it.
	Apply(ctx context.Context, memberID string, leaveDate time.Time, reason string) (*domain.LeavingRequest, error)
	Get(ctx context.Context, id string) (*domain.LeavingRequest, error)
	GetByMember(ctx context.Context, memberID string) (*domain.LeavingRequest, error)
	// Approve finalizes the request: the member is marked inactive with
	// the leave date as relieving date.
	Approve(ctx context.Context, adminID, requestID string) (*domain.LeavingRequest, error)
	Reject(ctx context.Context, adminID, requestID string) (*domain.LeavingRequest, error)
	// RefreshAllDues recomputes dues for every open request; snapshots go
	// stale when payments are approved after computation.
	RefreshAllDues(ctx context.Context) (*domain.DuesRefreshSummary, error)
}

type CleanupService interface {
	// PurgeInactiveMembers removes departed members past the retention
	// window: files first, then the member row (payments and leaving
	// requests cascade). Per-member failures never abort the batch.
	PurgeInactiveMembers(ctx context.Context) (*domain.CleanupSummary, error)
}

// EmailService is the notification collaborator. Dispatch is fire-and-forget
// at every call site; failures are logged and never roll back a transition.
type EmailService interface {
	SendPaymentApproved(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error
	SendPaymentRejected(ctx context.Context, toEmail, toName, reason string, rec *domain.PaymentRecord) error
	SendOverdueReminder(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error
	SendLeavingRequestDecision(ctx context.Context, toEmail, toName string, status domain.LeavingRequestStatus, dues decimal.Decimal) error
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	// Delete removes the member row; owned payment records and leaving
	// requests cascade at the schema level.
	Delete(ctx context.Context, id string) error
	// ListPurgeCandidates returns inactive members with an APPROVED leaving
	// request whose relieving date is on or before the cutoff.
	ListPurgeCandidates(ctx context.Context, cutoff time.Time) ([]domain.Member, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
}

type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error)
	// GetLatestAttempt returns the highest-numbered attempt for the period,
	// or nil when the member has never submitted for it.
	GetLatestAttempt(ctx context.Context, memberID string, month, year int) (*domain.PaymentRecord, error)
	// CreateAttempt inserts a new attempt. Unique indexes on
	// (member, month, year, attempt_number) and on the single PENDING
	// approval per period turn concurrent duplicates into a ConflictError.
	CreateAttempt(ctx context.Context, rec *domain.PaymentRecord) error
	// UpdateSubmission fills a reserved record in place. The write is
	// guarded on the record still being PENDING/PENDING; a lost race
	// surfaces as a ConflictError.
	UpdateSubmission(ctx context.Context, rec *domain.PaymentRecord) error
	// Approve and Reject are guarded on approval_status still being
	// PENDING; deciding an already-decided record is a ConflictError.
	Approve(ctx context.Context, id, approverID string, at time.Time) error
	Reject(ctx context.Context, id, reason string, at time.Time) error
	ListByMember(ctx context.Context, memberID string, month, year int, page, pageSize int32) ([]domain.PaymentRecord, int32, error)
	// MarkOverdue flags unpaid, undecided records of active members whose
	// overdue date has passed. Idempotent; returns the number flagged.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ListOverduePending(ctx context.Context) ([]domain.PaymentRecord, error)
	// SumApprovedInRange totals APPROVED amounts whose due date falls in
	// [from, to], the settlement span of a leaving member.
	SumApprovedInRange(ctx context.Context, memberID string, from, to time.Time) (decimal.Decimal, error)
	ListProofRefs(ctx context.Context, memberID string) ([]string, error)
}

type LeavingRequestRepository interface {
	// Create inserts a new request. A partial unique index keeps at most
	// one PENDING request per member; duplicates become ConflictErrors.
	Create(ctx context.Context, req *domain.LeavingRequest) error
	GetByID(ctx context.Context, id string) (*domain.LeavingRequest, error)
	// GetOpenByMember returns the member's PENDING request, or nil.
	GetOpenByMember(ctx context.Context, memberID string) (*domain.LeavingRequest, error)
	UpdateDues(ctx context.Context, req *domain.LeavingRequest) error
	// Approve finalizes the request and deactivates the member with the
	// leave date as relieving date, in one transaction; a failure leaves
	// the request PENDING so the approval can be retried.
	Approve(ctx context.Context, id, decidedBy string, at time.Time) error
	// Decide is guarded on the request still being PENDING.
	Decide(ctx context.Context, id string, status domain.LeavingRequestStatus, decidedBy string, at time.Time) error
	ListOpen(ctx context.Context) ([]domain.LeavingRequest, error)
}

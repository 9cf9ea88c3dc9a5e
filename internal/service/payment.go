package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/billing"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	memberRepo  repository.MemberRepository
	files       storage.Service
	emailSvc    EmailService
	clk         clock.Clock
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	memberRepo repository.MemberRepository,
	files storage.Service,
	emailSvc EmailService,
	clk clock.Clock,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		files:       files,
		emailSvc:    emailSvc,
		clk:         clk,
	}
}

func (s *paymentService) SubmitPayment(ctx context.Context, in SubmitPaymentInput) (*domain.PaymentRecord, error) {
	rec, err := s.submit(ctx, in)
	if err != nil && in.ProofRef != "" {
		// A failed submission must not leave an orphaned proof file behind.
		if _, delErr := s.files.Delete(ctx, in.ProofRef); delErr != nil {
			logger.Warn("failed to remove proof of rejected submission",
				"proof_ref", in.ProofRef, "error", delErr)
		}
	}
	return rec, err
}

func (s *paymentService) submit(ctx context.Context, in SubmitPaymentInput) (*domain.PaymentRecord, error) {
	if err := validatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Validationf("amount must be positive, got %s", in.Amount)
	}
	if in.Method != domain.PaymentMethodOnline && in.Method != domain.PaymentMethodCash {
		return nil, domain.Validationf("unknown payment method %q", in.Method)
	}

	member, err := s.memberRepo.GetByID(ctx, in.MemberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.Conflictf("member %s is no longer active", member.ID)
	}

	latest, err := s.paymentRepo.GetLatestAttempt(ctx, in.MemberID, in.Month, in.Year)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	if latest == nil {
		rec := s.newAttempt(in, member.JoinDate, 1, now)
		if err := s.paymentRepo.CreateAttempt(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	switch latest.State() {
	case domain.AttemptReserved:
		// Admin-created placeholder: fill it in place. Due dates carry
		// over so the period's due date never shifts once established.
		latest.Amount = in.Amount
		latest.Method = in.Method
		latest.ProofRef = in.ProofRef
		latest.PaidDate = &now
		latest.PaymentStatus = domain.PaymentStatusPaid
		if err := s.paymentRepo.UpdateSubmission(ctx, latest); err != nil {
			return nil, err
		}
		return latest, nil

	case domain.AttemptAwaitingDecision:
		return nil, domain.Conflictf("payment for %d/%d already submitted and awaiting approval",
			in.Month, in.Year)

	case domain.AttemptSettled:
		return nil, domain.Conflictf("payment for %d/%d already approved", in.Month, in.Year)

	case domain.AttemptRejected:
		rec := s.newAttempt(in, member.JoinDate, latest.AttemptNumber+1, now)
		// The period's due dates were fixed by the first attempt.
		rec.DueDate = latest.DueDate
		rec.OverdueDate = latest.OverdueDate
		if err := s.paymentRepo.CreateAttempt(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil

	default:
		return nil, fmt.Errorf("payment %s in unreachable state %s/%s",
			latest.ID, latest.PaymentStatus, latest.ApprovalStatus)
	}
}

// newAttempt builds a proof-backed attempt with freshly computed due dates.
func (s *paymentService) newAttempt(in SubmitPaymentInput, joinDate time.Time, attempt int, now time.Time) *domain.PaymentRecord {
	grace := billing.PaymentGraceDays
	if in.SelfService {
		grace = billing.SelfServiceGraceDays
	}
	due, overdue := billing.DueDates(joinDate, time.Month(in.Month), in.Year, grace)
	return &domain.PaymentRecord{
		ID:             uuid.New().String(),
		MemberID:       in.MemberID,
		Month:          in.Month,
		Year:           in.Year,
		AttemptNumber:  attempt,
		Amount:         in.Amount,
		Method:         in.Method,
		DueDate:        due,
		OverdueDate:    overdue,
		PaidDate:       &now,
		PaymentStatus:  domain.PaymentStatusPaid,
		ApprovalStatus: domain.ApprovalStatusPending,
		ProofRef:       in.ProofRef,
	}
}

func (s *paymentService) ReservePayment(ctx context.Context, memberID string, month, year int, amount decimal.Decimal) (*domain.PaymentRecord, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.Validationf("amount must be positive, got %s", amount)
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.Conflictf("member %s is no longer active", member.ID)
	}

	latest, err := s.paymentRepo.GetLatestAttempt(ctx, memberID, month, year)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return nil, domain.Conflictf("payment record for %d/%d already exists", month, year)
	}

	due, overdue := billing.DueDates(member.JoinDate, time.Month(month), year, billing.PaymentGraceDays)
	rec := &domain.PaymentRecord{
		ID:             uuid.New().String(),
		MemberID:       memberID,
		Month:          month,
		Year:           year,
		AttemptNumber:  1,
		Amount:         amount,
		DueDate:        due,
		OverdueDate:    overdue,
		PaymentStatus:  domain.PaymentStatusPending,
		ApprovalStatus: domain.ApprovalStatusPending,
	}
	if err := s.paymentRepo.CreateAttempt(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	return s.paymentRepo.GetByID(ctx, paymentID)
}

func (s *paymentService) ListPayments(ctx context.Context, memberID string, month, year int, page, pageSize int32) ([]domain.PaymentRecord, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.paymentRepo.ListByMember(ctx, memberID, month, year, page, pageSize)
}

func (s *paymentService) ApprovePayment(ctx context.Context, approverID, paymentID string) (*domain.PaymentRecord, error) {
	now := s.clk.Now()
	if err := s.paymentRepo.Approve(ctx, paymentID, approverID, now); err != nil {
		return nil, err
	}
	rec, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, rec, "")
	return rec, nil
}

func (s *paymentService) RejectPayment(ctx context.Context, approverID, paymentID, reason string) (*domain.PaymentRecord, error) {
	if reason == "" {
		return nil, domain.Validationf("rejection reason is required")
	}
	if err := s.paymentRepo.Reject(ctx, paymentID, reason, s.clk.Now()); err != nil {
		return nil, err
	}
	rec, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, rec, reason)
	return rec, nil
}

// notifyDecision emails the member about an approval decision. Failures are
// logged and swallowed; the state transition already happened.
func (s *paymentService) notifyDecision(ctx context.Context, rec *domain.PaymentRecord, reason string) {
	member, err := s.memberRepo.GetByID(ctx, rec.MemberID)
	if err != nil {
		logger.Warn("could not load member for payment notification",
			"member_id", rec.MemberID, "error", err)
		return
	}
	if rec.ApprovalStatus == domain.ApprovalStatusApproved {
		err = s.emailSvc.SendPaymentApproved(ctx, member.Email, member.Name, rec)
	} else {
		err = s.emailSvc.SendPaymentRejected(ctx, member.Email, member.Name, reason, rec)
	}
	if err != nil {
		logger.Warn("payment decision notification failed",
			"payment_id", rec.ID, "member_id", member.ID, "error", err)
	}
}

func (s *paymentService) ReconcileOverdue(ctx context.Context) (int64, error) {
	updated, err := s.paymentRepo.MarkOverdue(ctx, s.clk.Now())
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		logger.Info("flagged overdue payments", "count", updated)
	}
	return updated, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return domain.Validationf("month must be 1-12, got %d", month)
	}
	if year < 2000 || year > 2100 {
		return domain.Validationf("year %d out of range", year)
	}
	return nil
}

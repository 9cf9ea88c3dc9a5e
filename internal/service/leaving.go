package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/billing"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

type leavingService struct {
	leavingRepo repository.LeavingRequestRepository
	memberRepo  repository.MemberRepository
	roomRepo    repository.RoomRepository
	paymentRepo repository.PaymentRepository
	emailSvc    EmailService
	clk         clock.Clock
}

func NewLeavingService(
	leavingRepo repository.LeavingRequestRepository,
	memberRepo repository.MemberRepository,
	roomRepo repository.RoomRepository,
	paymentRepo repository.PaymentRepository,
	emailSvc EmailService,
	clk clock.Clock,
) LeavingService {
	return &leavingService{
		leavingRepo: leavingRepo,
		memberRepo:  memberRepo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		emailSvc:    emailSvc,
		clk:         clk,
	}
}

func (s *leavingService) Apply(ctx context.Context, memberID string, leaveDate time.Time, reason string) (*domain.LeavingRequest, error) {
	if reason == "" {
		return nil, domain.Validationf("leaving reason is required")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.Conflictf("member %s is no longer active", member.ID)
	}
	if leaveDate.Before(member.JoinDate) {
		return nil, domain.Validationf("leave date precedes join date")
	}

	req := &domain.LeavingRequest{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		LeaveDate: leaveDate,
		Reason:    reason,
		Status:    domain.LeavingRequestPending,
	}
	if err := s.computeDues(ctx, req, member); err != nil {
		return nil, err
	}
	if err := s.leavingRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *leavingService) Get(ctx context.Context, id string) (*domain.LeavingRequest, error) {
	return s.leavingRepo.GetByID(ctx, id)
}

func (s *leavingService) GetByMember(ctx context.Context, memberID string) (*domain.LeavingRequest, error) {
	req, err := s.leavingRepo.GetOpenByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFound("leaving request for member", memberID)
	}
	return req, nil
}

func (s *leavingService) Approve(ctx context.Context, adminID, requestID string) (*domain.LeavingRequest, error) {
	// The request decision and the member deactivation commit together;
	// a failed approval leaves the request PENDING and retryable.
	if err := s.leavingRepo.Approve(ctx, requestID, adminID, s.clk.Now()); err != nil {
		return nil, err
	}
	req, err := s.leavingRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notifyMember(ctx, req, domain.LeavingRequestApproved)
	return req, nil
}

func (s *leavingService) Reject(ctx context.Context, adminID, requestID string) (*domain.LeavingRequest, error) {
	if err := s.leavingRepo.Decide(ctx, requestID, domain.LeavingRequestRejected, adminID, s.clk.Now()); err != nil {
		return nil, err
	}
	req, err := s.leavingRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notifyMember(ctx, req, domain.LeavingRequestRejected)
	return req, nil
}

func (s *leavingService) RefreshAllDues(ctx context.Context) (*domain.DuesRefreshSummary, error) {
	open, err := s.leavingRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DuesRefreshSummary{}
	for i := range open {
		req := &open[i]
		member, err := s.memberRepo.GetByID(ctx, req.MemberID)
		if err != nil {
			summary.Failures = append(summary.Failures, domain.BatchFailure{ItemID: req.ID, Reason: err.Error()})
			continue
		}
		if err := s.computeDues(ctx, req, member); err != nil {
			summary.Failures = append(summary.Failures, domain.BatchFailure{ItemID: req.ID, Reason: err.Error()})
			continue
		}
		if err := s.leavingRepo.UpdateDues(ctx, req); err != nil {
			summary.Failures = append(summary.Failures, domain.BatchFailure{ItemID: req.ID, Reason: err.Error()})
			continue
		}
		summary.Refreshed++
	}
	return summary, nil
}

// computeDues fills the request's dues snapshot from the member's room
// pricing and already-approved payments over [join date, leave date].
func (s *leavingService) computeDues(ctx context.Context, req *domain.LeavingRequest, member *domain.Member) error {
	room, err := s.roomRepo.GetByID(ctx, member.RoomID)
	if err != nil {
		return err
	}
	approved, err := s.paymentRepo.SumApprovedInRange(ctx, member.ID, member.JoinDate, req.LeaveDate)
	if err != nil {
		return err
	}

	bd, err := billing.ComputeDues(billing.DuesInput{
		JoinDate:           member.JoinDate,
		LeaveDate:          req.LeaveDate,
		RentType:           member.RentType,
		MonthlyRent:        room.Rent,
		PerDayPrice:        member.PricePerDay,
		MonthlyElectricity: room.ElectricityCharge,
		ApprovedPayments:   approved,
	})
	if err != nil {
		return err
	}

	now := s.clk.Now()
	req.PendingDues = bd.Total
	req.RentDue = bd.RentDue
	req.ElectricityDue = bd.ElectricityDue
	req.ApprovedCredit = bd.ApprovedCredit
	req.Credit = bd.Credit
	req.ComputedAt = &now
	return nil
}

// notifyMember emails the member about a decision. Failures are logged and
// swallowed; the state transition already happened.
func (s *leavingService) notifyMember(ctx context.Context, req *domain.LeavingRequest, status domain.LeavingRequestStatus) {
	member, err := s.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		logger.Warn("could not load member for leaving request notification",
			"request_id", req.ID, "member_id", req.MemberID, "error", err)
		return
	}
	if err := s.emailSvc.SendLeavingRequestDecision(ctx, member.Email, member.Name, status, req.PendingDues); err != nil {
		logger.Warn("leaving request notification failed",
			"request_id", req.ID, "member_id", member.ID, "error", err)
	}
}

package service

import (
	"context"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

type cleanupService struct {
	memberRepo    repository.MemberRepository
	paymentRepo   repository.PaymentRepository
	files         storage.Service
	clk           clock.Clock
	retentionDays int
}

func NewCleanupService(
	memberRepo repository.MemberRepository,
	paymentRepo repository.PaymentRepository,
	files storage.Service,
	clk clock.Clock,
	retentionDays int,
) CleanupService {
	return &cleanupService{
		memberRepo:    memberRepo,
		paymentRepo:   paymentRepo,
		files:         files,
		clk:           clk,
		retentionDays: retentionDays,
	}
}

func (s *cleanupService) PurgeInactiveMembers(ctx context.Context) (*domain.CleanupSummary, error) {
	cutoff := s.clk.Now().AddDate(0, 0, -s.retentionDays)
	candidates, err := s.memberRepo.ListPurgeCandidates(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	summary := &domain.CleanupSummary{}
	for i := range candidates {
		member := &candidates[i]
		removed, err := s.purgeMember(ctx, member)
		summary.FilesRemoved += removed
		if err != nil {
			// One member's failure must not stop the batch.
			logger.Warn("member cleanup failed", "member_id", member.ID, "error", err)
			summary.Failures = append(summary.Failures, domain.BatchFailure{
				ItemID: member.ID,
				Reason: err.Error(),
			})
			continue
		}
		summary.MembersRemoved++
	}

	logger.Info("inactive member cleanup finished",
		"members_removed", summary.MembersRemoved,
		"files_removed", summary.FilesRemoved,
		"failures", len(summary.Failures))
	return summary, nil
}

// purgeMember deletes the member's stored files, then the member row. The
// row is removed only after every file deletion resolved as deleted or
// already absent; a storage error keeps the row for a retried run.
func (s *cleanupService) purgeMember(ctx context.Context, member *domain.Member) (filesRemoved int, err error) {
	refs := member.FileRefs()
	proofRefs, err := s.paymentRepo.ListProofRefs(ctx, member.ID)
	if err != nil {
		return 0, err
	}
	refs = append(refs, proofRefs...)

	for _, ref := range refs {
		result, err := s.files.Delete(ctx, ref)
		if err != nil {
			return filesRemoved, domain.Dependency("storage", err)
		}
		switch result {
		case storage.Deleted:
			filesRemoved++
		case storage.AlreadyAbsent:
			logger.Debug("file already absent during cleanup",
				"member_id", member.ID, "ref", ref)
		}
	}

	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return filesRemoved, err
	}
	return filesRemoved, nil
}

package jobs

import (
	"context"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
)

// PurgeInactiveMembers removes departed members whose retention window has
// elapsed: their stored files first, then the member row with its owned
// payment records and leaving request.
func (jr *JobRunner) PurgeInactiveMembers() {
	jr.runWithRecovery("PurgeInactiveMembers", func() {
		ctx := context.Background()

		summary, err := jr.services.Cleanup.PurgeInactiveMembers(ctx)
		if err != nil {
			logger.Error("Failed to purge inactive members", "error", err)
			return
		}

		for _, f := range summary.Failures {
			logger.Error("Cleanup failed for member", "member_id", f.ItemID, "reason", f.Reason)
		}
		logger.Info("Inactive member purge finished",
			"members_removed", summary.MembersRemoved,
			"files_removed", summary.FilesRemoved,
			"failures", len(summary.Failures))
	})
}

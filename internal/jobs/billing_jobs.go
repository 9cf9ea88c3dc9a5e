package jobs

import (
	"context"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
)

// ReconcileOverduePayments flags unpaid payment records past their overdue
// threshold. The underlying write is idempotent, so re-runs with no time
// advance change nothing.
func (jr *JobRunner) ReconcileOverduePayments() {
	jr.runWithRecovery("ReconcileOverduePayments", func() {
		ctx := context.Background()

		updated, err := jr.services.Payment.ReconcileOverdue(ctx)
		if err != nil {
			logger.Error("Failed to reconcile overdue payments", "error", err)
			return
		}

		logger.Info("Overdue reconciliation finished", "records_flagged", updated)
	})
}

// SendOverdueReminders emails every active member with an overdue payment
// still awaiting approval. Send failures are logged per record and skipped.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		records, err := jr.store.PaymentRepository.ListOverduePending(ctx)
		if err != nil {
			logger.Error("Failed to list overdue payments", "error", err)
			return
		}

		sent := 0
		for i := range records {
			rec := &records[i]
			member, err := jr.store.MemberRepository.GetByID(ctx, rec.MemberID)
			if err != nil {
				logger.Error("Failed to load member for overdue reminder",
					"member_id", rec.MemberID, "error", err)
				continue
			}
			if err := jr.services.Email.SendOverdueReminder(ctx, member.Email, member.Name, rec); err != nil {
				logger.Error("Failed to send overdue reminder",
					"payment_id", rec.ID, "member_id", member.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Overdue reminders sent", "count", sent, "overdue_records", len(records))
	})
}

// RefreshLeavingDues recomputes the pending-dues snapshot on every open
// leaving request; snapshots go stale when payments are approved after the
// request was filed.
func (jr *JobRunner) RefreshLeavingDues() {
	jr.runWithRecovery("RefreshLeavingDues", func() {
		ctx := context.Background()

		summary, err := jr.services.Leaving.RefreshAllDues(ctx)
		if err != nil {
			logger.Error("Failed to refresh leaving request dues", "error", err)
			return
		}

		for _, f := range summary.Failures {
			logger.Error("Dues refresh failed for leaving request",
				"request_id", f.ItemID, "reason", f.Reason)
		}
		logger.Info("Leaving dues refreshed",
			"refreshed", summary.Refreshed, "failures", len(summary.Failures))
	})
}

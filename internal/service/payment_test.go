package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

func activeMember(id string) *domain.Member {
	return &domain.Member{
		ID:       id,
		Email:    "member@test.com",
		Name:     "Member",
		JoinDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		RentType: domain.RentTypeLongTerm,
		IsActive: true,
	}
}

func submitInput(memberID string) SubmitPaymentInput {
	return SubmitPaymentInput{
		MemberID: memberID,
		Month:    1,
		Year:     2024,
		Amount:   decimal.RequireFromString("8000"),
		Method:   domain.PaymentMethodOnline,
		ProofRef: "proofs/m1/abc.jpg",
	}
}

// TestPaymentService_SubmitPayment_FirstAttempt verifies the first submission
// for a period creates attempt 1 with due dates derived from the join date:
// the due day mirrors the join day and the overdue threshold trails it by
// the general grace period.
func TestPaymentService_SubmitPayment_FirstAttempt(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	memberRepo := new(MockMemberRepo)
	files := new(MockStorage)
	clk := clock.NewFixed(time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))
	svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clk)
	ctx := context.Background()

	memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
	paymentRepo.On("GetLatestAttempt", ctx, "m1", 1, 2024).Return(nil, nil).Once()

	var created *domain.PaymentRecord
	paymentRepo.On("CreateAttempt", ctx, mock.AnythingOfType("*domain.PaymentRecord")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.PaymentRecord) }).
		Return(nil).Once()

	rec, err := svc.SubmitPayment(ctx, submitInput("m1"))
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, created, rec)
	assert.Equal(t, 1, rec.AttemptNumber)
	assert.Equal(t, domain.PaymentStatusPaid, rec.PaymentStatus)
	assert.Equal(t, domain.ApprovalStatusPending, rec.ApprovalStatus)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), rec.DueDate)
	assert.Equal(t, time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC), rec.OverdueDate)
	assert.NotNil(t, rec.PaidDate)
	assert.Equal(t, clk.Time, *rec.PaidDate)
	paymentRepo.AssertExpectations(t)
}

// TestPaymentService_SubmitPayment_SelfServiceGrace verifies the member
// portal path establishes the shorter overdue window.
func TestPaymentService_SubmitPayment_SelfServiceGrace(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	memberRepo := new(MockMemberRepo)
	files := new(MockStorage)
	clk := clock.NewFixed(time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))
	svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clk)
	ctx := context.Background()

	memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
	paymentRepo.On("GetLatestAttempt", ctx, "m1", 1, 2024).Return(nil, nil).Once()
	paymentRepo.On("CreateAttempt", ctx, mock.AnythingOfType("*domain.PaymentRecord")).Return(nil).Once()

	in := submitInput("m1")
	in.SelfService = true
	rec, err := svc.SubmitPayment(ctx, in)
	assert.NoError(t, err)
	assert.Equal(t, rec.DueDate.AddDate(0, 0, 5), rec.OverdueDate)
}

// TestPaymentService_SubmitPayment_FillsReservedRecord verifies a submission
// against an admin-reserved record updates it in place: same attempt number,
// same due dates, proof and amount filled in.
func TestPaymentService_SubmitPayment_FillsReservedRecord(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	memberRepo := new(MockMemberRepo)
	files := new(MockStorage)
	clk := clock.NewFixed(time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC))
	svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clk)
	ctx := context.Background()

	reserved := &domain.PaymentRecord{
		ID:             "p1",
		MemberID:       "m1",
		Month:          1,
		Year:           2024,
		AttemptNumber:  1,
		DueDate:        time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		OverdueDate:    time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC),
		PaymentStatus:  domain.PaymentStatusPending,
		ApprovalStatus: domain.ApprovalStatusPending,
	}
	memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
	paymentRepo.On("GetLatestAttempt", ctx, "m1", 1, 2024).Return(reserved, nil).Once()
	paymentRepo.On("UpdateSubmission", ctx, reserved).Return(nil).Once()

	rec, err := svc.SubmitPayment(ctx, submitInput("m1"))
	assert.NoError(t, err)
	assert.Equal(t, "p1", rec.ID)
	assert.Equal(t, 1, rec.AttemptNumber)
	assert.Equal(t, domain.PaymentStatusPaid, rec.PaymentStatus)
	assert.Equal(t, "proofs/m1/abc.jpg", rec.ProofRef)
	// the reservation fixed the period's due dates
	assert.Equal(t, reserved.DueDate, rec.DueDate)
	paymentRepo.AssertExpectations(t)
	paymentRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

// TestPaymentService_SubmitPayment_Conflicts verifies submissions against an
// in-flight or settled attempt fail with a conflict, and that the orphaned
// proof file is cleaned up on every failed path.
func TestPaymentService_SubmitPayment_Conflicts(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		latest *domain.PaymentRecord
	}{
		{"AwaitingDecision", &domain.PaymentRecord{
			ID: "p1", PaymentStatus: domain.PaymentStatusPaid, ApprovalStatus: domain.ApprovalStatusPending,
		}},
		{"AlreadyApproved", &domain.PaymentRecord{
			ID: "p1", PaymentStatus: domain.PaymentStatusPaid, ApprovalStatus: domain.ApprovalStatusApproved,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			paymentRepo := new(MockPaymentRepo)
			memberRepo := new(MockMemberRepo)
			files := new(MockStorage)
			svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clock.NewFixed(time.Now()))

			memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
			paymentRepo.On("GetLatestAttempt", ctx, "m1", 1, 2024).Return(tc.latest, nil).Once()
			files.On("Delete", ctx, "proofs/m1/abc.jpg").Return(storage.Deleted, nil).Once()

			rec, err := svc.SubmitPayment(ctx, submitInput("m1"))
			assert.Nil(t, rec)
			assert.True(t, domain.IsConflict(err))
			files.AssertExpectations(t)
		})
	}
}

// TestPaymentService_SubmitPayment_RetryAfterRejection verifies a rejected
// attempt allows a follow-up with the next attempt number, reusing the
// period's original due dates rather than recomputing them.
func TestPaymentService_SubmitPayment_RetryAfterRejection(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	memberRepo := new(MockMemberRepo)
	files := new(MockStorage)
	clk := clock.NewFixed(time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC))
	svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clk)
	ctx := context.Background()

	rejected := &domain.PaymentRecord{
		ID:             "p1",
		MemberID:       "m1",
		Month:          1,
		Year:           2024,
		AttemptNumber:  3,
		DueDate:        time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		OverdueDate:    time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC),
		PaymentStatus:  domain.PaymentStatusPaid,
		ApprovalStatus: domain.ApprovalStatusRejected,
	}
	memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
	paymentRepo.On("GetLatestAttempt", ctx, "m1", 1, 2024).Return(rejected, nil).Once()
	paymentRepo.On("CreateAttempt", ctx, mock.AnythingOfType("*domain.PaymentRecord")).Return(nil).Once()

	rec, err := svc.SubmitPayment(ctx, submitInput("m1"))
	assert.NoError(t, err)
	assert.Equal(t, 4, rec.AttemptNumber)
	assert.Equal(t, rejected.DueDate, rec.DueDate)
	assert.Equal(t, rejected.OverdueDate, rec.OverdueDate)
	assert.Equal(t, domain.ApprovalStatusPending, rec.ApprovalStatus)
}

// TestPaymentService_SubmitPayment_Validation covers the input guards. No
// repository call should happen, and the proof is removed.
func TestPaymentService_SubmitPayment_Validation(t *testing.T) {
	ctx := context.Background()

	mutate := []struct {
		name string
		fn   func(*SubmitPaymentInput)
	}{
		{"BadMonth", func(in *SubmitPaymentInput) { in.Month = 13 }},
		{"BadYear", func(in *SubmitPaymentInput) { in.Year = 1999 }},
		{"ZeroAmount", func(in *SubmitPaymentInput) { in.Amount = decimal.Zero }},
		{"NegativeAmount", func(in *SubmitPaymentInput) { in.Amount = decimal.RequireFromString("-1") }},
		{"BadMethod", func(in *SubmitPaymentInput) { in.Method = "CHEQUE" }},
	}
	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			paymentRepo := new(MockPaymentRepo)
			files := new(MockStorage)
			svc := NewPaymentService(paymentRepo, new(MockMemberRepo), files, nil, clock.NewFixed(time.Now()))

			files.On("Delete", ctx, "proofs/m1/abc.jpg").Return(storage.Deleted, nil).Once()

			in := submitInput("m1")
			tc.fn(&in)
			_, err := svc.SubmitPayment(ctx, in)
			assert.True(t, domain.IsValidation(err), "got %v", err)
			paymentRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
		})
	}
}

// TestPaymentService_SubmitPayment_InactiveMember verifies an inactive member
// cannot submit.
func TestPaymentService_SubmitPayment_InactiveMember(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	memberRepo := new(MockMemberRepo)
	files := new(MockStorage)
	svc := NewPaymentService(paymentRepo, memberRepo, files, nil, clock.NewFixed(time.Now()))
	ctx := context.Background()

	gone := activeMember("m1")
	gone.IsActive = false
	memberRepo.On("GetByID", ctx, "m1").Return(gone, nil).Once()
	files.On("Delete", ctx, "proofs/m1/abc.jpg").Return(storage.Deleted, nil).Once()

	_, err := svc.SubmitPayment(ctx, submitInput("m1"))
	assert.True(t, domain.IsConflict(err))
}

// TestPaymentService_ReservePayment verifies reservation creates a
// PENDING/PENDING attempt with the general grace period, and refuses when
// any attempt already exists for the period.
func TestPaymentService_ReservePayment(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("8000")

	t.Run("Success", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		memberRepo := new(MockMemberRepo)
		svc := NewPaymentService(paymentRepo, memberRepo, new(MockStorage), nil, clock.NewFixed(time.Now()))

		memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
		paymentRepo.On("GetLatestAttempt", ctx, "m1", 2, 2024).Return(nil, nil).Once()
		paymentRepo.On("CreateAttempt", ctx, mock.AnythingOfType("*domain.PaymentRecord")).Return(nil).Once()

		rec, err := svc.ReservePayment(ctx, "m1", 2, 2024, amount)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPending, rec.PaymentStatus)
		assert.Equal(t, domain.ApprovalStatusPending, rec.ApprovalStatus)
		assert.Nil(t, rec.PaidDate)
		assert.Equal(t, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), rec.DueDate)
		assert.Equal(t, rec.DueDate.AddDate(0, 0, 7), rec.OverdueDate)
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		memberRepo := new(MockMemberRepo)
		svc := NewPaymentService(paymentRepo, memberRepo, new(MockStorage), nil, clock.NewFixed(time.Now()))

		memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
		paymentRepo.On("GetLatestAttempt", ctx, "m1", 2, 2024).
			Return(&domain.PaymentRecord{ID: "p1"}, nil).Once()

		_, err := svc.ReservePayment(ctx, "m1", 2, 2024, amount)
		assert.True(t, domain.IsConflict(err))
		paymentRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
	})
}

// TestPaymentService_ApprovePayment verifies approval delegates to the
// guarded repository write, reloads the record and emails the member. An
// email failure never fails the approval.
func TestPaymentService_ApprovePayment(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC))

	t.Run("Success", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		memberRepo := new(MockMemberRepo)
		email := new(MockEmail)
		svc := NewPaymentService(paymentRepo, memberRepo, new(MockStorage), email, clk)

		approved := &domain.PaymentRecord{ID: "p1", MemberID: "m1", ApprovalStatus: domain.ApprovalStatusApproved}
		paymentRepo.On("Approve", ctx, "p1", "admin1", clk.Time).Return(nil).Once()
		paymentRepo.On("GetByID", ctx, "p1").Return(approved, nil).Once()
		memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
		email.On("SendPaymentApproved", ctx, "member@test.com", "Member", approved).Return(nil).Once()

		rec, err := svc.ApprovePayment(ctx, "admin1", "p1")
		assert.NoError(t, err)
		assert.Equal(t, domain.ApprovalStatusApproved, rec.ApprovalStatus)
		email.AssertExpectations(t)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := NewPaymentService(paymentRepo, new(MockMemberRepo), new(MockStorage), new(MockEmail), clk)

		paymentRepo.On("Approve", ctx, "p1", "admin1", clk.Time).
			Return(domain.Conflictf("payment p1 already APPROVED")).Once()

		_, err := svc.ApprovePayment(ctx, "admin1", "p1")
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("EmailFailureSwallowed", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		memberRepo := new(MockMemberRepo)
		email := new(MockEmail)
		svc := NewPaymentService(paymentRepo, memberRepo, new(MockStorage), email, clk)

		approved := &domain.PaymentRecord{ID: "p1", MemberID: "m1", ApprovalStatus: domain.ApprovalStatusApproved}
		paymentRepo.On("Approve", ctx, "p1", "admin1", clk.Time).Return(nil).Once()
		paymentRepo.On("GetByID", ctx, "p1").Return(approved, nil).Once()
		memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
		email.On("SendPaymentApproved", ctx, "member@test.com", "Member", approved).
			Return(errors.New("sendgrid down")).Once()

		rec, err := svc.ApprovePayment(ctx, "admin1", "p1")
		assert.NoError(t, err)
		assert.NotNil(t, rec)
	})
}

// TestPaymentService_RejectPayment verifies rejection requires a reason and
// notifies the member with it.
func TestPaymentService_RejectPayment(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2024, time.January, 20, 10, 0, 0, 0, time.UTC))

	t.Run("ReasonRequired", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		svc := NewPaymentService(paymentRepo, new(MockMemberRepo), new(MockStorage), new(MockEmail), clk)

		_, err := svc.RejectPayment(ctx, "admin1", "p1", "")
		assert.True(t, domain.IsValidation(err))
		paymentRepo.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepo)
		memberRepo := new(MockMemberRepo)
		email := new(MockEmail)
		svc := NewPaymentService(paymentRepo, memberRepo, new(MockStorage), email, clk)

		rejected := &domain.PaymentRecord{ID: "p1", MemberID: "m1",
			ApprovalStatus: domain.ApprovalStatusRejected, RejectReason: "proof unreadable"}
		paymentRepo.On("Reject", ctx, "p1", "proof unreadable", clk.Time).Return(nil).Once()
		paymentRepo.On("GetByID", ctx, "p1").Return(rejected, nil).Once()
		memberRepo.On("GetByID", ctx, "m1").Return(activeMember("m1"), nil).Once()
		email.On("SendPaymentRejected", ctx, "member@test.com", "Member", "proof unreadable", rejected).
			Return(nil).Once()

		rec, err := svc.RejectPayment(ctx, "admin1", "p1", "proof unreadable")
		assert.NoError(t, err)
		assert.Equal(t, domain.ApprovalStatusRejected, rec.ApprovalStatus)
		email.AssertExpectations(t)
	})
}

// TestPaymentService_ReconcileOverdue verifies the reconciler passes the
// clock's instant through and reports the flagged count.
func TestPaymentService_ReconcileOverdue(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	clk := clock.NewFixed(time.Date(2024, time.January, 20, 1, 0, 0, 0, time.UTC))
	svc := NewPaymentService(paymentRepo, new(MockMemberRepo), new(MockStorage), new(MockEmail), clk)
	ctx := context.Background()

	paymentRepo.On("MarkOverdue", ctx, clk.Time).Return(int64(3), nil).Once()

	n, err := svc.ReconcileOverdue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// a second run on an unchanged clock flags nothing more
	paymentRepo.On("MarkOverdue", ctx, clk.Time).Return(int64(0), nil).Once()
	n, err = svc.ReconcileOverdue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

// TestPaymentService_ListPayments verifies paging defaults are applied
// before hitting the repository.
func TestPaymentService_ListPayments(t *testing.T) {
	paymentRepo := new(MockPaymentRepo)
	svc := NewPaymentService(paymentRepo, new(MockMemberRepo), new(MockStorage), new(MockEmail), clock.NewFixed(time.Now()))
	ctx := context.Background()

	paymentRepo.On("ListByMember", ctx, "m1", 0, 0, int32(1), int32(20)).
		Return([]domain.PaymentRecord{{ID: "p1"}}, int32(1), nil).Once()

	records, total, err := svc.ListPayments(ctx, "m1", 0, 0, 0, 500)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, records, 1)
	paymentRepo.AssertExpectations(t)
}

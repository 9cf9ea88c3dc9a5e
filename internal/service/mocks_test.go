package service

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

type MockMemberRepo struct{ mock.Mock }

func (m *MockMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMemberRepo) ListPurgeCandidates(ctx context.Context, cutoff time.Time) ([]domain.Member, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Member), args.Error(1)
}

type MockRoomRepo struct{ mock.Mock }

func (m *MockRoomRepo) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockPaymentRepo struct{ mock.Mock }

func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepo) GetLatestAttempt(ctx context.Context, memberID string, month, year int) (*domain.PaymentRecord, error) {
	args := m.Called(ctx, memberID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepo) CreateAttempt(ctx context.Context, rec *domain.PaymentRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockPaymentRepo) UpdateSubmission(ctx context.Context, rec *domain.PaymentRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockPaymentRepo) Approve(ctx context.Context, id, approverID string, at time.Time) error {
	return m.Called(ctx, id, approverID, at).Error(0)
}

func (m *MockPaymentRepo) Reject(ctx context.Context, id, reason string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

func (m *MockPaymentRepo) ListByMember(ctx context.Context, memberID string, month, year int, page, pageSize int32) ([]domain.PaymentRecord, int32, error) {
	args := m.Called(ctx, memberID, month, year, page, pageSize)
	return args.Get(0).([]domain.PaymentRecord), args.Get(1).(int32), args.Error(2)
}

func (m *MockPaymentRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepo) ListOverduePending(ctx context.Context) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepo) SumApprovedInRange(ctx context.Context, memberID string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepo) ListProofRefs(ctx context.Context, memberID string) ([]string, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]string), args.Error(1)
}

type MockLeavingRepo struct{ mock.Mock }

func (m *MockLeavingRepo) Create(ctx context.Context, req *domain.LeavingRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLeavingRepo) GetByID(ctx context.Context, id string) (*domain.LeavingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeavingRequest), args.Error(1)
}

func (m *MockLeavingRepo) GetOpenByMember(ctx context.Context, memberID string) (*domain.LeavingRequest, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeavingRequest), args.Error(1)
}

func (m *MockLeavingRepo) UpdateDues(ctx context.Context, req *domain.LeavingRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLeavingRepo) Approve(ctx context.Context, id, decidedBy string, at time.Time) error {
	return m.Called(ctx, id, decidedBy, at).Error(0)
}

func (m *MockLeavingRepo) Decide(ctx context.Context, id string, status domain.LeavingRequestStatus, decidedBy string, at time.Time) error {
	return m.Called(ctx, id, status, decidedBy, at).Error(0)
}

func (m *MockLeavingRepo) ListOpen(ctx context.Context) ([]domain.LeavingRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.LeavingRequest), args.Error(1)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Save(ctx context.Context, key string, r io.Reader) error {
	return m.Called(ctx, key, r).Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) (storage.DeleteResult, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.DeleteResult), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

type MockEmail struct{ mock.Mock }

func (m *MockEmail) SendPaymentApproved(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error {
	return m.Called(ctx, toEmail, toName, rec).Error(0)
}

func (m *MockEmail) SendPaymentRejected(ctx context.Context, toEmail, toName, reason string, rec *domain.PaymentRecord) error {
	return m.Called(ctx, toEmail, toName, reason, rec).Error(0)
}

func (m *MockEmail) SendOverdueReminder(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error {
	return m.Called(ctx, toEmail, toName, rec).Error(0)
}

func (m *MockEmail) SendLeavingRequestDecision(ctx context.Context, toEmail, toName string, status domain.LeavingRequestStatus, dues decimal.Decimal) error {
	return m.Called(ctx, toEmail, toName, status, dues).Error(0)
}

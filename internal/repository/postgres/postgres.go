package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.RoomRepository
	repository.PaymentRepository
	repository.LeavingRequestRepository
}

// NewStore wires all repositories over a shared connection pool. Every query
// runs under queryTimeout so no engine operation blocks indefinitely.
func NewStore(db *sql.DB, queryTimeout time.Duration) *Store {
	return &Store{
		db:                       db,
		MemberRepository:         NewMemberRepository(db, queryTimeout),
		RoomRepository:           NewRoomRepository(db, queryTimeout),
		PaymentRepository:        NewPaymentRepository(db, queryTimeout),
		LeavingRequestRepository: NewLeavingRequestRepository(db, queryTimeout),
	}
}

// boundCtx applies the per-query timeout when one is configured.
func boundCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// dbErr maps a timed-out store call to a retryable dependency failure.
func dbErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Dependency("database", err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// qualify prefixes each column in a comma-separated list with a table alias.
func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

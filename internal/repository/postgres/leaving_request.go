package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

const leavingColumns = `id, member_id, leave_date, reason, status, pending_dues, rent_due,
	electricity_due, approved_credit, credit, computed_at, decided_by, decided_at, created_on, updated_on`

type leavingRequestRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewLeavingRequestRepository(db *sql.DB, timeout time.Duration) repository.LeavingRequestRepository {
	return &leavingRequestRepository{db: db, timeout: timeout}
}

func (r *leavingRequestRepository) Create(ctx context.Context, req *domain.LeavingRequest) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	req.CreatedOn = now
	req.UpdatedOn = now
	query := `INSERT INTO leaving_requests (id, member_id, leave_date, reason, status, pending_dues,
		rent_due, electricity_due, approved_credit, credit, computed_at, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, req.ID, req.MemberID, req.LeaveDate, req.Reason,
		req.Status, req.PendingDues, req.RentDue, req.ElectricityDue, req.ApprovedCredit,
		req.Credit, req.ComputedAt, req.CreatedOn, req.UpdatedOn)
	if isUniqueViolation(err) {
		return domain.Conflictf("member %s already has an open leaving request", req.MemberID)
	}
	return dbErr(err)
}

func (r *leavingRequestRepository) GetByID(ctx context.Context, id string) (*domain.LeavingRequest, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + leavingColumns + ` FROM leaving_requests WHERE id = $1`
	req, err := scanLeavingRequest(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("leaving request", id)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return req, nil
}

func (r *leavingRequestRepository) GetOpenByMember(ctx context.Context, memberID string) (*domain.LeavingRequest, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + leavingColumns + ` FROM leaving_requests
		WHERE member_id = $1 AND status = 'PENDING'`
	req, err := scanLeavingRequest(r.db.QueryRowContext(ctx, query, memberID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return req, nil
}

func (r *leavingRequestRepository) UpdateDues(ctx context.Context, req *domain.LeavingRequest) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE leaving_requests SET pending_dues=$1, rent_due=$2, electricity_due=$3,
		approved_credit=$4, credit=$5, computed_at=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, req.PendingDues, req.RentDue, req.ElectricityDue,
		req.ApprovedCredit, req.Credit, req.ComputedAt, time.Now().UTC(), req.ID)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("leaving request", req.ID)
	}
	return nil
}

// Approve flips the request to APPROVED and deactivates the member in one
// transaction, so a failure on either write leaves the request PENDING and
// the approval retryable.
func (r *leavingRequestRepository) Approve(ctx context.Context, id, decidedBy string, at time.Time) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dbErr(err)
	}
	defer tx.Rollback()

	var memberID string
	var leaveDate time.Time
	query := `UPDATE leaving_requests SET status='APPROVED', decided_by=$1, decided_at=$2, updated_on=$2
		WHERE id=$3 AND status='PENDING'
		RETURNING member_id, leave_date`
	err = tx.QueryRowContext(ctx, query, decidedBy, at, id).Scan(&memberID, &leaveDate)
	if err == sql.ErrNoRows {
		return r.decisionConflict(ctx, id)
	}
	if err != nil {
		return dbErr(err)
	}

	// The member is out as of the requested leave date; cleanup becomes
	// eligible once the retention window passes it.
	_, err = tx.ExecContext(ctx,
		`UPDATE members SET is_active=false, relieving_date=$1, updated_on=$2 WHERE id=$3`,
		leaveDate, at, memberID)
	if err != nil {
		return dbErr(err)
	}

	return dbErr(tx.Commit())
}

func (r *leavingRequestRepository) Decide(ctx context.Context, id string, status domain.LeavingRequestStatus, decidedBy string, at time.Time) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE leaving_requests SET status=$1, decided_by=$2, decided_at=$3, updated_on=$3
		WHERE id=$4 AND status='PENDING'`
	res, err := r.db.ExecContext(ctx, query, status, decidedBy, at, id)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.decisionConflict(ctx, id)
	}
	return nil
}

// decisionConflict distinguishes a missing request from one already decided.
func (r *leavingRequestRepository) decisionConflict(ctx context.Context, id string) error {
	var current domain.LeavingRequestStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM leaving_requests WHERE id = $1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return domain.NotFound("leaving request", id)
	}
	if err != nil {
		return dbErr(err)
	}
	return domain.Conflictf("leaving request %s already %s", id, current)
}

func (r *leavingRequestRepository) ListOpen(ctx context.Context) ([]domain.LeavingRequest, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + leavingColumns + ` FROM leaving_requests WHERE status = 'PENDING' ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var reqs []domain.LeavingRequest
	for rows.Next() {
		req, err := scanLeavingRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func scanLeavingRequest(row rowScanner) (*domain.LeavingRequest, error) {
	req := &domain.LeavingRequest{}
	var computedAt, decidedAt sql.NullTime
	var decidedBy sql.NullString
	err := row.Scan(&req.ID, &req.MemberID, &req.LeaveDate, &req.Reason, &req.Status,
		&req.PendingDues, &req.RentDue, &req.ElectricityDue, &req.ApprovedCredit, &req.Credit,
		&computedAt, &decidedBy, &decidedAt, &req.CreatedOn, &req.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if computedAt.Valid {
		t := computedAt.Time
		req.ComputedAt = &t
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		req.DecidedAt = &t
	}
	if decidedBy.Valid {
		s := decidedBy.String
		req.DecidedBy = &s
	}
	return req, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

const paymentColumns = `id, member_id, month, year, attempt_number, amount, method, due_date, overdue_date,
	paid_date, payment_status, approval_status, overdue, proof_ref, reject_reason, approved_by, approved_at,
	created_on, updated_on`

type paymentRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPaymentRepository(db *sql.DB, timeout time.Duration) repository.PaymentRepository {
	return &paymentRepository{db: db, timeout: timeout}
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	rec, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("payment", id)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return rec, nil
}

func (r *paymentRepository) GetLatestAttempt(ctx context.Context, memberID string, month, year int) (*domain.PaymentRecord, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE member_id = $1 AND month = $2 AND year = $3
		ORDER BY attempt_number DESC LIMIT 1`
	rec, err := scanPayment(r.db.QueryRowContext(ctx, query, memberID, month, year))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return rec, nil
}

func (r *paymentRepository) CreateAttempt(ctx context.Context, rec *domain.PaymentRecord) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	rec.CreatedOn = now
	rec.UpdatedOn = now
	query := `INSERT INTO payments (id, member_id, month, year, attempt_number, amount, method,
		due_date, overdue_date, paid_date, payment_status, approval_status, overdue, proof_ref,
		created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.MemberID, rec.Month, rec.Year,
		rec.AttemptNumber, rec.Amount, rec.Method, rec.DueDate, rec.OverdueDate, rec.PaidDate,
		rec.PaymentStatus, rec.ApprovalStatus, rec.Overdue, nullStr(rec.ProofRef), rec.CreatedOn, rec.UpdatedOn)
	if isUniqueViolation(err) {
		// Another submission won the race for this attempt number or for
		// the single pending approval slot.
		return domain.Conflictf("payment attempt already in flight for %d/%d", rec.Month, rec.Year)
	}
	return dbErr(err)
}

func (r *paymentRepository) UpdateSubmission(ctx context.Context, rec *domain.PaymentRecord) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE payments SET amount=$1, method=$2, paid_date=$3, payment_status=$4,
		proof_ref=$5, updated_on=$6
		WHERE id=$7 AND payment_status='PENDING' AND approval_status='PENDING'`
	res, err := r.db.ExecContext(ctx, query, rec.Amount, rec.Method, rec.PaidDate,
		rec.PaymentStatus, nullStr(rec.ProofRef), time.Now().UTC(), rec.ID)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Conflictf("payment %s is no longer awaiting submission", rec.ID)
	}
	return nil
}

func (r *paymentRepository) Approve(ctx context.Context, id, approverID string, at time.Time) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE payments SET approval_status='APPROVED', approved_by=$1, approved_at=$2, updated_on=$2
		WHERE id=$3 AND approval_status='PENDING'`
	res, err := r.db.ExecContext(ctx, query, approverID, at, id)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.decisionConflict(ctx, id)
	}
	return nil
}

func (r *paymentRepository) Reject(ctx context.Context, id, reason string, at time.Time) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `UPDATE payments SET approval_status='REJECTED', reject_reason=$1, approved_by=NULL,
		approved_at=NULL, updated_on=$2
		WHERE id=$3 AND approval_status='PENDING'`
	res, err := r.db.ExecContext(ctx, query, reason, at, id)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.decisionConflict(ctx, id)
	}
	return nil
}

// decisionConflict distinguishes a missing record from one already decided.
func (r *paymentRepository) decisionConflict(ctx context.Context, id string) error {
	var status domain.ApprovalStatus
	err := r.db.QueryRowContext(ctx, `SELECT approval_status FROM payments WHERE id = $1`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return domain.NotFound("payment", id)
	}
	if err != nil {
		return dbErr(err)
	}
	return domain.Conflictf("payment %s already %s", id, status)
}

func (r *paymentRepository) ListByMember(ctx context.Context, memberID string, month, year int, page, pageSize int32) ([]domain.PaymentRecord, int32, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE member_id = $1`
	args := []interface{}{memberID}
	argIdx := 2
	if month > 0 {
		query += fmt.Sprintf(" AND month = $%d", argIdx)
		args = append(args, month)
		argIdx++
	}
	if year > 0 {
		query += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, year)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, dbErr(err)
	}

	query += fmt.Sprintf(" ORDER BY year DESC, month DESC, attempt_number DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, dbErr(err)
	}
	defer rows.Close()

	var records []domain.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, count, rows.Err()
}

func (r *paymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	// The overdue=false guard makes re-runs no-ops; APPROVED records and
	// settled payments are never touched.
	query := `UPDATE payments p SET overdue = true, updated_on = $1
		FROM members m
		WHERE m.id = p.member_id
		  AND m.is_active = true
		  AND p.overdue = false
		  AND p.payment_status <> 'PAID'
		  AND p.approval_status <> 'APPROVED'
		  AND p.overdue_date < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, dbErr(err)
	}
	return res.RowsAffected()
}

func (r *paymentRepository) ListOverduePending(ctx context.Context) ([]domain.PaymentRecord, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + qualify("p", paymentColumns) + ` FROM payments p
		JOIN members m ON m.id = p.member_id
		WHERE m.is_active = true AND p.overdue = true AND p.approval_status = 'PENDING'
		ORDER BY p.overdue_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var records []domain.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *paymentRepository) SumApprovedInRange(ctx context.Context, memberID string, from, to time.Time) (decimal.Decimal, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE member_id = $1 AND approval_status = 'APPROVED' AND due_date BETWEEN $2 AND $3`
	if err := r.db.QueryRowContext(ctx, query, memberID, from, to).Scan(&total); err != nil {
		return decimal.Zero, dbErr(err)
	}
	return total, nil
}

func (r *paymentRepository) ListProofRefs(ctx context.Context, memberID string) ([]string, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT proof_ref FROM payments WHERE member_id = $1 AND proof_ref IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs, rows.Err()
}

func scanPayment(row rowScanner) (*domain.PaymentRecord, error) {
	rec := &domain.PaymentRecord{}
	var paidDate, approvedAt sql.NullTime
	var proofRef, rejectReason, approvedBy sql.NullString
	err := row.Scan(&rec.ID, &rec.MemberID, &rec.Month, &rec.Year, &rec.AttemptNumber,
		&rec.Amount, &rec.Method, &rec.DueDate, &rec.OverdueDate, &paidDate,
		&rec.PaymentStatus, &rec.ApprovalStatus, &rec.Overdue, &proofRef, &rejectReason,
		&approvedBy, &approvedAt, &rec.CreatedOn, &rec.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if paidDate.Valid {
		t := paidDate.Time
		rec.PaidDate = &t
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		rec.ApprovedAt = &t
	}
	if approvedBy.Valid {
		s := approvedBy.String
		rec.ApprovedBy = &s
	}
	rec.ProofRef = proofRef.String
	rec.RejectReason = rejectReason.String
	return rec, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

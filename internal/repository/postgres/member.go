package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

const memberColumns = `id, pg_id, room_id, name, email, phone, join_date, rent_type, price_per_day,
	is_active, relieving_date, profile_image_ref, document_ref, signature_ref, created_on, updated_on`

type memberRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMemberRepository(db *sql.DB, timeout time.Duration) repository.MemberRepository {
	return &memberRepository{db: db, timeout: timeout}
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("member", id)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return m, nil
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("member", id)
	}
	return nil
}

func (r *memberRepository) ListPurgeCandidates(ctx context.Context, cutoff time.Time) ([]domain.Member, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + qualify("m", memberColumns) + `
		FROM members m
		JOIN leaving_requests lr ON lr.member_id = m.id
		WHERE m.is_active = false
		  AND lr.status = 'APPROVED'
		  AND m.relieving_date IS NOT NULL
		  AND m.relieving_date <= $1
		ORDER BY m.relieving_date`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	var relieving sql.NullTime
	var profileRef, documentRef, signatureRef sql.NullString
	err := row.Scan(&m.ID, &m.PGID, &m.RoomID, &m.Name, &m.Email, &m.Phone, &m.JoinDate,
		&m.RentType, &m.PricePerDay, &m.IsActive, &relieving,
		&profileRef, &documentRef, &signatureRef, &m.CreatedOn, &m.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if relieving.Valid {
		t := relieving.Time
		m.RelievingDate = &t
	}
	m.ProfileImageRef = profileRef.String
	m.DocumentRef = documentRef.String
	m.SignatureRef = signatureRef.String
	return m, nil
}

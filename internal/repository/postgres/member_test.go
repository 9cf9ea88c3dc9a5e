package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

var memberCols = []string{
	"id", "pg_id", "room_id", "name", "email", "phone", "join_date", "rent_type",
	"price_per_day", "is_active", "relieving_date", "profile_image_ref",
	"document_ref", "signature_ref", "created_on", "updated_on",
}

func TestMemberRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemberRepository(db, 0)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(memberCols).
			AddRow("m1", "pg1", "r1", "Member", "member@test.com", "99999", now,
				"LONG_TERM", "0", true, nil, "members/m1/profile.jpg", nil, nil, now, now)
		mock.ExpectQuery("SELECT (.+) FROM members WHERE id = \\$1").
			WithArgs("m1").
			WillReturnRows(rows)

		m, err := repo.GetByID(ctx, "m1")
		assert.NoError(t, err)
		assert.True(t, m.IsActive)
		assert.Nil(t, m.RelievingDate)
		assert.Equal(t, []string{"members/m1/profile.jpg"}, m.FileRefs())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM members WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(memberCols))

		m, err := repo.GetByID(ctx, "missing")
		assert.Nil(t, m)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestMemberRepository_ListPurgeCandidates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemberRepository(db, 0)
	ctx := context.Background()

	cutoff := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	relieving := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(memberCols).
		AddRow("m1", "pg1", "r1", "Departed", "gone@test.com", "99999", now,
			"LONG_TERM", "0", false, relieving, nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM members m\\s+JOIN leaving_requests lr ON lr.member_id = m.id").
		WithArgs(cutoff).
		WillReturnRows(rows)

	members, err := repo.ListPurgeCandidates(ctx, cutoff)
	assert.NoError(t, err)
	assert.Len(t, members, 1)
	assert.False(t, members[0].IsActive)
	assert.Equal(t, relieving, *members[0].RelievingDate)
}

func TestMemberRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMemberRepository(db, 0)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM members WHERE id = \\$1").
			WithArgs("m1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "m1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM members WHERE id = \\$1").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, "missing")
		assert.True(t, domain.IsNotFound(err))
	})
}

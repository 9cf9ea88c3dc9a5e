package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository"
)

type roomRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewRoomRepository(db *sql.DB, timeout time.Duration) repository.RoomRepository {
	return &roomRepository{db: db, timeout: timeout}
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := boundCtx(ctx, r.timeout)
	defer cancel()

	rm := &domain.Room{}
	query := `SELECT id, pg_id, room_no, rent, electricity_charge, capacity, created_on, updated_on
		FROM rooms WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rm.ID, &rm.PGID, &rm.RoomNo,
		&rm.Rent, &rm.ElectricityCharge, &rm.Capacity, &rm.CreatedOn, &rm.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.NotFound("room", id)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return rm, nil
}

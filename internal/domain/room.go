package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Room struct {
	ID                string          `json:"id"`
	PGID              string          `json:"pg_id"`
	RoomNo            string          `json:"room_no"`
	Rent              decimal.Decimal `json:"rent"`               // monthly
	ElectricityCharge decimal.Decimal `json:"electricity_charge"` // monthly
	Capacity          int32           `json:"capacity"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

type PG struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

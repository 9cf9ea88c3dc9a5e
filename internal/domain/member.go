package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentType string

const (
	RentTypeLongTerm  RentType = "LONG_TERM"
	RentTypeShortTerm RentType = "SHORT_TERM"
)

type Member struct {
	ID            string     `json:"id"`
	PGID          string     `json:"pg_id"`
	RoomID        string     `json:"room_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	JoinDate      time.Time  `json:"join_date"`
	RentType      RentType   `json:"rent_type"`
	PricePerDay   decimal.Decimal `json:"price_per_day"` // short-term members only
	IsActive      bool       `json:"is_active"`
	RelievingDate *time.Time `json:"relieving_date,omitempty"`
	// Storage keys for uploaded member documents.
	ProfileImageRef string    `json:"profile_image_ref,omitempty"`
	DocumentRef     string    `json:"document_ref,omitempty"`
	SignatureRef    string    `json:"signature_ref,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// FileRefs returns every storage key attached to the member record itself
// (payment proofs are tracked on the payment records).
func (m *Member) FileRefs() []string {
	var refs []string
	for _, ref := range []string{m.ProfileImageRef, m.DocumentRef, m.SignatureRef} {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

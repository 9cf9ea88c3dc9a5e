package http

import (
	"github.com/go-playground/validator/v10"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

var validate = validator.New()

// validateDTO runs struct-tag validation and converts failures into the
// engine's ValidationError so handlers get uniform 400 responses.
func validateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		return domain.Validationf("%v", err)
	}
	return nil
}

type submitPaymentForm struct {
	Month  int    `validate:"required,min=1,max=12"`
	Year   int    `validate:"required,min=2000,max=2100"`
	Amount string `validate:"required"`
	Method string `validate:"required,oneof=ONLINE CASH"`
}

type reservePaymentRequest struct {
	MemberID string `json:"member_id" validate:"required,uuid4"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Year     int    `json:"year" validate:"required,min=2000,max=2100"`
	Amount   string `json:"amount" validate:"required"`
}

type rejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type applyLeavingRequest struct {
	LeaveDate string `json:"leave_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
}

type submitPaymentResponse struct {
	ID             string `json:"id"`
	AttemptNumber  int    `json:"attempt_number"`
	PaymentStatus  string `json:"payment_status"`
	ApprovalStatus string `json:"approval_status"`
	DueDate        string `json:"due_date"`
	OverdueDate    string `json:"overdue_date"`
}

type listPaymentsResponse struct {
	Payments []domain.PaymentRecord `json:"payments"`
	Total    int32                  `json:"total"`
	Page     int32                  `json:"page"`
	PageSize int32                  `json:"page_size"`
}

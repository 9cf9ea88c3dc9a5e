package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) SendPaymentApproved(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error {
	subject := fmt.Sprintf("Payment approved for %02d/%d", rec.Month, rec.Year)
	body := fmt.Sprintf("Hello %s,\n\nYour rent payment of Rs. %s for %02d/%d has been approved.\n\nRegards,\nMRM PG",
		toName, rec.Amount.StringFixed(2), rec.Month, rec.Year)
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendPaymentRejected(ctx context.Context, toEmail, toName, reason string, rec *domain.PaymentRecord) error {
	subject := fmt.Sprintf("Payment rejected for %02d/%d", rec.Month, rec.Year)
	body := fmt.Sprintf("Hello %s,\n\nYour rent payment of Rs. %s for %02d/%d was rejected.\n\nReason: %s\n\nPlease submit the payment again.\n\nRegards,\nMRM PG",
		toName, rec.Amount.StringFixed(2), rec.Month, rec.Year, reason)
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, toEmail, toName string, rec *domain.PaymentRecord) error {
	subject := fmt.Sprintf("Rent payment overdue for %02d/%d", rec.Month, rec.Year)
	body := fmt.Sprintf("Hello %s,\n\nYour rent for %02d/%d was due on %s and is now overdue. Please pay at the earliest.\n\nRegards,\nMRM PG",
		toName, rec.Month, rec.Year, rec.DueDate.Format("2006-01-02"))
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) SendLeavingRequestDecision(ctx context.Context, toEmail, toName string, status domain.LeavingRequestStatus, dues decimal.Decimal) error {
	subject := fmt.Sprintf("Leaving request %s", status)
	body := fmt.Sprintf("Hello %s,\n\nYour leaving request has been %s.", toName, status)
	if status == domain.LeavingRequestApproved {
		body += fmt.Sprintf("\n\nPending dues as of your leave date: Rs. %s.", dues.StringFixed(2))
	}
	body += "\n\nRegards,\nMRM PG"
	return s.send(toEmail, toName, subject, body)
}

func (s *emailService) send(toEmail, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return domain.Dependency("email", err)
	}
	if response.StatusCode >= 400 {
		return domain.Dependency("email",
			fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body))
	}
	return nil
}

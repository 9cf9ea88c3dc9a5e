package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/security"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/service"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

type PaymentHandler struct {
	paymentSvc  service.PaymentService
	files       storage.Service
	maxFileSize int64 // bytes
}

func NewPaymentHandler(paymentSvc service.PaymentService, files storage.Service, maxFileSizeMB int64) *PaymentHandler {
	return &PaymentHandler{
		paymentSvc:  paymentSvc,
		files:       files,
		maxFileSize: maxFileSizeMB << 20,
	}
}

// SubmitPayment accepts a multipart submission with proof of payment for a
// billing period. The proof file is stored first; a failed submission
// deletes it again so no orphaned uploads accumulate.
func (h *PaymentHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, domain.Validationf("invalid multipart form: %v", err))
		return
	}

	memberID := claims.SubjectID
	if claims.IsStaff() {
		// Staff record payments (typically cash) on a member's behalf.
		if id := r.FormValue("member_id"); id != "" {
			memberID = id
		}
	}

	month, err := parseIntParam("month", r.FormValue("month"))
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := parseIntParam("year", r.FormValue("year"))
	if err != nil {
		writeError(w, err)
		return
	}
	form := submitPaymentForm{
		Month:  month,
		Year:   year,
		Amount: r.FormValue("amount"),
		Method: r.FormValue("method"),
	}
	if err := validateDTO(form); err != nil {
		writeError(w, err)
		return
	}
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil {
		writeError(w, domain.Validationf("invalid amount %q", form.Amount))
		return
	}

	proofRef, err := h.storeProof(r, memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	if proofRef == "" && form.Method == string(domain.PaymentMethodOnline) {
		writeError(w, domain.Validationf("proof of payment is required for online payments"))
		return
	}

	rec, err := h.paymentSvc.SubmitPayment(r.Context(), service.SubmitPaymentInput{
		MemberID:    memberID,
		Month:       form.Month,
		Year:        form.Year,
		Amount:      amount,
		Method:      domain.PaymentMethod(form.Method),
		ProofRef:    proofRef,
		SelfService: claims.Role == security.RoleMember,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitPaymentResponse{
		ID:             rec.ID,
		AttemptNumber:  rec.AttemptNumber,
		PaymentStatus:  string(rec.PaymentStatus),
		ApprovalStatus: string(rec.ApprovalStatus),
		DueDate:        rec.DueDate.Format("2006-01-02"),
		OverdueDate:    rec.OverdueDate.Format("2006-01-02"),
	})
}

// storeProof saves the optional proof upload and returns its storage key.
func (h *PaymentHandler) storeProof(r *http.Request, memberID string) (string, error) {
	file, header, err := r.FormFile("proof")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", domain.Validationf("invalid proof upload: %v", err)
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		return "", domain.Validationf("proof file exceeds %d bytes", h.maxFileSize)
	}

	key := fmt.Sprintf("proofs/%s/%s%s", memberID, uuid.New().String(), filepath.Ext(header.Filename))
	if err := h.files.Save(r.Context(), key, file); err != nil {
		return "", err
	}
	return key, nil
}

func (h *PaymentHandler) ReservePayment(w http.ResponseWriter, r *http.Request) {
	var req reservePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}
	if err := validateDTO(req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.Validationf("invalid amount %q", req.Amount))
		return
	}

	rec, err := h.paymentSvc.ReservePayment(r.Context(), req.MemberID, req.Month, req.Year, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.paymentSvc.GetPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["memberId"]
	if err := canAccessMember(r, memberID); err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	var params struct{ page, pageSize, month, year int }
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &params.page},
		{"page_size", &params.pageSize},
		{"month", &params.month},
		{"year", &params.year},
	} {
		n, err := parseIntParam(p.name, q.Get(p.name))
		if err != nil {
			writeError(w, err)
			return
		}
		*p.dst = n
	}
	page := int32(params.page)
	pageSize := int32(params.pageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	records, total, err := h.paymentSvc.ListPayments(r.Context(), memberID,
		params.month, params.year, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPaymentsResponse{
		Payments: records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *PaymentHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	rec, err := h.paymentSvc.ApprovePayment(r.Context(), claims.SubjectID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *PaymentHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	var req rejectPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}
	if err := validateDTO(req); err != nil {
		writeError(w, err)
		return
	}

	claims := claimsFrom(r)
	rec, err := h.paymentSvc.RejectPayment(r.Context(), claims.SubjectID, mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DownloadProof streams a payment's proof file to staff reviewers.
func (h *PaymentHandler) DownloadProof(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["id"]
	rec, err := h.paymentSvc.GetPayment(r.Context(), paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec.ProofRef == "" {
		writeError(w, domain.NotFound("proof for payment", paymentID))
		return
	}

	f, err := h.files.Open(r.Context(), rec.ProofRef)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(rec.ProofRef)))
	if _, err := io.Copy(w, f); err != nil {
		// the status line is already out, so all we can do is log
		logger.Warn("proof download interrupted", "payment_id", paymentID, "error", err)
	}
}

// parseIntParam parses an optional numeric query or form value. Absent means
// zero; present but non-numeric is a client error.
func parseIntParam(name, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.Validationf("invalid %s %q", name, s)
	}
	return n, nil
}

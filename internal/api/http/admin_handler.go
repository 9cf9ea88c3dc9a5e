package http

import (
	"net/http"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/service"
)

// AdminHandler exposes the batch operations for on-demand runs; the cron
// scheduler drives the same services on its own.
type AdminHandler struct {
	paymentSvc service.PaymentService
	leavingSvc service.LeavingService
	cleanupSvc service.CleanupService
}

func NewAdminHandler(paymentSvc service.PaymentService, leavingSvc service.LeavingService, cleanupSvc service.CleanupService) *AdminHandler {
	return &AdminHandler{
		paymentSvc: paymentSvc,
		leavingSvc: leavingSvc,
		cleanupSvc: cleanupSvc,
	}
}

func (h *AdminHandler) ReconcileOverdue(w http.ResponseWriter, r *http.Request) {
	updated, err := h.paymentSvc.ReconcileOverdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *AdminHandler) RefreshLeavingDues(w http.ResponseWriter, r *http.Request) {
	summary, err := h.leavingSvc.RefreshAllDues(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cleanupSvc.PurgeInactiveMembers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

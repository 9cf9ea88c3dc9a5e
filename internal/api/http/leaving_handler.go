package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/service"
)

type LeavingHandler struct {
	leavingSvc service.LeavingService
}

func NewLeavingHandler(leavingSvc service.LeavingService) *LeavingHandler {
	return &LeavingHandler{leavingSvc: leavingSvc}
}

// Apply files a leaving request for the authenticated member and returns it
// with the computed dues snapshot.
func (h *LeavingHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyLeavingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}
	if err := validateDTO(req); err != nil {
		writeError(w, err)
		return
	}
	leaveDate, err := time.Parse("2006-01-02", req.LeaveDate)
	if err != nil {
		writeError(w, domain.Validationf("invalid leave date %q", req.LeaveDate))
		return
	}

	claims := claimsFrom(r)
	created, err := h.leavingSvc.Apply(r.Context(), claims.SubjectID, leaveDate, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *LeavingHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.leavingSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := canAccessMember(r, req.MemberID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GetMine returns the authenticated member's open leaving request.
func (h *LeavingHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	req, err := h.leavingSvc.GetByMember(r.Context(), claims.SubjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *LeavingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	req, err := h.leavingSvc.Approve(r.Context(), claims.SubjectID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *LeavingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	req, err := h.leavingSvc.Reject(r.Context(), claims.SubjectID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

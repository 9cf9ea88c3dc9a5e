package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/security"
)

// NewRouter wires the REST surface. Everything under /api/v1 requires a
// verified identity; role checks sit on the individual routes.
func NewRouter(
	verifier security.TokenVerifier,
	payments *PaymentHandler,
	leaving *LeavingHandler,
	admin *AdminHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(verifier))

	// Payments
	api.HandleFunc("/payments", payments.SubmitPayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/reserve", requireStaff(payments.ReservePayment)).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}", requireStaff(payments.GetPayment)).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/approve", requireStaff(payments.ApprovePayment)).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}/reject", requireStaff(payments.RejectPayment)).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}/proof", requireStaff(payments.DownloadProof)).Methods(http.MethodGet)
	api.HandleFunc("/members/{memberId}/payments", payments.ListPayments).Methods(http.MethodGet)

	// Leaving requests
	api.HandleFunc("/leaving-requests", leaving.Apply).Methods(http.MethodPost)
	api.HandleFunc("/leaving-requests/mine", leaving.GetMine).Methods(http.MethodGet)
	api.HandleFunc("/leaving-requests/{id}", leaving.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaving-requests/{id}/approve", requireAdmin(leaving.Approve)).Methods(http.MethodPost)
	api.HandleFunc("/leaving-requests/{id}/reject", requireAdmin(leaving.Reject)).Methods(http.MethodPost)

	// Batch operations
	api.HandleFunc("/admin/jobs/reconcile-overdue", requireAdmin(admin.ReconcileOverdue)).Methods(http.MethodPost)
	api.HandleFunc("/admin/jobs/refresh-leaving-dues", requireAdmin(admin.RefreshLeavingDues)).Methods(http.MethodPost)
	api.HandleFunc("/admin/jobs/cleanup", requireAdmin(admin.Cleanup)).Methods(http.MethodPost)

	return r
}

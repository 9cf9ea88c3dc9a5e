package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/domain"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// authMiddleware extracts the Bearer token and stores the verified identity
// claims on the request context. The engine trusts the claims; credential
// verification happened at the session collaborator.
func authMiddleware(verifier security.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}
			claims, err := verifier.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func claimsFrom(r *http.Request) *security.Claims {
	claims, _ := r.Context().Value(claimsKey).(*security.Claims)
	return claims
}

// requireStaff wraps a handler so only staff or admin identities reach it.
func requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || !claims.IsStaff() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "staff access required"})
			return
		}
		next(w, r)
	}
}

// requireAdmin wraps a handler so only admin identities reach it.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || !claims.IsAdmin() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next(w, r)
	}
}

// canAccessMember allows a member to reach only their own records while
// staff and admin reach any.
func canAccessMember(r *http.Request, memberID string) error {
	claims := claimsFrom(r)
	if claims == nil {
		return domain.Validationf("missing identity")
	}
	if claims.IsStaff() || claims.SubjectID == memberID {
		return nil
	}
	return domain.NotFound("member", memberID)
}

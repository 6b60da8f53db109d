package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// RoleChecker is satisfied by repository.RoleRepo.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

// RequireAdmin gates a route group on the "admin" role. It must run after
// JWTAuth.Middleware so the user id is already in context.
func RequireAdmin(roles RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == uuid.Nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", r)
				return
			}

			isAdmin, err := roles.HasRole(r.Context(), userID, "admin")
			if err != nil {
				log.Printf("admin role check failed for %s: %v", userID, err)
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required", r)
				return
			}
			if !isAdmin {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required", r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

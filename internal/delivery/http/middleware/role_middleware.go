package middleware

import (
	"net/http"

	"beauty-center-backend/internal/domain/entity"
	"beauty-center-backend/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Roles are read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetRoleIDsFromContext(r.Context()); !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !HasRole(r.Context(), allowedRoleIDs...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireStaff allows salon staff who manage bookings.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(
		entity.RoleIDAdmin,
		entity.RoleIDReceptionist,
		entity.RoleIDStandardist,
		entity.RoleIDEmployee,
	)(next)
}

// RequireManager allows roles that edit the catalog.
func RequireManager(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDStandardist)(next)
}

package middleware

import (
	"net/http"

	"clinisys-school/internal/domain/entity"
	"clinisys-school/pkg/response"
)

// RequireRole allows the request through only when the authenticated
// caller holds one of the given roles. Must run after Authenticate.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "InvalidToken", "Authentication required")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient role for this operation")
		})
	}
}

// RequireAdmin restricts the route to administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireStaff restricts the route to administrators and receptionists,
// the roles that manage patients and the attendance queue.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleReceptionist)(next)
}

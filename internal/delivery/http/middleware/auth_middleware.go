package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"
	"clinisys-school/internal/service"
	"clinisys-school/pkg/jwt"
	"clinisys-school/pkg/response"

	"gorm.io/gorm"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	TokenIDKey  contextKey = "token_id"
)

type AuthMiddleware struct {
	db         *gorm.DB
	jwtService *jwt.JWTService
	userRepo   repository.UserRepository
	revocation service.RevocationRegistry
}

func NewAuthMiddleware(db *gorm.DB, jwtService *jwt.JWTService, userRepo repository.UserRepository, revocation service.RevocationRegistry) *AuthMiddleware {
	return &AuthMiddleware{
		db:         db,
		jwtService: jwtService,
		userRepo:   userRepo,
		revocation: revocation,
	}
}

// Authenticate verifies the bearer token, consults the revocation
// registry, and loads the caller from the store so the role check always
// runs against current data. Inactive or deleted users fail even with a
// structurally valid token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "InvalidToken", "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "InvalidToken", "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "InvalidToken", "Invalid or expired token")
			return
		}

		// Signature and expiry passed; a logged-out token still fails here.
		revoked, err := m.revocation.IsRevoked(r.Context(), claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if revoked {
			response.Unauthorized(w, "RevokedToken", "Token has been revoked")
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			response.Unauthorized(w, "InvalidToken", "Invalid or expired token")
			return
		}

		user, err := m.userRepo.FindByID(m.db.WithContext(r.Context()), uint(userID))
		if err != nil {
			response.InternalServerError(w, "Failed to load user")
			return
		}
		if user == nil || !user.Active {
			response.Unauthorized(w, "InactiveOrMissingUser", "User inactive or not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UserRoleKey, user.Role)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the caller's user id from context
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	return userID, ok
}

// GetUserRoleFromContext extracts the caller's role from context
func GetUserRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(entity.Role)
	return role, ok
}

// GetTokenIDFromContext extracts the access-token id from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

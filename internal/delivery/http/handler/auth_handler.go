package handler

import (
	"encoding/json"
	"net/http"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/delivery/http/middleware"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
	"clinisys-school/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Login authenticates a user with email and password
// @Summary Login
// @Description Exchange email and password for an access/refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrRateLimited:
			response.Error(w, http.StatusTooManyRequests, "RateLimited", "Too many login attempts, try again later")
		case usecase.ErrInvalidCredentials:
			response.Unauthorized(w, "InvalidCredentials", "Incorrect email or password")
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, tokens)
}

// Refresh rotates a refresh token
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair; the presented token is revoked
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Refresh(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidRefreshToken:
			response.Unauthorized(w, "InvalidRefreshToken", "Invalid or expired refresh token")
		case usecase.ErrUserInactive, usecase.ErrUserNotFound:
			response.Unauthorized(w, "InactiveOrMissingUser", "User inactive or not found")
		default:
			response.InternalServerError(w, "Failed to refresh token")
		}
		return
	}

	response.Success(w, http.StatusOK, tokens)
}

// Logout revokes the presented access token
// @Summary Logout
// @Description Revoke the presented access token; idempotent
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.authUsecase.Logout(r.Context(), tokenID, userID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Description Return the authenticated user with their role profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "InvalidToken", "Authentication required")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound, usecase.ErrUserInactive:
			response.Unauthorized(w, "InactiveOrMissingUser", "User inactive or not found")
		default:
			response.InternalServerError(w, "Failed to load user")
		}
		return
	}

	response.Success(w, http.StatusOK, user)
}

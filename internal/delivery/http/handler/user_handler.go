package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/delivery/http/middleware"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
	"clinisys-school/pkg/validator"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// Create registers a new user with an optional role profile
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeUserError(w, err, "Failed to create user")
		return
	}

	response.Success(w, http.StatusCreated, user)
}

// List returns a paginated user listing
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)

	users, total, err := h.userUsecase.List(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, users, response.NewMeta(page, limit, total, len(users)))
}

// Get returns a single user by id
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	user, err := h.userUsecase.Get(r.Context(), id)
	if err != nil {
		h.writeUserError(w, err, "Failed to load user")
		return
	}

	response.Success(w, http.StatusOK, user)
}

// Update modifies a user's attributes, role, or role profile
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Update User Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeUserError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, user)
}

// Deactivate soft-disables a user and revokes their refresh tokens
// @Summary Deactivate user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	user, err := h.userUsecase.Deactivate(r.Context(), id)
	if err != nil {
		h.writeUserError(w, err, "Failed to deactivate user")
		return
	}

	response.Success(w, http.StatusOK, user)
}

// Reactivate re-enables a previously deactivated user
// @Summary Reactivate user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	user, err := h.userUsecase.Reactivate(r.Context(), id)
	if err != nil {
		h.writeUserError(w, err, "Failed to reactivate user")
		return
	}

	response.Success(w, http.StatusOK, user)
}

// Delete permanently removes a user
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	if err := h.userUsecase.Delete(r.Context(), id); err != nil {
		h.writeUserError(w, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// ChangePassword sets a new password for a user. Admins may change any
// account; everyone else only their own, and must prove the current one.
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid user id")
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "InvalidToken", "Authentication required")
		return
	}
	actorRole, _ := middleware.GetUserRoleFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.userUsecase.ChangePassword(r.Context(), actorID, actorRole, id, &req); err != nil {
		h.writeUserError(w, err, "Failed to change password")
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *UserHandler) writeUserError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUserNotFound:
		response.NotFound(w, "User not found")
	case usecase.ErrEmailAlreadyExists:
		response.Error(w, http.StatusConflict, "DuplicateEmail", "Email already exists")
	case usecase.ErrNationalIDAlreadyExists:
		response.Error(w, http.StatusConflict, "DuplicateNationalId", "National id already exists")
	case usecase.ErrWeakPassword:
		response.Error(w, http.StatusBadRequest, "WeakPassword", "Password must be at least 8 characters with letters and digits")
	case usecase.ErrWrongCurrentPassword:
		response.Error(w, http.StatusBadRequest, "WrongCurrentPassword", "Current password is incorrect")
	case usecase.ErrForbidden:
		response.Forbidden(w, "You may only change your own password")
	case usecase.ErrInvalidRole:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid role")
	case usecase.ErrClinicRequired:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Clinic id is required for this role")
	case usecase.ErrClinicNotFound:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Clinic not found")
	default:
		response.InternalServerError(w, fallback)
	}
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func paginationParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

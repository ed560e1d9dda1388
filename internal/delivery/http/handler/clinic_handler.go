package handler

import (
	"encoding/json"
	"net/http"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
	"clinisys-school/pkg/validator"
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

// Create registers a teaching clinic
// @Summary Create clinic
// @Tags Clinics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClinicRequest true "Create Clinic Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clinics [post]
func (h *ClinicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeClinicError(w, err, "Failed to create clinic")
		return
	}

	response.Success(w, http.StatusCreated, clinic)
}

// List returns every clinic
// @Summary List clinics
// @Tags Clinics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /clinics [get]
func (h *ClinicHandler) List(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list clinics")
		return
	}

	response.Success(w, http.StatusOK, clinics)
}

// Get returns a single clinic by id
// @Summary Get clinic
// @Tags Clinics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clinics/{id} [get]
func (h *ClinicHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid clinic id")
		return
	}

	clinic, err := h.clinicUsecase.Get(r.Context(), id)
	if err != nil {
		h.writeClinicError(w, err, "Failed to load clinic")
		return
	}

	response.Success(w, http.StatusOK, clinic)
}

// Update modifies a clinic
// @Summary Update clinic
// @Tags Clinics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Param request body dto.UpdateClinicRequest true "Update Clinic Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clinics/{id} [put]
func (h *ClinicHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid clinic id")
		return
	}

	var req dto.UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeClinicError(w, err, "Failed to update clinic")
		return
	}

	response.Success(w, http.StatusOK, clinic)
}

// Delete removes a clinic; linked profiles keep no clinic reference
// @Summary Delete clinic
// @Tags Clinics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clinics/{id} [delete]
func (h *ClinicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid clinic id")
		return
	}

	if err := h.clinicUsecase.Delete(r.Context(), id); err != nil {
		h.writeClinicError(w, err, "Failed to delete clinic")
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": "Clinic deleted"})
}

func (h *ClinicHandler) writeClinicError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrClinicNotFound:
		response.NotFound(w, "Clinic not found")
	case usecase.ErrClinicCodeExists:
		response.Error(w, http.StatusConflict, "DuplicateClinicCode", "Clinic code already exists")
	default:
		response.InternalServerError(w, fallback)
	}
}

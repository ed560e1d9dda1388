package handler

import (
	"encoding/json"
	"net/http"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
	"clinisys-school/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Create registers a patient record
// @Summary Create patient
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePatientRequest true "Create Patient Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, patient)
}

// List searches patients by name or national id, paginated
// @Summary List patients
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name substring or exact national id"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)
	query := r.URL.Query().Get("q")

	patients, total, err := h.patientUsecase.Search(r.Context(), query, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list patients")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, patients, response.NewMeta(page, limit, total, len(patients)))
}

// Get returns a single patient by id
// @Summary Get patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid patient id")
		return
	}

	patient, err := h.patientUsecase.Get(r.Context(), id)
	if err != nil {
		h.writePatientError(w, err, "Failed to load patient")
		return
	}

	response.Success(w, http.StatusOK, patient)
}

// Update modifies a patient record
// @Summary Update patient
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Param request body dto.UpdatePatientRequest true "Update Patient Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /patients/{id} [put]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid patient id")
		return
	}

	var req dto.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writePatientError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, patient)
}

// Delete removes a patient and cascades to their queue entries
// @Summary Delete patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [delete]
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid patient id")
		return
	}

	if err := h.patientUsecase.Delete(r.Context(), id); err != nil {
		h.writePatientError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"message": "Patient deleted"})
}

func (h *PatientHandler) writePatientError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrPatientNationalIDExists:
		response.Error(w, http.StatusConflict, "DuplicateNationalId", "National id already registered")
	case usecase.ErrBirthDateInFuture:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Birth date may not be in the future")
	case usecase.ErrInvalidBirthDate:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid birth date, use YYYY-MM-DD")
	default:
		response.InternalServerError(w, fallback)
	}
}

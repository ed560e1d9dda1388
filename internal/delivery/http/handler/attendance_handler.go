package handler

import (
	"encoding/json"
	"net/http"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
	"clinisys-school/pkg/validator"
)

type AttendanceHandler struct {
	attendanceUsecase usecase.AttendanceUsecase
	validator         *validator.CustomValidator
}

func NewAttendanceHandler(attendanceUsecase usecase.AttendanceUsecase, validator *validator.CustomValidator) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceUsecase: attendanceUsecase,
		validator:         validator,
	}
}

// Enqueue adds a patient to the triage or consultation queue
// @Summary Enqueue patient
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnqueueRequest true "Enqueue Request"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /attendance/queue [post]
func (h *AttendanceHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req dto.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.attendanceUsecase.Enqueue(r.Context(), &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to enqueue patient")
		return
	}

	response.Success(w, http.StatusCreated, entry)
}

// List returns queue entries filtered by type and status. Without a
// status filter only active entries (waiting, in_progress) are shown.
// @Summary List queue
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param type query string false "triage or consultation"
// @Param status query string false "waiting, in_progress, done or cancelled"
// @Success 200 {object} response.Response
// @Router /attendance/queue [get]
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	attendanceType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")

	entries, err := h.attendanceUsecase.List(r.Context(), attendanceType, status)
	if err != nil {
		h.writeQueueError(w, err, "Failed to list queue")
		return
	}

	response.Success(w, http.StatusOK, entries)
}

// UpdateStatus moves a queue entry through its lifecycle
// @Summary Update queue entry status
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Queue Entry ID"
// @Param request body dto.UpdateQueueStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/queue/{id}/status [put]
func (h *AttendanceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid queue entry id")
		return
	}

	var req dto.UpdateQueueStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.attendanceUsecase.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to update queue entry")
		return
	}

	response.Success(w, http.StatusOK, entry)
}

// CallNext pops the oldest waiting entry and marks it in progress
// @Summary Call next patient
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CallNextRequest true "Call Next Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/queue/call-next [post]
func (h *AttendanceHandler) CallNext(w http.ResponseWriter, r *http.Request) {
	var req dto.CallNextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.attendanceUsecase.CallNext(r.Context(), &req)
	if err != nil {
		h.writeQueueError(w, err, "Failed to call next patient")
		return
	}

	response.Success(w, http.StatusOK, entry)
}

func (h *AttendanceHandler) writeQueueError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrQueueEntryNotFound:
		response.NotFound(w, "Queue entry not found")
	case usecase.ErrAlreadyQueued:
		response.Error(w, http.StatusConflict, "AlreadyQueued", "Patient is already queued for this attendance type")
	case usecase.ErrQueueEmpty:
		response.NotFound(w, "No patient waiting in this queue")
	case usecase.ErrInvalidQueueStatus:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid queue status")
	case usecase.ErrInvalidQueueType:
		response.Error(w, http.StatusBadRequest, "ValidationError", "Invalid attendance type")
	default:
		response.InternalServerError(w, fallback)
	}
}

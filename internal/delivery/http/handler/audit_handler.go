package handler

import (
	"net/http"

	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/response"
)

type AuditHandler struct {
	auditUsecase usecase.AuditUsecase
}

func NewAuditHandler(auditUsecase usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{auditUsecase: auditUsecase}
}

// List returns the security audit trail, newest first
// @Summary List audit logs
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)

	logs, total, err := h.auditUsecase.List(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, logs, response.NewMeta(page, limit, total, len(logs)))
}

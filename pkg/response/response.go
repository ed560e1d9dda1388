package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope wrapped around every result. Existing clients
// depend on the four-field shape: success flag, payload-or-null,
// structured error-or-null, metadata.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error"`
	Meta    *Meta       `json:"meta"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total,omitempty"`
	Count      int   `json:"count,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func NewMeta(page, limit int, total int64, count int) *Meta {
	meta := &Meta{Page: page, Limit: limit, Total: total, Count: count}
	if limit > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return meta
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

func ValidationError(w http.ResponseWriter, details interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error: &ErrorBody{
			Code:    "ValidationError",
			Message: "Validation failed",
			Details: details,
		},
	})
}

func Unauthorized(w http.ResponseWriter, code, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, code, message)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, "NotFound", message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, "InternalError", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, "Forbidden", message)
}

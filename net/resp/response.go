// Package resp provides the JSON response envelope used by all handlers.
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/codeshark-lucifer/pos-system/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with a custom status code.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var message string
	var responseData any

	if len(data) > 0 {
		responseData = data[0]
		if strData, ok := responseData.(string); ok {
			message = strData
			responseData = nil
		}
	}

	if responseData != nil {
		writeJSON(w, statusCode, responseData)
		return
	}

	if message == "" {
		message = "ok"
	}
	writeJSON(w, statusCode, map[string]any{"message": message})
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer(ecode.Text(ecode.ServerErr))
	}

	status := http.StatusBadRequest
	if r.Status != 0 {
		status = r.Status
	}
	code := ecode.RequestErr
	if r.Code != 0 {
		code = r.Code
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	writeJSON(w, status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	})
}

// BadRequest builds a 400 response.
func BadRequest(message string, errs ...any) *Exception {
	return newException(http.StatusBadRequest, ecode.RequestErr, message, errs...)
}

// UnAuthorized builds a 401 response.
func UnAuthorized(message string, errs ...any) *Exception {
	return newException(http.StatusUnauthorized, ecode.Unauthorized, message, errs...)
}

// Forbidden builds a 403 response.
func Forbidden(message string, errs ...any) *Exception {
	return newException(http.StatusForbidden, ecode.AccessDenied, message, errs...)
}

// NotFound builds a 404 response.
func NotFound(message string, errs ...any) *Exception {
	return newException(http.StatusNotFound, ecode.NothingFound, message, errs...)
}

// Conflict builds a 409 response.
func Conflict(message string, errs ...any) *Exception {
	return newException(http.StatusConflict, ecode.Conflict, message, errs...)
}

// TooManyRequests builds a 429 response.
func TooManyRequests(message string, errs ...any) *Exception {
	return newException(http.StatusTooManyRequests, ecode.LimitExceed, message, errs...)
}

// InternalServer builds a 500 response.
func InternalServer(message string, errs ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.ServerErr, message, errs...)
}

func newException(status, code int, message string, errs ...any) *Exception {
	var errData any
	if len(errs) > 0 {
		errData = errs[0]
	}
	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Errors:  errData,
	}
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}

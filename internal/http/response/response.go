package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"bridgerh/internal/common"
)

// ErrorCollector receives the status of every error response, so the
// metrics collector can count failures without every handler knowing it.
type ErrorCollector interface {
	ObserveError(status int)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := errorBody{Error: string(common.CodeInternal), Message: "internal error"}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		status = statusFor(appErr.Code)
		body = errorBody{Error: string(appErr.Code), Message: appErr.Message, Fields: appErr.Fields}
	}
	if errorCollector != nil {
		errorCollector.ObserveError(status)
	}
	JSON(w, status, body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

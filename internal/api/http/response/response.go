// Package response writes JSON bodies and maps domain errors to HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/landregistry-server/internal/model"
)

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// StatusOf maps an error to the status code it is reported with.
func StatusOf(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindConflict:
		return http.StatusConflict
	case model.KindAuthorization:
		return http.StatusForbidden
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindLedger:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the error envelope. Internal failures never expose their cause.
func Body(err error) ErrorBody {
	var e *model.Error
	if !errors.As(err, &e) || StatusOf(err) == http.StatusInternalServerError {
		code := "internal_error"
		if e != nil {
			code = e.Code
		}
		return ErrorBody{Error: code, Message: "internal server error"}
	}
	return ErrorBody{Error: e.Code, Message: e.Message}
}

// Error writes err using the envelope and the mapped status.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusOf(err), Body(err))
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/lfom/pkg/errors"
)

const codeOK = "OK"

type response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Code: codeOK, Message: "ok", Data: data})
}

// writeError maps err to a status code. Errors without a code are reported
// as internal and their text is not exposed.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if code == "" || code == errors.ErrCodeInternal {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, status, response{Code: string(code), Message: msg})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidUnit:
		return http.StatusBadRequest
	case errors.ErrCodeCatalogExhausted:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

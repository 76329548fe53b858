package response

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) error {
	return JSON(w, http.StatusOK, data)
}

// Error renders err as the standard error envelope. Errors that are not
// *errors.HTTPError are reported as a generic 500.
func Error(w http.ResponseWriter, err error) error {
	statusCode, resp := parseHttpError(err)
	return JSON(w, statusCode, resp)
}

// ValidationError renders a 400 carrying field level details.
func ValidationError(w http.ResponseWriter, code int, message string, details any) error {
	return JSON(w, http.StatusBadRequest, Resp{
		ErrorCode: code,
		Message:   message,
		Errors:    details,
	})
}

package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// WriteHTTPError writes err with the status chosen by HTTPStatus. Validation errors carry their
// field messages in a JSON body; everything else is plain text like http.Error.
func WriteHTTPError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: vErr.Error(), Fields: vErr.Fields}); err != nil {
		log.Errorf("failed to encode validation error: %v", err)
	}
}

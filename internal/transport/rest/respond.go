package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// maxBodyBytes caps JSON request bodies; chat messages are short.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error  string           `json:"error"`
	Fields []fieldErrorJSON `json:"fields,omitempty"`
}

type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeValidation renders a validation failure with its field errors.
func writeValidation(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "validation error"}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Errors {
			resp.Fields = append(resp.Fields, fieldErrorJSON{Field: fe.Field, Message: fe.Message})
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// decodeJSON reads a single JSON object from the request body, rejecting
// unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: trailing data")
	}
	return nil
}

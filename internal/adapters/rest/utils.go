package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/dragdrop"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
)

const maxBodyBytes = 1 << 16

// WriteJSONError writes {"error": message} with statusCode.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON writes payload as JSON with code.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// decodeJSON reads a small JSON body into dst. An empty body leaves dst as is.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// statusFor maps core errors to HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound, "Property not found"
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized, "Session not found"
	case errors.Is(err, dragdrop.ErrNoActiveGesture):
		return http.StatusConflict, "No drag in progress"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

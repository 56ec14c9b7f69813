// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
)

const maxBodyBytes = 1 << 20

// successResponse es el sobre de éxito: {success:true, data}.
type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ReadJSON decodifica el body a v. Valida Content-Type y limita a 1MB.
// Devuelve un *AppError listo para WriteError.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return httperrors.ErrBadRequest.WithDetail("Content-Type debe ser application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return httperrors.ErrMissingFields.WithDetail("empty body")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// WriteJSON escribe v tal cual.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess envuelve data en el sobre de éxito.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, successResponse{Success: true, Data: data})
}

package helpers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
)

// PathParam lee un parámetro de ruta chi. Vacío = 400.
func PathParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", httperrors.ErrInvalidParameter.WithDetail("missing " + name)
	}
	return v, nil
}

// QueryInt lee un entero opcional de la query.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httperrors.ErrInvalidParameter.WithDetail(name + " must be an integer")
	}
	return n, nil
}

// QueryBool lee un booleano opcional; nil si no vino.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, httperrors.ErrInvalidParameter.WithDetail(name + " must be a boolean")
	}
	return &b, nil
}

// Query devuelve el valor recortado.
func Query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// ParsePeriod valida "YYYY-MM".
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, httperrors.ErrInvalidParameter.WithDetail("period must be YYYY-MM")
	}
	return t, nil
}

// ParseDate acepta "YYYY-MM-DD" o RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, httperrors.ErrInvalidParameter.WithDetail("date must be YYYY-MM-DD")
	}
	return t.UTC(), nil
}

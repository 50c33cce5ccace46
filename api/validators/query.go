package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
)

const maxQueryValueLen = 255

// QueryString returns the trimmed query value, or nil when absent or blank.
func QueryString(r *http.Request, key string) *string {
	value := SanitizeString(r.URL.Query().Get(key), maxQueryValueLen)
	if value == "" {
		return nil
	}
	return &value
}

// ParseUUIDParam reads a chi path parameter and parses it as a UUID.
func ParseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required").WithDetails(map[string]any{"field": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be a valid uuid").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

// PathString reads a required chi path parameter.
func PathString(r *http.Request, name string) (string, error) {
	raw := SanitizeString(chi.URLParam(r, name), maxQueryValueLen)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required").WithDetails(map[string]any{"field": name})
	}
	return raw, nil
}

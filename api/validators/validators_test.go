package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
)

type sampleItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type sampleRequest struct {
	Items []sampleItem `json:"items" validate:"required,dive"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"productId":"p","quantity":2}]}`))
	var dest sampleRequest
	require.NoError(t, DecodeJSONBody(req, &dest))
	assert.Equal(t, 2, dest.Items[0].Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[],"extra":true}`))
	var dest sampleRequest
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"productId":"","quantity":0}]}`))
	var dest sampleRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["items[0].productId"])
	assert.Equal(t, "must be greater than 0", details["items[0].quantity"])
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var dest sampleRequest
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &dest), pkgerrors.CodeValidation))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "cartId", id.String())
	got, err := ParseUUIDParam(req, "cartId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	bad := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "cartId", "not-a-uuid")
	_, err = ParseUUIDParam(bad, "cartId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseUUIDParam(httptest.NewRequest(http.MethodGet, "/", nil), "cartId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?user_id=%20u-1%20&session_id=", nil)
	require.NotNil(t, QueryString(req, "user_id"))
	assert.Equal(t, "u-1", *QueryString(req, "user_id"))
	assert.Nil(t, QueryString(req, "session_id"))
	assert.Nil(t, QueryString(req, "missing"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
	assert.Equal(t, "ab", SanitizeString("a\x00b\n", 0))
	assert.Equal(t, "caf", SanitizeString("café", 4), "multi-byte rune is not split")
}

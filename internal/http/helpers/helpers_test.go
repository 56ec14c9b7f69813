package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/dropDatabas3/syndik/internal/http/errors"
)

func TestReadJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Ascenseur"}`))
	r.Header.Set("Content-Type", "application/json")
	require.NoError(t, ReadJSON(httptest.NewRecorder(), r, &v))
	assert.Equal(t, "Ascenseur", v.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	r.Header.Set("Content-Type", "application/json")
	err := ReadJSON(httptest.NewRecorder(), r, &v)
	assert.ErrorIs(t, err, httperrors.ErrInvalidJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")
	err = ReadJSON(httptest.NewRecorder(), r, &v)
	assert.ErrorIs(t, err, httperrors.ErrBadRequest)
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, map[string]int{"created": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Data["created"])
}

func TestQueryParsing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&verified=true&bad=x", nil)

	n, err := QueryInt(r, "limit", 50)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = QueryInt(r, "offset", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = QueryInt(r, "bad", 0)
	assert.Error(t, err)

	b, err := QueryBool(r, "verified")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	_, err = ParsePeriod("2025-13")
	assert.Error(t, err)
	p, err := ParsePeriod("2025-06")
	require.NoError(t, err)
	assert.Equal(t, 6, int(p.Month()))

	d, err := ParseDate("2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())
}

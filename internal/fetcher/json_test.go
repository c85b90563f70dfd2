package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeJSONObject(t *testing.T) {
	rec, err := DecodeJSONObject[testRecord](strings.NewReader(`{"id":7,"name":"alpha"}`))
	require.NoError(t, err)
	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, "alpha", rec.Name)
}

func TestDecodeJSONObject_Invalid(t *testing.T) {
	_, err := DecodeJSONObject[testRecord](strings.NewReader(`{"id":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json: decode object")
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"beta"}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 5 * time.Second})
	rec, err := FetchJSON[testRecord](context.Background(), f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "beta", rec.Name)
}

func TestFetchJSON_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 5 * time.Second})
	_, err := FetchJSON[testRecord](context.Background(), f, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

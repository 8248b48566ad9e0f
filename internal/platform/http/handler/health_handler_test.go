package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(ping Pinger) *gin.Engine {
	r := gin.New()
	h := NewHealth(ping)
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func healthy(context.Context) error { return nil }

func unhealthy(context.Context) error { return errors.New("connection refused") }

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(healthy).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_GET_StoreDown(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(unhealthy).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unavailable", response["status"])
}

func TestHealth_NilPinger(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(healthy).ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	// HEAD はボディを持たない
	assert.Zero(t, w.Body.Len())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		ping           Pinger
		expectedStatus int
	}{
		{"GET ok", http.MethodGet, healthy, http.StatusOK},
		{"GET down", http.MethodGet, unhealthy, http.StatusServiceUnavailable},
		{"HEAD ok", http.MethodHead, healthy, http.StatusOK},
		{"HEAD down", http.MethodHead, unhealthy, http.StatusServiceUnavailable},
		{"OPTIONS ok", http.MethodOptions, healthy, http.StatusNoContent},
		// OPTIONS は ping しない
		{"OPTIONS down", http.MethodOptions, unhealthy, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.ping).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

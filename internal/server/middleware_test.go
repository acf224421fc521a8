package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(slog.New(slog.DiscardHandler)))
	router.HandleFunc("/accounts/{account_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	return router
}

func TestLoggingMiddleware_AssignsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/1", nil))

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	require.NoError(t, err)
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts/1", nil)
	req.Header.Set(requestIDHeader, "abc-123")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestLoggingMiddleware_CountsByRouteTemplate(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/accounts/{account_id}", "404")
	before := testutil.ToFloat64(counter)

	router := newTestRouter()
	for _, path := range []string{"/accounts/1", "/accounts/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

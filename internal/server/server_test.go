package server

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_ReportsBoundPort(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := &Server{router: router, logger: slog.New(slog.DiscardHandler)}

	port, err := s.Start("0")
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop(context.Background()) })

	assert.NotEqual(t, "0", port)
	assert.Equal(t, port, s.GetPort())
	assert.Equal(t, "http://localhost:"+port, s.GetBaseURL())

	resp, err := http.Get(s.GetBaseURL() + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

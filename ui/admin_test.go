package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestAdminApp(t *testing.T) {
	env := newTestEnv(t, 0)

	tests := []struct {
		name       string
		config     AdminConfig
		pinger     Pinger
		path       string
		status     int
		wantInBody string
	}{
		{"health", AdminConfig{}, nil, "/healthz", http.StatusOK, `"ok"`},
		{"ready without pinger", AdminConfig{}, nil, "/readyz", http.StatusOK, `"ready"`},
		{"ready with failing pinger", AdminConfig{}, stubPinger{err: errors.New("connection refused")}, "/readyz", http.StatusServiceUnavailable, "connection refused"},
		{"stats", AdminConfig{}, nil, "/stats", http.StatusOK, `"occurrences":4`},
		{"pprof disabled", AdminConfig{}, nil, "/debug/pprof/", http.StatusNotFound, ""},
		{"pprof enabled", AdminConfig{Profiling: true}, nil, "/debug/pprof/", http.StatusOK, "goroutine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewAdminApp(tt.config, env.store, env.svc.Pending(), tt.pinger)

			w := httptest.NewRecorder()
			app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantInBody)
		})
	}
}

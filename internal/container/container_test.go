package container

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roster/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMemoryConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Location: time.UTC},
		Store: config.StoreConfig{
			Backend: config.BackendBadger,
			Slot:    "work-schedule",
		},
		Import: config.ImportConfig{MaxUploadMB: 1, PendingTTL: time.Minute},
		Agenda: config.AgendaConfig{Spec: "0 6 * * *"},
		Log:    config.LogConfig{Level: "ERROR"},
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInit_WiresEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, err := New(inMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	require.NoError(t, c.Init(context.Background()))

	assert.Equal(t, 5, c.Store.Len())
	assert.Equal(t, 2, c.Agenda.Jobs())
	assert.Nil(t, c.DB)

	w := httptest.NewRecorder()
	c.API.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c.Admin.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInit_BadSeedFile(t *testing.T) {
	cfg := inMemoryConfig()
	cfg.Store.SeedFile = "/nonexistent/seed.yaml"
	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	assert.Error(t, c.Init(context.Background()))
}

func TestMigrateOrClose_ClosesOnFailure(t *testing.T) {
	// sqlx.Open is lazy, so no server is needed
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
	require.NoError(t, err)

	err = migrateOrClose(context.Background(), db, func(context.Context, *sqlx.DB) error {
		return errors.New("relation already exists")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation already exists")
	assert.ErrorContains(t, db.PingContext(context.Background()), "database is closed")
}

func TestMigrateOrClose_KeepsOpenOnSuccess(t *testing.T) {
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = migrateOrClose(context.Background(), db, func(context.Context, *sqlx.DB) error { return nil })

	require.NoError(t, err)
	if pingErr := db.PingContext(context.Background()); pingErr != nil {
		assert.NotContains(t, pingErr.Error(), "database is closed")
	}
}

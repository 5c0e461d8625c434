package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/internal/config"
	"growlab/internal/infrastructure"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg, err := config.LoadFromFile("")
	require.NoError(t, err)

	app := &Application{
		Config: cfg,
		Paths: &config.Paths{
			ExecutableDir: t.TempDir(),
			DataDir:       t.TempDir(),
		},
		Logger:        slog.Default(),
		OTelProviders: &infrastructure.OTelProviders{Logger: slog.Default()},
	}
	app.initializeServices()
	app.setupRouter()
	app.createServer()
	return app
}

func TestRouterServesLiveness(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), Version)
}

func TestRouterServesSchools(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/schools", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "송도고")
}

func TestRouterMissingDataDirIsProblemResponse(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data/growth", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestServerUsesConfiguredPort(t *testing.T) {
	app := newTestApplication(t)
	assert.Equal(t, ":8080", app.Server.Addr)
}

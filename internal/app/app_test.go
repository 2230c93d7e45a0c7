package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-dashboard/internal/config"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:                  config.EnvDev,
		ServiceName:             "football-dashboard",
		HTTPAddr:                ":0",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		FootballDataBaseURL:     "http://127.0.0.1:1",
		FootballDataTimeout:     time.Second,
		CacheEnabled:            true,
		CacheTTLCompetitions:    time.Hour,
		CacheTTLCompetitionData: time.Minute,
		CacheWarmupWorkers:      1,
		ForwardsCSVPath:         "testdata/missing.csv",
		ReportEngine:            config.ReportEngineWkhtmltopdf,
		ReportOutputDir:         t.TempDir(),
		ReportTimeout:           time.Second,
		AuthUsername:            "admin",
		AuthDevPassword:         "secret",
		SessionTTL:              time.Hour,
		CredentialStore:         config.CredentialStoreStatic,
		MetricsEnabled:          true,
	}
}

func TestNewHTTPServerServesSystemRoutes(t *testing.T) {
	cfg := testConfig(t)
	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)
	defer services.Close()

	assert.NotNil(t, services.Metrics)
	assert.Nil(t, services.db)

	server, err := NewHTTPServer(cfg, services, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, cfg.WriteTimeout, server.WriteTimeout)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "football_dashboard_"), "expected dashboard collectors")

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/competitions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewServicesWithoutCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheEnabled = false
	cfg.MetricsEnabled = false

	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, services.Metrics)

	server, err := NewHTTPServer(cfg, services, logging.NewNop())
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestNewServicesRequiresPasswordOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.AppEnv = config.EnvProd

	_, err := NewServices(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServerRequiresAddr(t *testing.T) {
	cfg := testConfig(t)
	services, err := NewServices(cfg, logging.NewNop())
	require.NoError(t, err)

	cfg.HTTPAddr = " "
	_, err = NewHTTPServer(cfg, services, logging.NewNop())
	require.Error(t, err)
}

func TestNewReportEngine(t *testing.T) {
	cfg := testConfig(t)
	engine, err := newReportEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ReportEngineWkhtmltopdf, engine.Name())

	cfg.ReportEngine = config.ReportEngineChromedp
	engine, err = newReportEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ReportEngineChromedp, engine.Name())

	cfg.ReportEngine = "latex"
	_, err = newReportEngine(cfg)
	require.Error(t, err)
}

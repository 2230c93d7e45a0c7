package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheTTLCompetitions != time.Hour {
		t.Fatalf("unexpected CacheTTLCompetitions: %s", cfg.CacheTTLCompetitions)
	}
	if cfg.CacheTTLCompetitionData != 30*time.Minute {
		t.Fatalf("unexpected CacheTTLCompetitionData: %s", cfg.CacheTTLCompetitionData)
	}
	if cfg.FootballDataMaxRetries != 0 {
		t.Fatalf("expected no retries by default, got %d", cfg.FootballDataMaxRetries)
	}
	if len(cfg.FootballDataExcludedCompetitions) != 1 || cfg.FootballDataExcludedCompetitions[0] != "Campeonato Brasileiro Série A" {
		t.Fatalf("unexpected exclusions: %v", cfg.FootballDataExcludedCompetitions)
	}
	if cfg.ReportEngine != ReportEngineWkhtmltopdf || cfg.ReportTimeout != time.Minute {
		t.Fatalf("unexpected report defaults: engine=%s timeout=%s", cfg.ReportEngine, cfg.ReportTimeout)
	}
	if cfg.CredentialStore != CredentialStoreStatic {
		t.Fatalf("unexpected credential store: %s", cfg.CredentialStore)
	}
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("FOOTBALL_DATA_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without FOOTBALL_DATA_API_KEY in prod")
	}

	t.Setenv("FOOTBALL_DATA_API_KEY", "key")
	t.Setenv("AUTH_PASSWORD_HASH", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without AUTH_PASSWORD_HASH in prod")
	}

	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuuQ3bD7Xb4zYk2rXW5E9n0Xg2c7b1a9kq")
	t.Setenv("CSRF_AUTH_KEY", "short")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for short CSRF_AUTH_KEY in prod")
	}

	t.Setenv("CSRF_AUTH_KEY", "0123456789abcdef0123456789abcdef")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SessionCookieSecure {
		t.Fatalf("expected secure cookies outside dev")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"FOOTBALL_DATA_TIMEOUT":     "-1s",
		"FOOTBALL_DATA_MAX_RETRIES": "-2",
		"CACHE_ENABLED":             "maybe",
		"CACHE_WARMUP_WORKERS":      "0",
		"REPORT_ENGINE":             "latex",
		"CREDENTIAL_STORE":          "ldap",
		"SESSION_TTL":               "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_PostgresStoreRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CREDENTIAL_STORE", CredentialStorePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CREDENTIAL_STORE=postgres without DB_URL")
	}
}

func TestLoad_FileLayerUnderEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	content := []byte("APP_HTTP_ADDR: \":9090\"\ncache_warmup_workers: 8\nforwards_csv_path: /data/delanteros.csv\nreport_timeout: 45s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("REPORT_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected file value for HTTPAddr, got %q", cfg.HTTPAddr)
	}
	if cfg.CacheWarmupWorkers != 8 {
		t.Fatalf("expected file value for CacheWarmupWorkers, got %d", cfg.CacheWarmupWorkers)
	}
	if cfg.ForwardsCSVPath != "/data/delanteros.csv" {
		t.Fatalf("unexpected ForwardsCSVPath: %q", cfg.ForwardsCSVPath)
	}
	if cfg.ReportTimeout != 30*time.Second {
		t.Fatalf("expected env to override file, got %s", cfg.ReportTimeout)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing APP_CONFIG_FILE")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	if got != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if parseUptraceDSNFromOTLPHeaders("") != "" {
		t.Fatalf("expected empty dsn for empty headers")
	}
}

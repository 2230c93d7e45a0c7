package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	ReportEngineWkhtmltopdf = "wkhtmltopdf"
	ReportEngineChromedp    = "chromedp"

	CredentialStoreStatic   = "static"
	CredentialStorePostgres = "postgres"
)

const defaultExcludedCompetitions = "Campeonato Brasileiro Série A"

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	FootballDataBaseURL              string
	FootballDataAPIKey               string
	FootballDataTimeout              time.Duration
	FootballDataMaxRetries           int
	FootballDataExcludedCompetitions []string
	FootballDataCircuitEnabled       bool
	FootballDataCircuitFailureCount  int
	FootballDataCircuitOpenTimeout   time.Duration
	FootballDataCircuitHalfOpenMax   int

	CacheEnabled            bool
	CacheTTLCompetitions    time.Duration
	CacheTTLCompetitionData time.Duration
	CacheWarmupEnabled      bool
	CacheWarmupWorkers      int

	ForwardsCSVPath string

	ReportEngine          string
	ReportWkhtmltopdfPath string
	ReportChromePath      string
	ReportTemplatePath    string
	ReportOutputDir       string
	ReportTimeout         time.Duration

	AuthUsername        string
	AuthPasswordHash    string
	AuthDevPassword     string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	CSRFEnabled         bool
	CSRFAuthKey         string
	CredentialStore     string
	DBURL               string

	DBMaxOpenConns                int
	DBDisablePreparedBinaryResult bool

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	MetricsEnabled             bool
}

func Load() (Config, error) {
	src, err := newSource()
	if err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(src.get("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(src.get("APP_SERVICE_NAME", "football-dashboard")),
		ServiceVersion:     strings.TrimSpace(src.get("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           strings.TrimSpace(src.get("APP_HTTP_ADDR", ":8080")),
		LogLevel:           parseLogLevel(src.get("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(src.get("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.ReadTimeout, err = src.getDuration("APP_READ_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	// PDF exports run inside the request, so the write timeout has to outlive REPORT_TIMEOUT.
	if cfg.WriteTimeout, err = src.getDuration("APP_WRITE_TIMEOUT", 90*time.Second); err != nil {
		return Config{}, err
	}

	if err := loadFootballData(src, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadCache(src, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadReports(src, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadAuth(src, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(src, &cfg); err != nil {
		return Config{}, err
	}

	cfg.ForwardsCSVPath = strings.TrimSpace(src.get("FORWARDS_CSV_PATH", "data/forwards.csv"))

	return cfg, nil
}

func loadFootballData(src *source, cfg *Config) error {
	var err error
	cfg.FootballDataBaseURL = strings.TrimRight(strings.TrimSpace(src.get("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org")), "/")
	cfg.FootballDataAPIKey = strings.TrimSpace(src.get("FOOTBALL_DATA_API_KEY", ""))
	if cfg.AppEnv != EnvDev && cfg.FootballDataAPIKey == "" {
		return fmt.Errorf("FOOTBALL_DATA_API_KEY is required when APP_ENV=%s", cfg.AppEnv)
	}
	cfg.FootballDataExcludedCompetitions = splitCSV(src.get("FOOTBALL_DATA_EXCLUDED_COMPETITIONS", defaultExcludedCompetitions))

	if cfg.FootballDataTimeout, err = src.getDuration("FOOTBALL_DATA_TIMEOUT", 15*time.Second); err != nil {
		return err
	}
	if cfg.FootballDataMaxRetries, err = src.getInt("FOOTBALL_DATA_MAX_RETRIES", 0); err != nil {
		return err
	}
	if cfg.FootballDataMaxRetries < 0 {
		return fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	if cfg.FootballDataCircuitEnabled, err = src.getBool("FOOTBALL_DATA_CIRCUIT_ENABLED", true); err != nil {
		return err
	}
	if cfg.FootballDataCircuitFailureCount, err = src.getInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return err
	}
	if cfg.FootballDataCircuitFailureCount < 1 {
		return fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FootballDataCircuitOpenTimeout, err = src.getDuration("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if cfg.FootballDataCircuitHalfOpenMax, err = src.getInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return err
	}
	if cfg.FootballDataCircuitHalfOpenMax < 1 {
		return fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadCache(src *source, cfg *Config) error {
	var err error
	if cfg.CacheEnabled, err = src.getBool("CACHE_ENABLED", true); err != nil {
		return err
	}
	if cfg.CacheTTLCompetitions, err = src.getDuration("CACHE_TTL_COMPETITIONS", time.Hour); err != nil {
		return err
	}
	if cfg.CacheTTLCompetitionData, err = src.getDuration("CACHE_TTL_COMPETITION_DATA", 30*time.Minute); err != nil {
		return err
	}
	if cfg.CacheWarmupEnabled, err = src.getBool("CACHE_WARMUP_ENABLED", false); err != nil {
		return err
	}
	if cfg.CacheWarmupWorkers, err = src.getInt("CACHE_WARMUP_WORKERS", 4); err != nil {
		return err
	}
	if cfg.CacheWarmupWorkers < 1 {
		return fmt.Errorf("CACHE_WARMUP_WORKERS must be >= 1")
	}
	return nil
}

func loadReports(src *source, cfg *Config) error {
	var err error
	cfg.ReportEngine = strings.ToLower(strings.TrimSpace(src.get("REPORT_ENGINE", ReportEngineWkhtmltopdf)))
	switch cfg.ReportEngine {
	case ReportEngineWkhtmltopdf, ReportEngineChromedp:
	default:
		return fmt.Errorf("invalid REPORT_ENGINE %q: valid values are %s, %s", cfg.ReportEngine, ReportEngineWkhtmltopdf, ReportEngineChromedp)
	}
	cfg.ReportWkhtmltopdfPath = strings.TrimSpace(src.get("REPORT_WKHTMLTOPDF_PATH", "wkhtmltopdf"))
	cfg.ReportChromePath = strings.TrimSpace(src.get("REPORT_CHROME_PATH", ""))
	cfg.ReportTemplatePath = strings.TrimSpace(src.get("REPORT_TEMPLATE_PATH", ""))
	cfg.ReportOutputDir = strings.TrimSpace(src.get("REPORT_OUTPUT_DIR", "reports"))
	if cfg.ReportTimeout, err = src.getDuration("REPORT_TIMEOUT", 60*time.Second); err != nil {
		return err
	}
	return nil
}

func loadAuth(src *source, cfg *Config) error {
	var err error
	cfg.AuthUsername = strings.TrimSpace(src.get("AUTH_USERNAME", "admin"))
	cfg.AuthPasswordHash = strings.TrimSpace(src.get("AUTH_PASSWORD_HASH", ""))
	cfg.AuthDevPassword = src.get("AUTH_DEV_PASSWORD", "admin")
	cfg.CSRFAuthKey = strings.TrimSpace(src.get("CSRF_AUTH_KEY", ""))
	cfg.DBURL = strings.TrimSpace(src.get("DB_URL", ""))

	cfg.CredentialStore = strings.ToLower(strings.TrimSpace(src.get("CREDENTIAL_STORE", CredentialStoreStatic)))
	switch cfg.CredentialStore {
	case CredentialStoreStatic:
		if cfg.AuthUsername == "" {
			return fmt.Errorf("AUTH_USERNAME is required when CREDENTIAL_STORE=%s", CredentialStoreStatic)
		}
		if cfg.AuthPasswordHash == "" && cfg.AppEnv != EnvDev {
			return fmt.Errorf("AUTH_PASSWORD_HASH is required when APP_ENV=%s", cfg.AppEnv)
		}
	case CredentialStorePostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when CREDENTIAL_STORE=%s", CredentialStorePostgres)
		}
	default:
		return fmt.Errorf("invalid CREDENTIAL_STORE %q: valid values are %s, %s", cfg.CredentialStore, CredentialStoreStatic, CredentialStorePostgres)
	}

	if cfg.DBMaxOpenConns, err = src.getInt("DB_MAX_OPEN_CONNS", 5); err != nil {
		return err
	}
	if cfg.DBDisablePreparedBinaryResult, err = src.getBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return err
	}

	if cfg.SessionTTL, err = src.getDuration("SESSION_TTL", 12*time.Hour); err != nil {
		return err
	}
	if cfg.SessionCookieSecure, err = src.getBool("SESSION_COOKIE_SECURE", cfg.AppEnv != EnvDev); err != nil {
		return err
	}
	if cfg.CSRFEnabled, err = src.getBool("CSRF_ENABLED", true); err != nil {
		return err
	}
	if cfg.CSRFEnabled && cfg.AppEnv != EnvDev && len(cfg.CSRFAuthKey) != 32 {
		return fmt.Errorf("CSRF_AUTH_KEY must be 32 bytes when CSRF_ENABLED=true and APP_ENV=%s", cfg.AppEnv)
	}
	return nil
}

func loadObservability(src *source, cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = src.getBool("UPTRACE_ENABLED", false); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(src.get("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(src.get("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = src.getBool("PYROSCOPE_ENABLED", false); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(src.get("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(src.get("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(src.get("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(src.get("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(src.get("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = src.getDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = src.getBool("PPROF_ENABLED", false); err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(src.get("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.MetricsEnabled, err = src.getBool("METRICS_ENABLED", true); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

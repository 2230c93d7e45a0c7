package app

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-dashboard/external/footballdata"
	"github.com/riskibarqy/football-dashboard/internal/config"
	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/account/postgres"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/account/static"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/chart"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/dataset"
	"github.com/riskibarqy/football-dashboard/internal/infrastructure/report"
	cacherepo "github.com/riskibarqy/football-dashboard/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-dashboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-dashboard/internal/interfaces/web"
	"github.com/riskibarqy/football-dashboard/internal/platform/cache"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
	"github.com/riskibarqy/football-dashboard/internal/platform/metrics"
	"github.com/riskibarqy/football-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

// Services holds the wired use cases shared by the HTTP server and the CLI.
type Services struct {
	Metrics      *metrics.Recorder
	Competitions *usecase.CompetitionService
	Standings    *usecase.StandingService
	Scorers      *usecase.ScorerService
	Teams        *usecase.TeamService
	Forwards     *usecase.ForwardService
	Overview     *usecase.OverviewService
	Reports      *usecase.ReportService
	Auth         *usecase.AuthService
	Warmup       *usecase.WarmupService
	Charts       *chart.Renderer

	db *sqlx.DB
}

// NewServices builds every use case from configuration. Close releases the
// database pool when the postgres credential store is used.
func NewServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.New(metrics.WithRuntimeCollectors())
	}

	client := footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &fasthttp.Client{
			Name:         cfg.ServiceName,
			ReadTimeout:  cfg.FootballDataTimeout,
			WriteTimeout: cfg.FootballDataTimeout,
		},
		BaseURL:              cfg.FootballDataBaseURL,
		APIKey:               cfg.FootballDataAPIKey,
		Timeout:              cfg.FootballDataTimeout,
		MaxRetries:           cfg.FootballDataMaxRetries,
		ExcludedCompetitions: cfg.FootballDataExcludedCompetitions,
		Logger:               logger,
		Observer:             recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMax,
		},
	})

	var source cacherepo.FootballSource = client
	var forwards forward.Repository = dataset.NewForwardCSVLoader(cfg.ForwardsCSVPath, logger, recorder)
	if cfg.CacheEnabled {
		long := cache.NewStore(cfg.CacheTTLCompetitions, cache.WithObserver(recorder))
		short := cache.NewStore(cfg.CacheTTLCompetitionData, cache.WithObserver(recorder))
		source = cacherepo.NewFootballRepository(client, long, short)
		forwards = cacherepo.NewForwardRepository(forwards, long)
	}

	competitions := usecase.NewCompetitionService(source, logger)
	standings := usecase.NewStandingService(source, logger)
	scorers := usecase.NewScorerService(source, logger)
	teams := usecase.NewTeamService(source, logger)
	forwardSvc := usecase.NewForwardService(forwards, cfg.ForwardsCSVPath, logger)
	charts := chart.NewRenderer()

	engine, err := newReportEngine(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.ReportOutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report output dir: %w", err)
	}
	reports := usecase.NewReportService(usecase.ReportServiceConfig{
		Competitions: competitions,
		Standings:    standings,
		Scorers:      scorers,
		Teams:        teams,
		Forwards:     forwardSvc,
		Renderer: report.NewRenderer(report.RendererConfig{
			TemplatePath: cfg.ReportTemplatePath,
			Engine:       engine,
			Logger:       logger,
		}),
		Charts:    charts,
		OutputDir: cfg.ReportOutputDir,
		Observer:  recorder,
		Logger:    logger,
	})

	credentials, db, err := newCredentialRepository(cfg, logger)
	if err != nil {
		return nil, err
	}
	auth := usecase.NewAuthService(usecase.AuthServiceConfig{
		Credentials: credentials,
		Sessions:    cache.NewStore(cfg.SessionTTL),
		Observer:    recorder,
		Logger:      logger,
	})

	return &Services{
		Metrics:      recorder,
		Competitions: competitions,
		Standings:    standings,
		Scorers:      scorers,
		Teams:        teams,
		Forwards:     forwardSvc,
		Overview:     usecase.NewOverviewService(standings, scorers, teams),
		Reports:      reports,
		Auth:         auth,
		Warmup:       usecase.NewWarmupService(source, forwards, cfg.CacheWarmupWorkers, logger),
		Charts:       charts,
		db:           db,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewHTTPServer mounts the JSON API under /v1 and the analyst pages at /.
func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	pages, err := web.New(web.Config{
		Competitions: services.Competitions,
		Standings:    services.Standings,
		Scorers:      services.Scorers,
		Teams:        services.Teams,
		Forwards:     services.Forwards,
		Reports:      services.Reports,
		Auth:         services.Auth,
		Charts:       services.Charts,
		CookieSecure: cfg.SessionCookieSecure,
		CSRFEnabled:  cfg.CSRFEnabled,
		CSRFAuthKey:  cfg.CSRFAuthKey,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build web pages: %w", err)
	}

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Competitions: services.Competitions,
		Standings:    services.Standings,
		Scorers:      services.Scorers,
		Teams:        services.Teams,
		Forwards:     services.Forwards,
		Overview:     services.Overview,
		Reports:      services.Reports,
		Auth:         services.Auth,
		CookieSecure: cfg.SessionCookieSecure,
		Logger:       logger.Named("httpapi"),
	})

	routerCfg := httpapi.RouterConfig{
		Handler:            handler,
		Verifier:           services.Auth,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Web:                pages,
	}
	if services.Metrics != nil {
		routerCfg.Metrics = services.Metrics.Handler()
		routerCfg.Observer = services.Metrics
	}

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func newReportEngine(cfg config.Config) (report.Engine, error) {
	switch cfg.ReportEngine {
	case config.ReportEngineChromedp:
		return report.NewChromedpEngine(cfg.ReportChromePath, cfg.ReportTimeout), nil
	case config.ReportEngineWkhtmltopdf, "":
		return report.NewWkhtmltopdfEngine(cfg.ReportWkhtmltopdfPath, cfg.ReportTimeout), nil
	default:
		return nil, fmt.Errorf("unknown report engine %q", cfg.ReportEngine)
	}
}

func newCredentialRepository(cfg config.Config, logger *logging.Logger) (account.CredentialRepository, *sqlx.DB, error) {
	if cfg.CredentialStore == config.CredentialStorePostgres {
		db, err := OpenDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewCredentialRepository(db), db, nil
	}

	hash := cfg.AuthPasswordHash
	if hash == "" && cfg.AppEnv == config.EnvDev && cfg.AuthDevPassword != "" {
		generated, err := static.HashPassword(cfg.AuthDevPassword)
		if err != nil {
			return nil, nil, err
		}
		hash = generated
		logger.Warn("using development password for analyst login", "username", cfg.AuthUsername)
	}
	if hash == "" {
		return nil, nil, fmt.Errorf("no password hash configured for %q", cfg.AuthUsername)
	}
	return static.NewRepository(cfg.AuthUsername, hash), nil, nil
}

// OpenDB connects to the credential database with query tracing.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryResult)
	db, err := otelsqlx.Open(
		"postgres",
		dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", RedactDBURL(dsn), err)
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	}
	return db, nil
}

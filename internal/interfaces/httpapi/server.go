package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type RouterConfig struct {
	Handler            *Handler
	Verifier           SessionVerifier
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// Observer receives per-route request timings.
	Observer RouteObserver
	// Web serves the HTML pages under "/".
	Web http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.Metrics)
	registerPublicRoutes(mux, cfg.Handler)
	registerAuthorizedRoutes(mux, cfg.Handler, cfg.Verifier)
	if cfg.Web != nil {
		mux.Handle("/", cfg.Web)
	}

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, observeRoutes(cfg.Observer, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

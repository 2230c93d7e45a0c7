package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

type HandlerConfig struct {
	Competitions *usecase.CompetitionService
	Standings    *usecase.StandingService
	Scorers      *usecase.ScorerService
	Teams        *usecase.TeamService
	Forwards     *usecase.ForwardService
	Overview     *usecase.OverviewService
	Reports      *usecase.ReportService
	Auth         *usecase.AuthService
	CookieSecure bool
	Logger       *logging.Logger
}

type Handler struct {
	competitionService *usecase.CompetitionService
	standingService    *usecase.StandingService
	scorerService      *usecase.ScorerService
	teamService        *usecase.TeamService
	forwardService     *usecase.ForwardService
	overviewService    *usecase.OverviewService
	reportService      *usecase.ReportService
	authService        *usecase.AuthService
	cookieSecure       bool
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		competitionService: cfg.Competitions,
		standingService:    cfg.Standings,
		scorerService:      cfg.Scorers,
		teamService:        cfg.Teams,
		forwardService:     cfg.Forwards,
		overviewService:    cfg.Overview,
		reportService:      cfg.Reports,
		authService:        cfg.Auth,
		cookieSecure:       cfg.CookieSecure,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func competitionIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("competitionID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: competition id must be a positive integer", usecase.ErrInvalidInput)
	}
	return id, nil
}

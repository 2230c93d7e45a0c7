package footballdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/domain/team"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
	"github.com/riskibarqy/football-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

const (
	defaultBaseURL = "https://api.football-data.org"
	defaultTimeout = 15 * time.Second
	authHeader     = "X-Auth-Token"
	maxBodyBytes   = 8 << 20
	userAgent      = "football-dashboard"
)

// ErrRequestFailed marks every non-2xx answer and transport failure.
var ErrRequestFailed = crerr.New("football-data request failed")

var errTransient = crerr.New("football-data transient failure")

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveProviderRequest(endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient           *fasthttp.Client
	BaseURL              string
	APIKey               string
	Timeout              time.Duration
	MaxRetries           int
	ExcludedCompetitions []string
	Logger               *logging.Logger
	Observer             RequestObserver
	CircuitBreaker       resilience.CircuitBreakerConfig
}

// Client reads competitions, standings, scorers and teams from the
// football-data.org v4 API.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	excluded   map[string]struct{}
	logger     *logging.Logger
	observer   RequestObserver
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodyBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	excluded := make(map[string]struct{}, len(cfg.ExcludedCompetitions))
	for _, name := range cfg.ExcludedCompetitions {
		if name = strings.TrimSpace(name); name != "" {
			excluded[name] = struct{}{}
		}
	}

	clientLogger := logger.Named("footballdata")
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			clientLogger.Warn("football-data circuit breaker changed state", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		excluded:   excluded,
		logger:     clientLogger,
		observer:   cfg.Observer,
		breaker:    resilience.FromConfig(breakerCfg),
	}
}

func (c *Client) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	var payload competitionsEnvelope
	if err := c.doJSON(ctx, "competitions", "/v4/competitions", &payload); err != nil {
		return nil, err
	}

	out := make([]competition.Competition, 0, len(payload.Competitions))
	for _, item := range payload.Competitions {
		if _, skip := c.excluded[strings.TrimSpace(item.Name)]; skip {
			continue
		}
		comp := item.toDomain()
		if err := comp.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skip malformed competition", "competition_id", comp.ID, "error", err)
			continue
		}
		out = append(out, comp)
	}
	return out, nil
}

func (c *Client) GetStandings(ctx context.Context, competitionID int64) (standing.Table, error) {
	var payload standingsEnvelope
	if err := c.doJSON(ctx, "standings", competitionPath(competitionID, "standings"), &payload); err != nil {
		return standing.Table{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) ListScorers(ctx context.Context, competitionID int64) ([]scorer.Scorer, error) {
	var payload scorersEnvelope
	if err := c.doJSON(ctx, "scorers", competitionPath(competitionID, "scorers"), &payload); err != nil {
		return nil, err
	}

	out := make([]scorer.Scorer, 0, len(payload.Scorers))
	for _, item := range payload.Scorers {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func (c *Client) ListTeams(ctx context.Context, competitionID int64) ([]team.Team, error) {
	var payload teamsEnvelope
	if err := c.doJSON(ctx, "teams", competitionPath(competitionID, "teams"), &payload); err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(payload.Teams))
	for _, item := range payload.Teams {
		out = append(out, item.toDomain())
	}
	return out, nil
}

func competitionPath(competitionID int64, resource string) string {
	return "/v4/competitions/" + strconv.FormatInt(competitionID, 10) + "/" + resource
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
		return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	started := time.Now()
	out, err, _ := c.flight.DoContext(ctx, path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+path)
		if reqErr != nil && crerr.Is(reqErr, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return raw, reqErr
	})
	if err != nil {
		c.observe(endpoint, "error", started)
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		c.observe(endpoint, "error", started)
		return crerr.Newf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		c.observe(endpoint, "decode_error", started)
		return crerr.Wrapf(ErrRequestFailed, "decode %s payload: %v", endpoint, err)
	}

	c.observe(endpoint, "ok", started)
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, crerr.Wrapf(ErrRequestFailed, "request cancelled: %v", err)
		}

		raw, status, err := c.send(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Wrapf(ErrRequestFailed, "send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey)), errTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Wrapf(ErrRequestFailed, "provider status=%d body=%s", status, abbreviateBody(raw)), errTransient)
		default:
			lastErr = crerr.Wrapf(ErrRequestFailed, "provider status=%d body=%s", status, abbreviateBody(raw))
			c.logger.WarnContext(ctx, "football-data request rejected", "url", fullURL, "status", status)
			return nil, lastErr
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrapf(ErrRequestFailed, "request cancelled: %v", ctx.Err())
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// send performs one GET. The body is copied because fasthttp reuses response buffers.
func (c *Client) send(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func (c *Client) observe(endpoint, outcome string, started time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveProviderRequest(endpoint, outcome, time.Since(started))
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

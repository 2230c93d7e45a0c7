package web

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const defaultFooter = "Datos proporcionados por [football-data.org](https://www.football-data.org). " +
	"Valoraciones de delanteros a partir del fichero CSV local."

const csrfFieldName = "csrf_token"

type Config struct {
	Competitions *usecase.CompetitionService
	Standings    *usecase.StandingService
	Scorers      *usecase.ScorerService
	Teams        *usecase.TeamService
	Forwards     *usecase.ForwardService
	Reports      *usecase.ReportService
	Auth         *usecase.AuthService
	Charts       usecase.ChartRenderer

	CookieSecure bool
	CSRFEnabled  bool
	// CSRFAuthKey should be 32 bytes. Other lengths are hashed; an empty key
	// gets a random one, which invalidates forms on restart.
	CSRFAuthKey string
	// FooterMarkdown is rendered with goldmark; raw HTML is escaped.
	FooterMarkdown string
	Logger         *logging.Logger
}

// Server renders the analyst pages.
type Server struct {
	competitions *usecase.CompetitionService
	standings    *usecase.StandingService
	scorers      *usecase.ScorerService
	teams        *usecase.TeamService
	forwards     *usecase.ForwardService
	reports      *usecase.ReportService
	auth         *usecase.AuthService
	charts       usecase.ChartRenderer
	cookieSecure bool
	footer       template.HTML
	pages        map[string]*template.Template
	logger       *logging.Logger
}

var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// New builds the page handler. Templates are parsed once here.
func New(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	footerSource := cfg.FooterMarkdown
	if footerSource == "" {
		footerSource = defaultFooter
	}
	footer, err := renderMarkdown(footerSource)
	if err != nil {
		return nil, err
	}

	s := &Server{
		competitions: cfg.Competitions,
		standings:    cfg.Standings,
		scorers:      cfg.Scorers,
		teams:        cfg.Teams,
		forwards:     cfg.Forwards,
		reports:      cfg.Reports,
		auth:         cfg.Auth,
		charts:       cfg.Charts,
		cookieSecure: cfg.CookieSecure,
		footer:       footer,
		pages:        pages,
		logger:       logger.Named("web"),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	if !cfg.CSRFEnabled {
		return mux, nil
	}

	key, err := csrfKey(cfg.CSRFAuthKey)
	if err != nil {
		return nil, err
	}
	protect := csrf.Protect(key,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfFieldName),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)),
	)
	protected := protect(mux)
	if cfg.CookieSecure {
		return protected, nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	}), nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /login", s.loginForm)
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("POST /logout", s.logout)

	mux.Handle("GET /{$}", s.requireSession(http.HandlerFunc(s.index)))
	mux.Handle("GET /standings", s.requireSession(http.HandlerFunc(s.standingsPage)))
	mux.Handle("GET /scorers", s.requireSession(http.HandlerFunc(s.scorersPage)))
	mux.Handle("GET /teams", s.requireSession(http.HandlerFunc(s.teamsPage)))
	mux.Handle("GET /forwards", s.requireSession(http.HandlerFunc(s.forwardsPage)))
	mux.Handle("POST /export/{kind}", s.requireSession(http.HandlerFunc(s.export)))
	mux.Handle("GET /charts/{file}", s.requireSession(http.HandlerFunc(s.chart)))
}

func (s *Server) csrfFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
}

func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(source), &buf); err != nil {
		return "", crerr.Wrap(err, "render footer markdown")
	}
	return template.HTML(buf.String()), nil
}

func csrfKey(raw string) ([]byte, error) {
	switch {
	case len(raw) == 32:
		return []byte(raw), nil
	case raw != "":
		sum := sha256.Sum256([]byte(raw))
		return sum[:], nil
	default:
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, crerr.Wrap(err, "generate csrf key")
		}
		return key, nil
	}
}

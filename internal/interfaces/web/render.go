package web

import (
	"html/template"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/gorilla/csrf"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

var pageNames = []string{"login", "standings", "scorers", "teams", "forwards"}

type navItem struct {
	Module string
	Label  string
	Path   string
}

var modules = []navItem{
	{Module: "standings", Label: "Clasificación", Path: "/standings"},
	{Module: "scorers", Label: "Goleadores", Path: "/scorers"},
	{Module: "teams", Label: "Equipos", Path: "/teams"},
	{Module: "forwards", Label: "Delanteros centro", Path: "/forwards"},
}

// page is the data every template receives. Data holds the module view.
type page struct {
	Title         string
	Module        string
	Nav           []navItem
	Session       account.Session
	LoggedIn      bool
	Competitions  []competition.Competition
	CompetitionID int64
	Notices       []usecase.Notice
	CSRFField     template.HTML
	Footer        template.HTML
	Error         string
	Data          any
}

var templateFuncs = template.FuncMap{
	"noticeClass": func(level usecase.NoticeLevel) string {
		if level == usecase.NoticeWarning {
			return "notice notice-warning"
		}
		return "notice notice-error"
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/table.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, crerr.Wrapf(err, "parse page %s", name)
		}
		pages[name] = tpl
	}
	return pages, nil
}

func (s *Server) newPage(r *http.Request, module, title string) page {
	p := page{
		Title:     title,
		Module:    module,
		Nav:       modules,
		CSRFField: csrf.TemplateField(r),
		Footer:    s.footer,
	}
	if session, ok := account.SessionFromContext(r.Context()); ok {
		p.Session = session
		p.LoggedIn = true
	}
	return p
}

// render executes into a pooled buffer so a template error never leaves a
// half written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	tpl, ok := s.pages[name]
	if !ok {
		s.logger.ErrorContext(r.Context(), "unknown page template", "page", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := tpl.Execute(buf, data); err != nil {
		s.logger.ErrorContext(r.Context(), "render page failed", "page", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

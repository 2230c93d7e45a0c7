package web

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

type standingsData struct {
	View     usecase.StandingsView
	Table    report.Table
	ChartURL string
}

type scorersData struct {
	View     usecase.ScorersView
	Table    report.Table
	ChartURL string
}

type teamsData struct {
	View  usecase.SquadView
	Table report.Table
}

type forwardsData struct {
	View  usecase.ForwardsView
	Table report.Table
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.auth.SessionFromToken(r.Context(), httpapi.SessionToken(r))
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(account.WithSession(r.Context(), session)))
	})
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/standings", http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.auth.SessionFromToken(r.Context(), httpapi.SessionToken(r)); err == nil {
		http.Redirect(w, r, "/standings", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", s.newPage(r, "login", "Iniciar sesión"))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		p := s.newPage(r, "login", "Iniciar sesión")
		p.Error = "Formulario inválido"
		s.render(w, r, http.StatusBadRequest, "login", p)
		return
	}

	username := r.PostFormValue("username")
	session, err := s.auth.Authenticate(ctx, username, r.PostFormValue("password"))
	if err != nil {
		s.logger.WarnContext(ctx, "login failed", "username", username, "error", err)
		p := s.newPage(r, "login", "Iniciar sesión")
		status := http.StatusUnauthorized
		p.Error = "Credenciales incorrectas"
		if !errors.Is(err, usecase.ErrUnauthorized) {
			status = http.StatusServiceUnavailable
			p.Error = "No se pudieron verificar las credenciales"
		}
		s.render(w, r, status, "login", p)
		return
	}

	httpapi.SetSessionCookie(w, session, s.cookieSecure)
	http.Redirect(w, r, "/standings", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context(), httpapi.SessionToken(r))
	httpapi.ClearSessionCookie(w, s.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// selectCompetition fills the competition selector. An unknown or missing
// id falls back to the first competition.
func (s *Server) selectCompetition(r *http.Request, p *page) (competition.Competition, bool) {
	id, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("competition")), 10, 64)
	selected, list, ok := s.competitions.Select(r.Context(), id)
	if !ok && len(list.Items) > 0 {
		selected, ok = list.Items[0], true
	}
	p.Competitions = list.Items
	p.Notices = append(p.Notices, list.Notices...)
	if ok {
		p.CompetitionID = selected.ID
	}
	return selected, ok
}

func (s *Server) standingsPage(w http.ResponseWriter, r *http.Request) {
	s.showStandings(w, r, http.StatusOK, nil)
}

func (s *Server) showStandings(w http.ResponseWriter, r *http.Request, status int, extra []usecase.Notice) {
	p := s.newPage(r, "standings", "Clasificación")
	if selected, ok := s.selectCompetition(r, &p); ok {
		view, err := s.standings.Get(r.Context(), selected.ID)
		if err != nil {
			p.Notices = append(p.Notices, failureNotice(err))
		}
		p.Notices = append(p.Notices, view.Notices...)
		data := standingsData{View: view, Table: usecase.StandingsTable(view.Entries)}
		if len(view.Entries) > 0 && s.charts != nil {
			data.ChartURL = "/charts/standings.png?competition=" + strconv.FormatInt(selected.ID, 10)
		}
		p.Data = data
	}
	p.Notices = appendUnique(p.Notices, extra...)
	s.render(w, r, status, "standings", p)
}

func (s *Server) scorersPage(w http.ResponseWriter, r *http.Request) {
	s.showScorers(w, r, http.StatusOK, nil)
}

func (s *Server) showScorers(w http.ResponseWriter, r *http.Request, status int, extra []usecase.Notice) {
	p := s.newPage(r, "scorers", "Goleadores")
	if selected, ok := s.selectCompetition(r, &p); ok {
		view, err := s.scorers.List(r.Context(), selected.ID)
		if err != nil {
			p.Notices = append(p.Notices, failureNotice(err))
		}
		p.Notices = append(p.Notices, view.Notices...)
		data := scorersData{View: view, Table: usecase.ScorersTable(view.Scorers)}
		if len(view.Scorers) > 0 && s.charts != nil {
			data.ChartURL = "/charts/scorers.png?competition=" + strconv.FormatInt(selected.ID, 10)
		}
		p.Data = data
	}
	p.Notices = appendUnique(p.Notices, extra...)
	s.render(w, r, status, "scorers", p)
}

func (s *Server) teamsPage(w http.ResponseWriter, r *http.Request) {
	s.showTeams(w, r, http.StatusOK, nil)
}

func (s *Server) showTeams(w http.ResponseWriter, r *http.Request, status int, extra []usecase.Notice) {
	p := s.newPage(r, "teams", "Equipos")
	if selected, ok := s.selectCompetition(r, &p); ok {
		teamRef := strings.TrimSpace(r.FormValue("team"))
		view, err := s.teams.GetSquad(r.Context(), selected.ID, teamRef)
		if errors.Is(err, usecase.ErrNotFound) {
			// Keep the selector usable and fall back to the first team.
			p.Notices = append(p.Notices, usecase.Notice{Level: usecase.NoticeWarning, Message: "Equipo no encontrado: " + teamRef})
			view, err = s.teams.GetSquad(r.Context(), selected.ID, "")
		}
		if err != nil {
			p.Notices = append(p.Notices, failureNotice(err))
		}
		p.Notices = append(p.Notices, view.Notices...)
		p.Data = teamsData{View: view, Table: usecase.SquadTable(view.Players)}
	}
	p.Notices = appendUnique(p.Notices, extra...)
	s.render(w, r, status, "teams", p)
}

func (s *Server) forwardsPage(w http.ResponseWriter, r *http.Request) {
	s.showForwards(w, r, http.StatusOK, nil)
}

func (s *Server) showForwards(w http.ResponseWriter, r *http.Request, status int, extra []usecase.Notice) {
	p := s.newPage(r, "forwards", "Análisis de Delanteros Centro")
	view := s.forwards.List(r.Context(), r.FormValue("league"))
	p.Notices = append(p.Notices, view.Notices...)
	p.Notices = appendUnique(p.Notices, extra...)
	p.Data = forwardsData{View: view, Table: usecase.ForwardsTable(view.Rows)}
	s.render(w, r, status, "forwards", p)
}

// export downloads the PDF of a module. A failed export re-renders the
// module page with the reason and no download.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := report.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	competitionID, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("competition")), 10, 64)
	result, err := s.reports.Export(ctx, kind, competitionID, r.PostFormValue("team"), r.PostFormValue("league"))
	var notices []usecase.Notice
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "export failed", "kind", kind, "error", err)
		notices = append(notices, failureNotice(err))
	case result.OK:
		err := httpapi.ServeReport(w, r, result)
		if err == nil {
			return
		}
		s.logger.ErrorContext(ctx, "serve report failed", "kind", kind, "path", result.Path, "error", err)
		notices = append(notices, usecase.Notice{Level: usecase.NoticeError, Message: "Error al generar PDF"})
	case len(result.Notices) == 0:
		notices = append(notices, usecase.Notice{Level: usecase.NoticeError, Message: "Error al generar PDF"})
	default:
		notices = result.Notices
	}

	status := http.StatusUnprocessableEntity
	switch kind {
	case report.KindStandings:
		s.showStandings(w, r, status, notices)
	case report.KindScorers:
		s.showScorers(w, r, status, notices)
	case report.KindTeam:
		s.showTeams(w, r, status, notices)
	case report.KindForwards:
		s.showForwards(w, r, status, notices)
	}
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.charts == nil {
		http.NotFound(w, r)
		return
	}
	competitionID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("competition")), 10, 64)
	if err != nil || competitionID <= 0 {
		http.Error(w, "competition is required", http.StatusBadRequest)
		return
	}

	var png []byte
	switch r.PathValue("file") {
	case "standings.png":
		view, err := s.standings.Get(ctx, competitionID)
		if err != nil || len(view.Entries) == 0 {
			http.NotFound(w, r)
			return
		}
		png, err = s.charts.GoalsBalance(view.Entries)
		if err != nil {
			s.logger.WarnContext(ctx, "draw chart failed", "chart", "standings", "error", err)
			http.Error(w, "chart unavailable", http.StatusInternalServerError)
			return
		}
	case "scorers.png":
		view, err := s.scorers.List(ctx, competitionID)
		if err != nil || len(view.Scorers) == 0 {
			http.NotFound(w, r)
			return
		}
		png, err = s.charts.GoalsVsAssists(view.Scorers)
		if err != nil {
			s.logger.WarnContext(ctx, "draw chart failed", "chart", "scorers", "error", err)
			http.Error(w, "chart unavailable", http.StatusInternalServerError)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(png)
}

func failureNotice(err error) usecase.Notice {
	return usecase.Notice{Level: usecase.NoticeError, Message: err.Error()}
}

// appendUnique skips notices the page already shows, such as the data
// notices an export repeats.
func appendUnique(notices []usecase.Notice, extra ...usecase.Notice) []usecase.Notice {
	for _, n := range extra {
		if !slices.Contains(notices, n) {
			notices = append(notices, n)
		}
	}
	return notices
}

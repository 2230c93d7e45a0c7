package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/domain/report"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

// DocumentRenderer turns a report document into a PDF at outputPath.
type DocumentRenderer interface {
	Render(ctx context.Context, doc report.Document, outputPath string) error
}

type ChartRenderer interface {
	GoalsBalance(entries []standing.Entry) ([]byte, error)
	GoalsVsAssists(scorers []scorer.Scorer) ([]byte, error)
}

type ReportObserver interface {
	ObserveReportRender(kind, outcome string, elapsed time.Duration)
}

// ExportResult is the outcome of one export. Path and DownloadName are set only when OK.
type ExportResult struct {
	OK           bool
	Kind         report.Kind
	Path         string
	DownloadName string
	Notices      []Notice
}

type ReportServiceConfig struct {
	Competitions *CompetitionService
	Standings    *StandingService
	Scorers      *ScorerService
	Teams        *TeamService
	Forwards     *ForwardService
	Renderer     DocumentRenderer
	Charts       ChartRenderer
	OutputDir    string
	Observer     ReportObserver
	Logger       *logging.Logger
	Now          func() time.Time
}

type ReportService struct {
	competitions *CompetitionService
	standings    *StandingService
	scorers      *ScorerService
	teams        *TeamService
	forwards     *ForwardService
	renderer     DocumentRenderer
	charts       ChartRenderer
	outputDir    string
	observer     ReportObserver
	logger       *logging.Logger
	now          func() time.Time
}

func NewReportService(cfg ReportServiceConfig) *ReportService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &ReportService{
		competitions: cfg.Competitions,
		standings:    cfg.Standings,
		scorers:      cfg.Scorers,
		teams:        cfg.Teams,
		forwards:     cfg.Forwards,
		renderer:     cfg.Renderer,
		charts:       cfg.Charts,
		outputDir:    outputDir,
		observer:     cfg.Observer,
		logger:       loggerOrDefault(cfg.Logger),
		now:          now,
	}
}

// Export dispatches on kind. league is used by forwards only.
func (s *ReportService) Export(ctx context.Context, kind report.Kind, competitionID int64, teamRef, league string) (ExportResult, error) {
	switch kind {
	case report.KindStandings:
		return s.ExportStandings(ctx, competitionID)
	case report.KindScorers:
		return s.ExportScorers(ctx, competitionID)
	case report.KindTeam:
		return s.ExportTeam(ctx, competitionID, teamRef)
	case report.KindForwards:
		return s.ExportForwards(ctx, league), nil
	default:
		return ExportResult{}, fmt.Errorf("%w: unknown report kind %q", ErrInvalidInput, kind)
	}
}

func (s *ReportService) ExportStandings(ctx context.Context, competitionID int64) (ExportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ExportStandings", competitionAttr(competitionID))
	defer span.End()

	view, err := s.standings.Get(ctx, competitionID)
	if err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{Kind: report.KindStandings, Notices: view.Notices}
	if len(view.Entries) == 0 {
		return withNothingToExport(result), nil
	}

	label := view.Competition.Name
	if label == "" {
		label = s.competitionLabel(ctx, competitionID)
	}
	doc := report.Document{
		Kind:  report.KindStandings,
		Title: "Clasificación " + label,
		Table: StandingsTable(view.Entries),
	}
	doc.ChartPNG = s.chart(ctx, report.KindStandings, func() ([]byte, error) {
		return s.charts.GoalsBalance(view.Entries)
	})
	return s.render(ctx, result, doc, label), nil
}

func (s *ReportService) ExportScorers(ctx context.Context, competitionID int64) (ExportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ExportScorers", competitionAttr(competitionID))
	defer span.End()

	view, err := s.scorers.List(ctx, competitionID)
	if err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{Kind: report.KindScorers, Notices: view.Notices}
	if len(view.Scorers) == 0 {
		return withNothingToExport(result), nil
	}

	label := s.competitionLabel(ctx, competitionID)
	doc := report.Document{
		Kind:  report.KindScorers,
		Title: "Goleadores " + label,
		Table: ScorersTable(view.Scorers),
	}
	doc.ChartPNG = s.chart(ctx, report.KindScorers, func() ([]byte, error) {
		return s.charts.GoalsVsAssists(view.Scorers)
	})
	return s.render(ctx, result, doc, label), nil
}

func (s *ReportService) ExportTeam(ctx context.Context, competitionID int64, teamRef string) (ExportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ExportTeam", competitionAttr(competitionID))
	defer span.End()

	view, err := s.teams.GetSquad(ctx, competitionID, teamRef)
	if err != nil {
		return ExportResult{}, err
	}
	result := ExportResult{Kind: report.KindTeam, Notices: view.Notices}
	if !view.Found || len(view.Players) == 0 {
		return withNothingToExport(result), nil
	}

	doc := report.Document{
		Kind:  report.KindTeam,
		Title: "Equipo " + view.Team.Name,
		Table: SquadTable(view.Players),
	}
	return s.render(ctx, result, doc, view.Team.Name), nil
}

func (s *ReportService) ExportForwards(ctx context.Context, league string) ExportResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ExportForwards")
	defer span.End()

	view := s.forwards.List(ctx, league)
	result := ExportResult{Kind: report.KindForwards, Notices: view.Notices}
	if len(view.Rows) == 0 {
		return withNothingToExport(result)
	}

	doc := report.Document{
		Kind:  report.KindForwards,
		Title: "Análisis de Delanteros",
		Table: ForwardsTable(view.Rows),
	}
	return s.render(ctx, result, doc, view.SelectedLeague)
}

func (s *ReportService) render(ctx context.Context, result ExportResult, doc report.Document, label string) ExportResult {
	doc.GeneratedAt = s.now()
	outputPath := filepath.Join(s.outputDir, doc.Kind.FileName())

	started := time.Now()
	err := s.renderer.Render(ctx, doc, outputPath)
	if s.observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.observer.ObserveReportRender(string(doc.Kind), outcome, time.Since(started))
	}
	if err != nil {
		result.Notices = append(result.Notices, degrade(ctx, s.logger, "reports", err, "Error al generar PDF", "kind", string(doc.Kind)))
		return result
	}

	result.OK = true
	result.Path = outputPath
	result.DownloadName = doc.Kind.DownloadName(label)
	return result
}

// chart returns nil when the chart cannot be drawn; the report still renders.
func (s *ReportService) chart(ctx context.Context, kind report.Kind, draw func() ([]byte, error)) []byte {
	if s.charts == nil {
		return nil
	}
	png, err := draw()
	if err != nil {
		s.logger.WarnContext(ctx, "report chart skipped", "kind", string(kind), "error", err)
		return nil
	}
	return png
}

func (s *ReportService) competitionLabel(ctx context.Context, competitionID int64) string {
	if s.competitions != nil {
		selected, _, ok := s.competitions.Select(ctx, competitionID)
		if ok && selected.Name != "" {
			return selected.Name
		}
	}
	return strconv.FormatInt(competitionID, 10)
}

func withNothingToExport(result ExportResult) ExportResult {
	if !HasErrors(result.Notices) {
		result.Notices = append(result.Notices, warningNotice("No hay datos para exportar"))
	}
	return result
}

func StandingsTable(entries []standing.Entry) report.Table {
	table := report.Table{Columns: []string{"Pos", "Equipo", "PJ", "G", "E", "P", "GF", "GC", "DG", "PTS"}}
	for _, e := range entries {
		table.Rows = append(table.Rows, []report.Cell{
			{Text: strconv.Itoa(e.Position)},
			{Text: e.Team.DisplayName(), ImageURL: e.Team.CrestURL},
			{Text: strconv.Itoa(e.Played)},
			{Text: strconv.Itoa(e.Won)},
			{Text: strconv.Itoa(e.Draw)},
			{Text: strconv.Itoa(e.Lost)},
			{Text: strconv.Itoa(e.GoalsFor)},
			{Text: strconv.Itoa(e.GoalsAgainst)},
			{Text: strconv.Itoa(e.GoalDifference)},
			{Text: strconv.Itoa(e.Points)},
		})
	}
	return table
}

func ScorersTable(items []scorer.Scorer) report.Table {
	table := report.Table{Columns: []string{"Jugador", "Equipo", "Goles", "Asistencias", "Partidos", "Goles/Partido"}}
	for _, item := range items {
		table.Rows = append(table.Rows, report.TextRow(
			item.PlayerName,
			item.TeamName,
			strconv.Itoa(item.Goals),
			strconv.Itoa(item.Assists),
			strconv.Itoa(item.PlayedMatches),
			strconv.FormatFloat(item.GoalsPerMatch(), 'f', 2, 64),
		))
	}
	return table
}

func SquadTable(players []PlayerRow) report.Table {
	table := report.Table{Columns: []string{"Nombre", "Posición", "Nacionalidad", "Fecha Nacimiento", "Edad"}}
	for _, p := range players {
		table.Rows = append(table.Rows, report.TextRow(p.Name, p.Position, p.Nationality, valueOrNA(p.DateOfBirth), FormatAge(p.Age)))
	}
	return table
}

func ForwardsTable(rows []forward.Rating) report.Table {
	table := report.Table{Columns: append([]string(nil), forward.RequiredColumns...)}
	for _, row := range rows {
		table.Rows = append(table.Rows, report.TextRow(row.Name, row.Team, row.League, row.ContractEnd, row.Rank))
	}
	return table
}

// FormatAge renders a missing age as "N/A".
func FormatAge(age *int) string {
	if age == nil {
		return "N/A"
	}
	return strconv.Itoa(*age)
}

func valueOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

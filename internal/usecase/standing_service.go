package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type StandingsView struct {
	CompetitionID int64
	Competition   competition.Competition
	Season        standing.Season
	Entries       []standing.Entry
	Summary       standing.Summary
	HasSummary    bool
	Notices       []Notice
}

type StandingService struct {
	repo   standing.Repository
	logger *logging.Logger
}

func NewStandingService(repo standing.Repository, logger *logging.Logger) *StandingService {
	return &StandingService{repo: repo, logger: loggerOrDefault(logger)}
}

func (s *StandingService) Get(ctx context.Context, competitionID int64) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Get", competitionAttr(competitionID))
	defer span.End()

	if competitionID <= 0 {
		return StandingsView{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	view := StandingsView{CompetitionID: competitionID, Entries: []standing.Entry{}}
	table, err := s.repo.GetStandings(ctx, competitionID)
	if err != nil {
		view.Notices = append(view.Notices, degrade(ctx, s.logger, "standings", err, "Error al obtener clasificación", "competition_id", competitionID))
		return view, nil
	}

	view.Competition = table.Competition
	view.Season = table.Season
	if table.Entries != nil {
		view.Entries = table.Entries
	}
	view.Summary, view.HasSummary = standing.Summarize(view.Entries)
	return view, nil
}

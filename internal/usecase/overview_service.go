package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

// OverviewView is the landing panel of one competition.
type OverviewView struct {
	CompetitionID int64
	Standings     StandingsView
	Scorers       ScorersView
	Teams         TeamsView
}

// Notices flattens the notices of every section.
func (v OverviewView) Notices() []Notice {
	out := make([]Notice, 0, len(v.Standings.Notices)+len(v.Scorers.Notices)+len(v.Teams.Notices))
	out = append(out, v.Standings.Notices...)
	out = append(out, v.Scorers.Notices...)
	return append(out, v.Teams.Notices...)
}

type OverviewService struct {
	standings *StandingService
	scorers   *ScorerService
	teams     *TeamService
}

func NewOverviewService(standings *StandingService, scorers *ScorerService, teams *TeamService) *OverviewService {
	return &OverviewService{standings: standings, scorers: scorers, teams: teams}
}

// Get loads standings, scorers and teams concurrently. Provider failures show
// up as notices in the sections; only invalid input is returned as an error.
func (s *OverviewService) Get(ctx context.Context, competitionID int64) (OverviewView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OverviewService.Get", competitionAttr(competitionID))
	defer span.End()

	if competitionID <= 0 {
		return OverviewView{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	view := OverviewView{CompetitionID: competitionID}
	p := pool.New().WithMaxGoroutines(3).WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		view.Standings, err = s.standings.Get(ctx, competitionID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		view.Scorers, err = s.scorers.List(ctx, competitionID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		view.Teams, err = s.teams.List(ctx, competitionID)
		return err
	})
	if err := p.Wait(); err != nil {
		return OverviewView{}, err
	}
	return view, nil
}

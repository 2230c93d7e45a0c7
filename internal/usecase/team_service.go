package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/football-dashboard/internal/domain/team"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type TeamsView struct {
	CompetitionID int64
	Teams         []team.Team
	Notices       []Notice
}

// PlayerRow is a squad member as displayed; Age is nil when the birth date is unusable.
type PlayerRow struct {
	Name        string
	Position    string
	Nationality string
	DateOfBirth string
	Age         *int
}

type SquadView struct {
	CompetitionID int64
	Teams         []team.Team
	Team          team.Team
	Found         bool
	Players       []PlayerRow
	Notices       []Notice
}

type TeamService struct {
	repo   team.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewTeamService(repo team.Repository, logger *logging.Logger) *TeamService {
	return &TeamService{repo: repo, logger: loggerOrDefault(logger), now: time.Now}
}

func (s *TeamService) List(ctx context.Context, competitionID int64) (TeamsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List", competitionAttr(competitionID))
	defer span.End()

	if competitionID <= 0 {
		return TeamsView{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	view := TeamsView{CompetitionID: competitionID, Teams: []team.Team{}}
	items, err := s.repo.ListTeams(ctx, competitionID)
	if err != nil {
		view.Notices = append(view.Notices, degrade(ctx, s.logger, "teams", err, "Error al obtener equipos", "competition_id", competitionID))
		return view, nil
	}
	if items != nil {
		view.Teams = items
	}
	return view, nil
}

// GetSquad selects a team by ID or exact name (empty ref picks the first team)
// and builds its roster rows. An unknown ref on a healthy list is ErrNotFound.
func (s *TeamService) GetSquad(ctx context.Context, competitionID int64, teamRef string) (SquadView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetSquad", competitionAttr(competitionID))
	defer span.End()

	teams, err := s.List(ctx, competitionID)
	if err != nil {
		return SquadView{}, err
	}

	view := SquadView{
		CompetitionID: competitionID,
		Teams:         teams.Teams,
		Players:       []PlayerRow{},
		Notices:       teams.Notices,
	}
	if len(teams.Notices) > 0 || len(teams.Teams) == 0 {
		return view, nil
	}

	selected, ok := team.Find(teams.Teams, teamRef)
	if !ok {
		return SquadView{}, fmt.Errorf("%w: team=%s", ErrNotFound, strings.TrimSpace(teamRef))
	}
	view.Team = selected
	view.Found = true
	view.Players = squadRows(selected.Squad, s.now())
	return view, nil
}

func squadRows(squad []team.Player, now time.Time) []PlayerRow {
	rows := make([]PlayerRow, 0, len(squad))
	for _, p := range squad {
		row := PlayerRow{
			Name:        p.Name,
			Position:    p.DisplayPosition(),
			Nationality: p.Nationality,
			DateOfBirth: p.DateOfBirth,
		}
		if age, ok := p.Age(now); ok {
			row.Age = &age
		}
		rows = append(rows, row)
	}
	return rows
}

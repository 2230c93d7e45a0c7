package footballdata

import (
	"strings"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/domain/team"
)

type competitionsEnvelope struct {
	Count        int               `json:"count"`
	Competitions []competitionItem `json:"competitions"`
}

type areaItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type competitionItem struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	Type   string   `json:"type"`
	Emblem string   `json:"emblem"`
	Area   areaItem `json:"area"`
}

func (c competitionItem) toDomain() competition.Competition {
	return competition.Competition{
		ID:        c.ID,
		Code:      c.Code,
		Name:      strings.TrimSpace(c.Name),
		EmblemURL: c.Emblem,
		AreaName:  c.Area.Name,
	}
}

type seasonItem struct {
	ID              int64  `json:"id"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday"`
}

type teamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

type standingsEnvelope struct {
	Competition competitionItem `json:"competition"`
	Season      seasonItem      `json:"season"`
	Standings   []standingGroup `json:"standings"`
}

type standingGroup struct {
	Stage string     `json:"stage"`
	Type  string     `json:"type"`
	Group *string    `json:"group"`
	Table []tableRow `json:"table"`
}

type tableRow struct {
	Position       int     `json:"position"`
	Team           teamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           *string `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// toDomain keeps only the first group, which is the TOTAL table for leagues.
func (e standingsEnvelope) toDomain() standing.Table {
	out := standing.Table{
		Competition: e.Competition.toDomain(),
		Season: standing.Season{
			StartDate:       e.Season.StartDate,
			EndDate:         e.Season.EndDate,
			CurrentMatchday: e.Season.CurrentMatchday,
		},
	}
	if len(e.Standings) == 0 {
		return out
	}

	rows := e.Standings[0].Table
	out.Entries = make([]standing.Entry, 0, len(rows))
	for _, row := range rows {
		out.Entries = append(out.Entries, standing.Entry{
			Position: row.Position,
			Team: standing.Team{
				ID:        row.Team.ID,
				Name:      row.Team.Name,
				ShortName: row.Team.ShortName,
				CrestURL:  row.Team.Crest,
			},
			Played:         row.PlayedGames,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
		})
	}
	return out
}

type scorersEnvelope struct {
	Count   int          `json:"count"`
	Scorers []scorerItem `json:"scorers"`
}

type personItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Position    string `json:"position"`
}

type scorerItem struct {
	Player        personItem `json:"player"`
	Team          teamRef    `json:"team"`
	PlayedMatches *int       `json:"playedMatches"`
	Goals         *int       `json:"goals"`
	Assists       *int       `json:"assists"`
	Penalties     *int       `json:"penalties"`
}

func (s scorerItem) toDomain() scorer.Scorer {
	return scorer.Scorer{
		PlayerName:    s.Player.Name,
		TeamName:      s.Team.Name,
		Goals:         intValue(s.Goals),
		Assists:       intValue(s.Assists),
		PlayedMatches: intValue(s.PlayedMatches),
	}
}

type teamsEnvelope struct {
	Count int        `json:"count"`
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	ShortName  string       `json:"shortName"`
	TLA        string       `json:"tla"`
	Crest      string       `json:"crest"`
	Address    string       `json:"address"`
	Website    string       `json:"website"`
	Founded    *int         `json:"founded"`
	ClubColors string       `json:"clubColors"`
	Venue      string       `json:"venue"`
	Squad      []personItem `json:"squad"`
}

func (t teamItem) toDomain() team.Team {
	squad := make([]team.Player, 0, len(t.Squad))
	for _, p := range t.Squad {
		squad = append(squad, team.Player{
			Name:        p.Name,
			Position:    p.Position,
			Nationality: p.Nationality,
			DateOfBirth: p.DateOfBirth,
		})
	}
	return team.Team{
		ID:         t.ID,
		Name:       t.Name,
		ShortName:  t.ShortName,
		CrestURL:   t.Crest,
		Venue:      t.Venue,
		ClubColors: t.ClubColors,
		Address:    t.Address,
		Website:    t.Website,
		Squad:      squad,
	}
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

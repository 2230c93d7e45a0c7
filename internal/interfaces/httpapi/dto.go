package httpapi

import (
	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/domain/team"
	"github.com/riskibarqy/football-dashboard/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=128"`
}

type exportReportRequest struct {
	CompetitionID int64  `json:"competition_id" validate:"gte=0"`
	Team          string `json:"team" validate:"max=128"`
	League        string `json:"league" validate:"max=128"`
}

type sessionDTO struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

type competitionDTO struct {
	ID        int64  `json:"id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	EmblemURL string `json:"emblem_url,omitempty"`
	AreaName  string `json:"area_name,omitempty"`
}

type competitionListDTO struct {
	Items   []competitionDTO `json:"items"`
	Notices []usecase.Notice `json:"notices"`
}

type teamRefDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	CrestURL  string `json:"crest_url,omitempty"`
}

type standingEntryDTO struct {
	Position       int        `json:"position"`
	Team           teamRefDTO `json:"team"`
	Played         int        `json:"played"`
	Won            int        `json:"won"`
	Draw           int        `json:"draw"`
	Lost           int        `json:"lost"`
	GoalsFor       int        `json:"goals_for"`
	GoalsAgainst   int        `json:"goals_against"`
	GoalDifference int        `json:"goal_difference"`
	Points         int        `json:"points"`
}

type seasonDTO struct {
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
	CurrentMatchday *int   `json:"current_matchday,omitempty"`
}

type standingsSummaryDTO struct {
	Teams       int              `json:"teams"`
	PlayedGames int              `json:"played_games"`
	BestAttack  standingEntryDTO `json:"best_attack"`
	BestDefense standingEntryDTO `json:"best_defense"`
}

type standingsDTO struct {
	CompetitionID int64                `json:"competition_id"`
	Competition   *competitionDTO      `json:"competition,omitempty"`
	Season        seasonDTO            `json:"season"`
	Entries       []standingEntryDTO   `json:"entries"`
	Summary       *standingsSummaryDTO `json:"summary,omitempty"`
	Notices       []usecase.Notice     `json:"notices"`
}

type scorerDTO struct {
	PlayerName    string  `json:"player_name"`
	TeamName      string  `json:"team_name"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	PlayedMatches int     `json:"played_matches"`
	GoalsPerMatch float64 `json:"goals_per_match"`
}

type scorersDTO struct {
	CompetitionID int64            `json:"competition_id"`
	Scorers       []scorerDTO      `json:"scorers"`
	Notices       []usecase.Notice `json:"notices"`
}

type teamDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name,omitempty"`
	CrestURL   string `json:"crest_url,omitempty"`
	Venue      string `json:"venue,omitempty"`
	ClubColors string `json:"club_colors,omitempty"`
	Address    string `json:"address,omitempty"`
	Website    string `json:"website,omitempty"`
	SquadSize  int    `json:"squad_size"`
}

type teamsDTO struct {
	CompetitionID int64            `json:"competition_id"`
	Teams         []teamDTO        `json:"teams"`
	Notices       []usecase.Notice `json:"notices"`
}

type playerDTO struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Nationality string `json:"nationality,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Age         *int   `json:"age,omitempty"`
}

type squadDTO struct {
	CompetitionID int64            `json:"competition_id"`
	Team          *teamDTO         `json:"team,omitempty"`
	Players       []playerDTO      `json:"players"`
	Notices       []usecase.Notice `json:"notices"`
}

type overviewDTO struct {
	CompetitionID int64            `json:"competition_id"`
	Standings     standingsDTO     `json:"standings"`
	Scorers       scorersDTO       `json:"scorers"`
	Teams         teamsDTO         `json:"teams"`
	Notices       []usecase.Notice `json:"notices"`
}

type forwardDTO struct {
	Name        string `json:"name"`
	Team        string `json:"team"`
	League      string `json:"league"`
	ContractEnd string `json:"contract_end"`
	Rank        string `json:"rank"`
}

type forwardsDTO struct {
	Leagues        []string         `json:"leagues"`
	SelectedLeague string           `json:"selected_league"`
	Rows           []forwardDTO     `json:"rows"`
	Notices        []usecase.Notice `json:"notices"`
}

type exportFailureDTO struct {
	OK      bool             `json:"ok"`
	Kind    string           `json:"kind"`
	Notices []usecase.Notice `json:"notices"`
}

func noticesOrEmpty(notices []usecase.Notice) []usecase.Notice {
	if notices == nil {
		return []usecase.Notice{}
	}
	return notices
}

func competitionToDTO(v competition.Competition) competitionDTO {
	return competitionDTO{
		ID:        v.ID,
		Code:      v.Code,
		Name:      v.Name,
		EmblemURL: v.EmblemURL,
		AreaName:  v.AreaName,
	}
}

func competitionListToDTO(list usecase.CompetitionList) competitionListDTO {
	items := make([]competitionDTO, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, competitionToDTO(item))
	}
	return competitionListDTO{Items: items, Notices: noticesOrEmpty(list.Notices)}
}

func standingEntryToDTO(v standing.Entry) standingEntryDTO {
	return standingEntryDTO{
		Position: v.Position,
		Team: teamRefDTO{
			ID:        v.Team.ID,
			Name:      v.Team.Name,
			ShortName: v.Team.ShortName,
			CrestURL:  v.Team.CrestURL,
		},
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Points:         v.Points,
	}
}

func standingsToDTO(view usecase.StandingsView) standingsDTO {
	out := standingsDTO{
		CompetitionID: view.CompetitionID,
		Season: seasonDTO{
			StartDate:       view.Season.StartDate,
			EndDate:         view.Season.EndDate,
			CurrentMatchday: view.Season.CurrentMatchday,
		},
		Entries: make([]standingEntryDTO, 0, len(view.Entries)),
		Notices: noticesOrEmpty(view.Notices),
	}
	if view.Competition.ID > 0 {
		c := competitionToDTO(view.Competition)
		out.Competition = &c
	}
	for _, entry := range view.Entries {
		out.Entries = append(out.Entries, standingEntryToDTO(entry))
	}
	if view.HasSummary {
		out.Summary = &standingsSummaryDTO{
			Teams:       view.Summary.Teams,
			PlayedGames: view.Summary.PlayedGames,
			BestAttack:  standingEntryToDTO(view.Summary.BestAttack),
			BestDefense: standingEntryToDTO(view.Summary.BestDefense),
		}
	}
	return out
}

func scorerToDTO(v scorer.Scorer) scorerDTO {
	return scorerDTO{
		PlayerName:    v.PlayerName,
		TeamName:      v.TeamName,
		Goals:         v.Goals,
		Assists:       v.Assists,
		PlayedMatches: v.PlayedMatches,
		GoalsPerMatch: v.GoalsPerMatch(),
	}
}

func scorersToDTO(view usecase.ScorersView) scorersDTO {
	items := make([]scorerDTO, 0, len(view.Scorers))
	for _, item := range view.Scorers {
		items = append(items, scorerToDTO(item))
	}
	return scorersDTO{CompetitionID: view.CompetitionID, Scorers: items, Notices: noticesOrEmpty(view.Notices)}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:         v.ID,
		Name:       v.Name,
		ShortName:  v.ShortName,
		CrestURL:   v.CrestURL,
		Venue:      v.Venue,
		ClubColors: v.ClubColors,
		Address:    v.Address,
		Website:    v.Website,
		SquadSize:  len(v.Squad),
	}
}

func teamsToDTO(view usecase.TeamsView) teamsDTO {
	items := make([]teamDTO, 0, len(view.Teams))
	for _, item := range view.Teams {
		items = append(items, teamToDTO(item))
	}
	return teamsDTO{CompetitionID: view.CompetitionID, Teams: items, Notices: noticesOrEmpty(view.Notices)}
}

func squadToDTO(view usecase.SquadView) squadDTO {
	out := squadDTO{
		CompetitionID: view.CompetitionID,
		Players:       make([]playerDTO, 0, len(view.Players)),
		Notices:       noticesOrEmpty(view.Notices),
	}
	if view.Found {
		t := teamToDTO(view.Team)
		out.Team = &t
	}
	for _, p := range view.Players {
		out.Players = append(out.Players, playerDTO{
			Name:        p.Name,
			Position:    p.Position,
			Nationality: p.Nationality,
			DateOfBirth: p.DateOfBirth,
			Age:         p.Age,
		})
	}
	return out
}

func overviewToDTO(view usecase.OverviewView) overviewDTO {
	return overviewDTO{
		CompetitionID: view.CompetitionID,
		Standings:     standingsToDTO(view.Standings),
		Scorers:       scorersToDTO(view.Scorers),
		Teams:         teamsToDTO(view.Teams),
		Notices:       noticesOrEmpty(view.Notices()),
	}
}

func forwardsToDTO(view usecase.ForwardsView) forwardsDTO {
	rows := make([]forwardDTO, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, forwardToDTO(row))
	}
	leagues := view.Leagues
	if leagues == nil {
		leagues = []string{}
	}
	return forwardsDTO{
		Leagues:        leagues,
		SelectedLeague: view.SelectedLeague,
		Rows:           rows,
		Notices:        noticesOrEmpty(view.Notices),
	}
}

func forwardToDTO(v forward.Rating) forwardDTO {
	return forwardDTO{
		Name:        v.Name,
		Team:        v.Team,
		League:      v.League,
		ContractEnd: v.ContractEnd,
		Rank:        v.Rank,
	}
}

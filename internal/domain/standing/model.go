package standing

import "github.com/riskibarqy/football-dashboard/internal/domain/competition"

// Team is the club reference embedded in a table row.
type Team struct {
	ID        int64
	Name      string
	ShortName string
	CrestURL  string
}

// DisplayName prefers the short name, which is what the dashboard shows.
func (t Team) DisplayName() string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Name
}

// Entry is one row of the TOTAL league table.
type Entry struct {
	Position       int
	Team           Team
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

type Season struct {
	StartDate       string
	EndDate         string
	CurrentMatchday *int
}

func (s Season) StartYear() string {
	return yearOf(s.StartDate)
}

func (s Season) EndYear() string {
	return yearOf(s.EndDate)
}

func yearOf(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// Table is the standings of one competition for the current season.
type Table struct {
	Competition competition.Competition
	Season      Season
	Entries     []Entry
}

// Summary holds the headline numbers shown above the table.
type Summary struct {
	Teams       int
	PlayedGames int
	BestAttack  Entry
	BestDefense Entry
}

// Summarize picks the best attack (most goals for) and best defense (fewest
// goals against); ties keep the higher placed team. ok is false for an empty table.
func Summarize(entries []Entry) (Summary, bool) {
	if len(entries) == 0 {
		return Summary{}, false
	}

	out := Summary{
		Teams:       len(entries),
		PlayedGames: entries[0].Played,
		BestAttack:  entries[0],
		BestDefense: entries[0],
	}
	for _, entry := range entries[1:] {
		if entry.GoalsFor > out.BestAttack.GoalsFor {
			out.BestAttack = entry
		}
		if entry.GoalsAgainst < out.BestDefense.GoalsAgainst {
			out.BestDefense = entry
		}
	}
	return out, true
}

func TotalPoints(entries []Entry) int {
	total := 0
	for _, entry := range entries {
		total += entry.Points
	}
	return total
}

package team

import (
	"strconv"
	"strings"
	"time"
)

const UnknownPosition = "N/A"

// Team is a club registered in a competition, with its squad.
type Team struct {
	ID         int64
	Name       string
	ShortName  string
	CrestURL   string
	Venue      string
	ClubColors string
	Address    string
	Website    string
	Squad      []Player
}

// Player is a squad member.
type Player struct {
	Name        string
	Position    string
	Nationality string
	DateOfBirth string
}

// DisplayPosition maps an empty position to "N/A".
func (p Player) DisplayPosition() string {
	if strings.TrimSpace(p.Position) == "" {
		return UnknownPosition
	}
	return p.Position
}

// Age is the calendar year of now minus the birth year. The birth year is
// the first four characters of DateOfBirth; ok is false when they are not a number.
func (p Player) Age(now time.Time) (int, bool) {
	if len(p.DateOfBirth) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(p.DateOfBirth[:4])
	if err != nil {
		return 0, false
	}
	return now.Year() - year, true
}

// Matches reports whether ref is the team's numeric ID or its exact name.
func (t Team) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id == t.ID {
		return true
	}
	return ref == t.Name
}

// Find returns the team matching ref; an empty ref selects the first team.
func Find(items []Team, ref string) (Team, bool) {
	if len(items) == 0 {
		return Team{}, false
	}
	if strings.TrimSpace(ref) == "" {
		return items[0], true
	}
	for _, item := range items {
		if item.Matches(ref) {
			return item, true
		}
	}
	return Team{}, false
}

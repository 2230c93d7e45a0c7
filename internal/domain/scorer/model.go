package scorer

import "math"

// Scorer is one row of a competition's top scorers list.
type Scorer struct {
	PlayerName    string
	TeamName      string
	Goals         int
	Assists       int
	PlayedMatches int
}

// GoalsPerMatch is rounded half to even at two decimals and is 0 when no
// matches were played.
func (s Scorer) GoalsPerMatch() float64 {
	if s.PlayedMatches <= 0 {
		return 0
	}
	return math.RoundToEven(float64(s.Goals)/float64(s.PlayedMatches)*100) / 100
}

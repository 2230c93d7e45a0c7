package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderer_GoalsBalance(t *testing.T) {
	t.Parallel()

	entries := []standing.Entry{
		{Team: standing.Team{ShortName: "Arsenal"}, GoalsFor: 20, GoalsAgainst: 7},
		{Team: standing.Team{ShortName: "Man City"}, GoalsFor: 22, GoalsAgainst: 10},
		{Team: standing.Team{Name: "Wolverhampton Wanderers FC"}, GoalsFor: 6, GoalsAgainst: 21},
	}

	png, err := NewRenderer().GoalsBalance(entries)
	if err != nil {
		t.Fatalf("GoalsBalance error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderer_GoalsBalanceFullLeague(t *testing.T) {
	t.Parallel()

	names := []string{
		"Arsenal", "Man City", "Liverpool", "Aston Villa", "Tottenham",
		"Chelsea", "Newcastle", "Man United", "West Ham", "Crystal Palace",
		"Brighton Hove", "Bournemouth", "Fulham", "Wolverhampton", "Everton",
		"Brentford", "Nottingham", "Leicester City", "Ipswich Town", "Southampton",
	}
	entries := make([]standing.Entry, 0, len(names))
	for i, name := range names {
		entries = append(entries, standing.Entry{
			Position:     i + 1,
			Team:         standing.Team{ShortName: name},
			GoalsFor:     60 - 2*i,
			GoalsAgainst: 20 + i,
		})
	}

	png, err := NewRenderer().GoalsBalance(entries)
	if err != nil {
		t.Fatalf("GoalsBalance error for 20 teams: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderer_GoalsBalanceWithoutData(t *testing.T) {
	t.Parallel()

	if _, err := NewRenderer().GoalsBalance(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty table, got %v", err)
	}
	zero := []standing.Entry{{Team: standing.Team{Name: "A"}}, {Team: standing.Team{Name: "B"}}}
	if _, err := NewRenderer().GoalsBalance(zero); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData before any goals, got %v", err)
	}
}

func TestRenderer_GoalsVsAssists(t *testing.T) {
	t.Parallel()

	scorers := []scorer.Scorer{
		{PlayerName: "Harry Kane", Goals: 14, Assists: 0},
		{PlayerName: "Serhou Guirassy", Goals: 11, Assists: 0},
	}

	png, err := NewRenderer().GoalsVsAssists(scorers)
	if err != nil {
		t.Fatalf("GoalsVsAssists error with flat assists: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected PNG output")
	}

	if _, err := NewRenderer().GoalsVsAssists(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestShortLabel(t *testing.T) {
	t.Parallel()

	if got := shortLabel("Barça"); got != "Barça" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := shortLabel("Wolverhampton Wanderers FC"); got != "Wolverha." {
		t.Fatalf("unexpected label %q", got)
	}
}

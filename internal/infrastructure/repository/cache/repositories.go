package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/domain/team"
	basecache "github.com/riskibarqy/football-dashboard/internal/platform/cache"
)

const (
	keyCompetitionList = "competition:list"
	keyForwardsAll     = "forwards:all"
)

// FootballSource is everything the remote provider offers.
type FootballSource interface {
	competition.Repository
	standing.Repository
	scorer.Repository
	team.Repository
}

// FootballRepository memoizes provider reads. The competition list lives in
// the long store; per-competition data lives in the short store.
type FootballRepository struct {
	next  FootballSource
	long  *basecache.Store
	short *basecache.Store
}

func NewFootballRepository(next FootballSource, long, short *basecache.Store) *FootballRepository {
	return &FootballRepository{next: next, long: long, short: short}
}

func (r *FootballRepository) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	items, err := basecache.GetOrLoadAs(ctx, r.long, keyCompetitionList, r.next.ListCompetitions)
	if err != nil {
		return nil, err
	}
	return append([]competition.Competition(nil), items...), nil
}

func (r *FootballRepository) GetStandings(ctx context.Context, competitionID int64) (standing.Table, error) {
	table, err := basecache.GetOrLoadAs(ctx, r.short, competitionKey("standings", competitionID), func(ctx context.Context) (standing.Table, error) {
		return r.next.GetStandings(ctx, competitionID)
	})
	if err != nil {
		return standing.Table{}, err
	}
	table.Entries = append([]standing.Entry(nil), table.Entries...)
	return table, nil
}

func (r *FootballRepository) ListScorers(ctx context.Context, competitionID int64) ([]scorer.Scorer, error) {
	items, err := basecache.GetOrLoadAs(ctx, r.short, competitionKey("scorers", competitionID), func(ctx context.Context) ([]scorer.Scorer, error) {
		return r.next.ListScorers(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}
	return append([]scorer.Scorer(nil), items...), nil
}

func (r *FootballRepository) ListTeams(ctx context.Context, competitionID int64) ([]team.Team, error) {
	items, err := basecache.GetOrLoadAs(ctx, r.short, competitionKey("teams", competitionID), func(ctx context.Context) ([]team.Team, error) {
		return r.next.ListTeams(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func competitionKey(class string, competitionID int64) string {
	return class + ":" + strconv.FormatInt(competitionID, 10)
}

// ForwardRepository memoizes the whole CSV dataset under one key.
type ForwardRepository struct {
	next  forward.Repository
	cache *basecache.Store
}

func NewForwardRepository(next forward.Repository, cache *basecache.Store) *ForwardRepository {
	return &ForwardRepository{next: next, cache: cache}
}

func (r *ForwardRepository) Load(ctx context.Context) ([]forward.Rating, error) {
	items, err := basecache.GetOrLoadAs(ctx, r.cache, keyForwardsAll, r.next.Load)
	if err != nil {
		return nil, err
	}
	return append([]forward.Rating(nil), items...), nil
}

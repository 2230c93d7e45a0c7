package usecase

import (
	"context"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type CompetitionList struct {
	Items   []competition.Competition
	Notices []Notice
}

type CompetitionService struct {
	repo   competition.Repository
	logger *logging.Logger
}

func NewCompetitionService(repo competition.Repository, logger *logging.Logger) *CompetitionService {
	return &CompetitionService{repo: repo, logger: loggerOrDefault(logger)}
}

// List never fails: a provider error yields an empty list with an error notice.
func (s *CompetitionService) List(ctx context.Context) CompetitionList {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.List")
	defer span.End()

	items, err := s.repo.ListCompetitions(ctx)
	if err != nil {
		return CompetitionList{
			Items:   []competition.Competition{},
			Notices: []Notice{degrade(ctx, s.logger, "competitions", err, "Error al obtener competiciones")},
		}
	}
	return CompetitionList{Items: items}
}

// Select resolves the competition to show; id 0 picks the first one.
func (s *CompetitionService) Select(ctx context.Context, id int64) (competition.Competition, CompetitionList, bool) {
	list := s.List(ctx)
	selected, ok := competition.Find(list.Items, id)
	return selected, list, ok
}

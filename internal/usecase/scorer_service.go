package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type ScorersView struct {
	CompetitionID int64
	Scorers       []scorer.Scorer
	Notices       []Notice
}

type ScorerService struct {
	repo   scorer.Repository
	logger *logging.Logger
}

func NewScorerService(repo scorer.Repository, logger *logging.Logger) *ScorerService {
	return &ScorerService{repo: repo, logger: loggerOrDefault(logger)}
}

func (s *ScorerService) List(ctx context.Context, competitionID int64) (ScorersView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorerService.List", competitionAttr(competitionID))
	defer span.End()

	if competitionID <= 0 {
		return ScorersView{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	view := ScorersView{CompetitionID: competitionID, Scorers: []scorer.Scorer{}}
	items, err := s.repo.ListScorers(ctx, competitionID)
	if err != nil {
		view.Notices = append(view.Notices, degrade(ctx, s.logger, "scorers", err, "Error al obtener goleadores", "competition_id", competitionID))
		return view, nil
	}
	if items != nil {
		view.Scorers = items
	}
	return view, nil
}

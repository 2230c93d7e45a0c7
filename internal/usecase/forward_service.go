package usecase

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type ForwardsView struct {
	Leagues        []string
	SelectedLeague string
	Rows           []forward.Rating
	Notices        []Notice
}

type ForwardService struct {
	repo        forward.Repository
	datasetPath string
	logger      *logging.Logger
}

// NewForwardService takes the dataset path only to name it in notices.
func NewForwardService(repo forward.Repository, datasetPath string, logger *logging.Logger) *ForwardService {
	return &ForwardService{repo: repo, datasetPath: datasetPath, logger: loggerOrDefault(logger)}
}

// List returns the rows of one league. An empty league selects the first one
// in the file. A missing dataset is a warning and an unreadable one an error
// notice; both leave the view empty.
func (s *ForwardService) List(ctx context.Context, league string) ForwardsView {
	ctx, span := startUsecaseSpan(ctx, "usecase.ForwardService.List")
	defer span.End()

	view := ForwardsView{Leagues: []string{}, Rows: []forward.Rating{}}
	rows, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, forward.ErrDatasetMissing):
		s.logger.WarnContext(ctx, "forward dataset missing", "component", "forwards", "path", s.datasetPath)
		view.Notices = append(view.Notices, warningNotice("No se encontró el archivo en la ruta: %s", s.datasetPath))
		return view
	case err != nil:
		view.Notices = append(view.Notices, degrade(ctx, s.logger, "forwards", err, "Error al cargar datos de delanteros centro"))
		return view
	}

	view.Leagues = forward.Leagues(rows)
	if len(view.Leagues) == 0 {
		return view
	}

	league = strings.TrimSpace(league)
	if league == "" {
		league = view.Leagues[0]
	}
	view.SelectedLeague = league
	view.Rows = ListByLeague(rows, league)
	if len(view.Rows) == 0 {
		view.Notices = append(view.Notices, warningNotice("No hay delanteros para la liga %s", league))
	} else {
		view.SelectedLeague = view.Rows[0].League
	}
	return view
}

// ListByLeague keeps the rows whose league equals league under Unicode case folding.
func ListByLeague(rows []forward.Rating, league string) []forward.Rating {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(league))
	out := make([]forward.Rating, 0)
	for _, row := range rows {
		if fold.String(strings.TrimSpace(row.League)) == want {
			out = append(out, row)
		}
	}
	return out
}

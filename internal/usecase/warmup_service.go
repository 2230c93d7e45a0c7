package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/football-dashboard/internal/domain/competition"
	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/domain/scorer"
	"github.com/riskibarqy/football-dashboard/internal/domain/standing"
	"github.com/riskibarqy/football-dashboard/internal/domain/team"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

// WarmupSource is the cached provider the warm-up fills.
type WarmupSource interface {
	competition.Repository
	standing.Repository
	scorer.Repository
	team.Repository
}

type WarmupResult struct {
	Competitions int
	TaskCount    int
	SuccessCount int
	FailedCount  int
	DatasetRows  int
	Tasks        []WarmupTaskResult
}

type WarmupTaskResult struct {
	CompetitionID int64
	Resource      string
	Status        string
	DurationMs    int64
	Message       string
}

const (
	warmupStatusSuccess = "success"
	warmupStatusFailed  = "failed"
)

type warmupTask struct {
	competitionID int64
	resource      string
	load          func(ctx context.Context, competitionID int64) error
}

type WarmupService struct {
	source   WarmupSource
	forwards forward.Repository
	workers  int
	logger   *logging.Logger
}

func NewWarmupService(source WarmupSource, forwards forward.Repository, workers int, logger *logging.Logger) *WarmupService {
	if workers <= 0 {
		workers = 1
	}
	return &WarmupService{source: source, forwards: forwards, workers: workers, logger: loggerOrDefault(logger)}
}

// Run loads competitions and then each competition's standings, scorers and
// teams through the cache using a bounded worker pool. A failed competition
// list aborts the run; failed tasks are counted and logged.
func (s *WarmupService) Run(ctx context.Context) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.Run")
	defer span.End()

	started := time.Now()
	items, err := s.source.ListCompetitions(ctx)
	if err != nil {
		return WarmupResult{}, fmt.Errorf("%w: list competitions: %v", ErrDependencyUnavailable, err)
	}

	result := WarmupResult{Competitions: len(items)}
	if s.forwards != nil {
		if rows, err := s.forwards.Load(ctx); err != nil {
			s.logger.WarnContext(ctx, "warmup skipped forward dataset", "error", err)
		} else {
			result.DatasetRows = len(rows)
		}
	}

	tasks := s.buildTasks(items)
	result.TaskCount = len(tasks)
	if len(tasks) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(tasks)))
	if err != nil {
		return WarmupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan WarmupTaskResult, len(tasks))
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := WarmupTaskResult{
				CompetitionID: task.competitionID,
				Resource:      task.resource,
				Status:        warmupStatusSuccess,
			}
			if err := task.load(ctx, task.competitionID); err != nil {
				row.Status = warmupStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "warmup task failed",
					"competition_id", task.competitionID,
					"resource", task.resource,
					"error", err,
				)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return WarmupResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].CompetitionID != result.Tasks[j].CompetitionID {
			return result.Tasks[i].CompetitionID < result.Tasks[j].CompetitionID
		}
		return result.Tasks[i].Resource < result.Tasks[j].Resource
	})

	result.FailedCount = int(failedCount.Load())
	result.SuccessCount = result.TaskCount - result.FailedCount
	s.logger.InfoContext(ctx, "cache warmup finished",
		"competitions", result.Competitions,
		"tasks", result.TaskCount,
		"failed", result.FailedCount,
		"duration", time.Since(started),
	)
	return result, nil
}

func (s *WarmupService) buildTasks(items []competition.Competition) []warmupTask {
	tasks := make([]warmupTask, 0, len(items)*3)
	for _, item := range items {
		tasks = append(tasks,
			warmupTask{competitionID: item.ID, resource: "standings", load: func(ctx context.Context, id int64) error {
				_, err := s.source.GetStandings(ctx, id)
				return err
			}},
			warmupTask{competitionID: item.ID, resource: "scorers", load: func(ctx context.Context, id int64) error {
				_, err := s.source.ListScorers(ctx, id)
				return err
			}},
			warmupTask{competitionID: item.ID, resource: "teams", load: func(ctx context.Context, id int64) error {
				_, err := s.source.ListTeams(ctx, id)
				return err
			}},
		)
	}
	return tasks
}

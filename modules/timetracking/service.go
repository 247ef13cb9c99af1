package timetracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-tracker/domain/timeentry"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service implements timer start/stop and duration aggregation.
type Service struct {
	repo    *Repository
	cache   SummaryCache
	sfGroup singleflight.Group
	now     func() time.Time
	logger  types.Logger
}

// NewService creates a new Service. cache may be nil; a nil clock uses the
// current UTC time.
func NewService(repo *Repository, cache SummaryCache, clock func() time.Time, logger types.Logger) *Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		now:    clock,
		logger: logger,
	}
}

// Start begins tracking time on an owned task. It fails with
// failure.ErrTimerAlreadyRunning while any timer of the principal runs.
func (s *Service) Start(ctx context.Context, principal, taskID, description string) (*timeentry.TimeEntry, error) {
	now := s.now()
	e := &timeentry.TimeEntry{
		ID:          uuid.New().String(),
		UserID:      principal,
		TaskID:      taskID,
		StartTime:   now,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Start(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx, taskID)
	return e, nil
}

// Stop ends the principal's running entry.
func (s *Service) Stop(ctx context.Context, principal, entryID string) (*timeentry.TimeEntry, error) {
	e, err := s.repo.Stop(ctx, principal, entryID, s.now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, e.TaskID)
	return e, nil
}

// TaskSummary returns the tracked total of an owned task. Ownership is
// always checked against the store; only the aggregate is cached.
func (s *Service) TaskSummary(ctx context.Context, principal, taskID string) (timeentry.Summary, error) {
	if err := s.repo.OwnsTask(ctx, principal, taskID); err != nil {
		return timeentry.Summary{}, err
	}
	if s.cache == nil {
		return s.loadSummary(ctx, principal, taskID)
	}

	gen, err := s.cache.Generation(ctx, taskID)
	if err != nil {
		s.logger.Warn("Summary cache read failed", "task_id", taskID, "error", err)
		return s.loadSummary(ctx, principal, taskID)
	}
	cached, found, err := s.cache.Get(ctx, taskID, gen)
	if err != nil {
		s.logger.Warn("Summary cache read failed", "task_id", taskID, "error", err)
	} else if found {
		return *cached, nil
	}

	// Concurrent misses on the same generation share one query. A caller
	// arriving after an invalidation sees a new generation and never joins
	// a load that started before the write.
	v, err, _ := s.sfGroup.Do(fmt.Sprintf("%s@%d", taskID, gen), func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		summary, err := s.loadSummary(loadCtx, principal, taskID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(loadCtx, gen, summary); err != nil {
			s.logger.Warn("Summary cache write failed", "task_id", taskID, "error", err)
		}
		return summary, nil
	})
	if err != nil {
		return timeentry.Summary{}, err
	}
	return v.(timeentry.Summary), nil
}

func (s *Service) loadSummary(ctx context.Context, principal, taskID string) (timeentry.Summary, error) {
	total, count, err := s.repo.Totals(ctx, principal, taskID)
	if err != nil {
		return timeentry.Summary{}, err
	}
	return timeentry.NewSummary(taskID, total, count), nil
}

// ListEntries returns the principal's entries, newest first.
func (s *Service) ListEntries(ctx context.Context, principal, taskID string, onlyActive bool) ([]timeentry.TimeEntry, error) {
	return s.repo.List(ctx, principal, EntryFilter{TaskID: taskID, OnlyActive: onlyActive})
}

// ActiveTimer returns the running entry, if any, and its live elapsed seconds.
func (s *Service) ActiveTimer(ctx context.Context, principal string) (*timeentry.TimeEntry, int64, error) {
	e, err := s.repo.Active(ctx, principal)
	if err != nil || e == nil {
		return nil, 0, err
	}
	return e, e.Elapsed(s.now()), nil
}

// UpdateDescription edits the description of an owned entry.
func (s *Service) UpdateDescription(ctx context.Context, principal, entryID, description string) (*timeentry.TimeEntry, error) {
	return s.repo.UpdateDescription(ctx, principal, entryID, strings.TrimSpace(description))
}

// InvalidateSummaries retires the cached summaries of the given tasks.
func (s *Service) InvalidateSummaries(ctx context.Context, taskIDs ...string) {
	s.invalidate(ctx, taskIDs...)
}

func (s *Service) invalidate(ctx context.Context, taskIDs ...string) {
	if s.cache == nil || len(taskIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, taskIDs...); err != nil {
		s.logger.Warn("Summary cache invalidation failed", "tasks", fmt.Sprint(taskIDs), "error", err)
	}
}

package task

import (
	"context"
	"strings"
	"time"

	"github.com/example/task-tracker/domain/failure"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInput holds the fields of a new task.
type CreateInput struct {
	ListID      string     `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   int        `json:"sort_order,omitempty"`
}

// Changes lists the fields an update touches. A nil field is left as is.
// ClearDueDate removes the due date; it wins over DueDate.
type Changes struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	Status       *string    `json:"status,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	ListID       *string    `json:"list_id,omitempty"`
	SortOrder    *int       `json:"sort_order,omitempty"`
}

// Transition describes the status move made by an update.
type Transition struct {
	From    domain.Status
	To      domain.Status
	Changed bool
}

// Service implements the task lifecycle.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a new Service. A nil clock uses the current UTC time.
func NewService(repo *Repository, clock func() time.Time) *Service {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Service{repo: repo, now: clock}
}

// Create adds a planned task to one of the principal's lists.
func (s *Service) Create(ctx context.Context, principal string, in CreateInput) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	if in.ListID == "" {
		return nil, failure.Validation("list_id is required")
	}

	now := s.now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      principal,
		ListID:      in.ListID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.StatusPlanned,
		Priority:    priority,
		DueDate:     in.DueDate,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns an owned task.
func (s *Service) Get(ctx context.Context, principal, id string) (*domain.Task, error) {
	return s.repo.Find(ctx, principal, id)
}

// List returns the principal's tasks matching the raw filter values.
func (s *Service) List(ctx context.Context, principal, listID, status, priority string) ([]domain.Task, error) {
	filter := ListFilter{ListID: listID}
	if status != "" {
		st, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	if priority != "" {
		p, err := domain.ParsePriority(priority)
		if err != nil {
			return nil, err
		}
		filter.Priority = p
	}
	return s.repo.List(ctx, principal, filter)
}

// Update applies ch to an owned task. Input is validated before anything is
// written and all fields, including the derived completion time, commit
// together.
func (s *Service) Update(ctx context.Context, principal, id string, ch Changes) (*domain.Task, Transition, error) {
	var (
		title    string
		priority domain.Priority
		status   domain.Status
		err      error
	)
	if ch.Title != nil {
		if title, err = domain.NormalizeTitle(*ch.Title); err != nil {
			return nil, Transition{}, err
		}
	}
	if ch.Priority != nil {
		if *ch.Priority == "" {
			return nil, Transition{}, failure.Validation("priority must not be empty")
		}
		if priority, err = domain.ParsePriority(*ch.Priority); err != nil {
			return nil, Transition{}, err
		}
	}
	if ch.Status != nil {
		if status, err = domain.ParseStatus(*ch.Status); err != nil {
			return nil, Transition{}, err
		}
	}

	var tr Transition
	now := s.now()
	updated, err := s.repo.Mutate(ctx, principal, id, func(tx *gorm.DB, t *domain.Task) error {
		if ch.ListID != nil && *ch.ListID != t.ListID {
			if _, err := storage.Resolve[user.List](ctx, tx, *ch.ListID, principal); err != nil {
				return err
			}
			t.ListID = *ch.ListID
		}
		if ch.Title != nil {
			t.Title = title
		}
		if ch.Description != nil {
			t.Description = strings.TrimSpace(*ch.Description)
		}
		if ch.Priority != nil {
			t.Priority = priority
		}
		if ch.ClearDueDate {
			t.DueDate = nil
		} else if ch.DueDate != nil {
			due := *ch.DueDate
			t.DueDate = &due
		}
		if ch.SortOrder != nil {
			t.SortOrder = *ch.SortOrder
		}

		tr = Transition{From: t.Status, To: t.Status}
		if ch.Status != nil {
			tr.Changed = domain.ApplyStatus(t, status, now)
			tr.To = t.Status
		}
		return nil
	})
	if err != nil {
		return nil, Transition{}, err
	}
	return updated, tr, nil
}

// SetStatus moves an owned task to status. It shares the update path so the
// completion time rule is applied in one place.
func (s *Service) SetStatus(ctx context.Context, principal, id, status string) (*domain.Task, Transition, error) {
	return s.Update(ctx, principal, id, Changes{Status: &status})
}

// Delete removes an owned task and its time entries.
func (s *Service) Delete(ctx context.Context, principal, id string) (*domain.Task, error) {
	return s.repo.DeleteCascade(ctx, principal, id)
}

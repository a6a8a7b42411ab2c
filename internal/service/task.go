package service

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/model"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/repo"
)

const maxTitleLen = 100

// dueDateFormats accepted for the due_date field, tried in order.
var dueDateFormats = []string{time.RFC3339, "2006-01-02T15:04:05"}

// TaskService implements task CRUD. Every operation takes the acting
// owner id explicitly; ownership is enforced before any read or write.
type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) List(ctx context.Context, ownerID int64) ([]model.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns ErrorNotFound when no such task exists and ErrForbidden
// when it exists under a different owner. The distinction discloses
// existence; kept intentionally.
func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (model.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if t.UserID != ownerID {
		return model.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in model.TaskInput) (model.Task, error) {
	t := model.Task{
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
		UserID:   ownerID,
	}
	if err := apply(&t, in, true); err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, t)
}

// Update applies only the fields present in the payload onto the stored
// task. Owner and id are never touched.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, in model.TaskInput) (model.Task, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := apply(&t, in, false); err != nil {
		return model.Task{}, err
	}
	return s.repo.Update(ctx, t)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context, ownerID int64) (model.Stats, error) {
	return s.repo.StatsByOwner(ctx, ownerID)
}

// apply validates the input and copies the supplied fields onto t.
// With requireTitle set (create), a missing title is an error; on
// update absent fields leave t unchanged.
func apply(t *model.Task, in model.TaskInput, requireTitle bool) error {
	fields := make(map[string]string)

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			fields["title"] = "must not be empty"
		case utf8.RuneCountInString(title) > maxTitleLen:
			fields["title"] = "must be at most 100 characters"
		default:
			t.Title = title
		}
	} else if requireTitle {
		fields["title"] = "is required"
	}

	if in.Description != nil {
		t.Description = *in.Description
	}

	if in.Status != nil {
		if !slices.Contains(model.Statuses, *in.Status) {
			fields["status"] = oneOf(model.Statuses)
		} else {
			t.Status = *in.Status
		}
	}

	if in.Priority != nil {
		if !slices.Contains(model.Priorities, *in.Priority) {
			fields["priority"] = oneOf(model.Priorities)
		} else {
			t.Priority = *in.Priority
		}
	}

	if in.DueDate != nil {
		if due, ok := parseDueDate(*in.DueDate); ok {
			t.DueDate = due
		} else {
			fields["due_date"] = "must be an ISO-8601 timestamp"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// parseDueDate accepts an RFC3339 timestamp or one without a zone
// offset. An empty string clears the due date.
func parseDueDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	for _, layout := range dueDateFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, true
		}
	}
	return nil, false
}

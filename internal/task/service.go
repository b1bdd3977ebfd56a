package task

import (
	"context"
	"strings"

	"github.com/kazz187/todo/pkg/cerr"
)

const MsgTitleRequired = "Title is required"

// UpdateInput carries the fields a client supplied. Absent fields are nil.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

// Service holds the task business rules on top of a Repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListTasks never returns a nil slice on success.
func (s *Service) ListTasks(ctx context.Context) ([]*Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	return tasks, nil
}

// CreateTask rejects a missing or blank title with cerr.InvalidArgument.
func (s *Service) CreateTask(ctx context.Context, title *string) (*Task, error) {
	if title == nil || strings.TrimSpace(*title) == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, MsgTitleRequired, nil)
	}
	return s.repo.Create(ctx, strings.TrimSpace(*title))
}

// UpdateTask applies only the supplied fields. Unlike CreateTask, a blank
// title is dropped from the patch instead of rejected; the rest of the update
// (and the updatedAt refresh) still happens.
func (s *Service) UpdateTask(ctx context.Context, id string, in UpdateInput) (*Task, error) {
	var p Patch
	if in.Title != nil {
		if title := strings.TrimSpace(*in.Title); title != "" {
			p.Title = &title
		}
	}
	if in.IsCompleted != nil {
		completed := *in.IsCompleted
		p.IsCompleted = &completed
	}
	return s.repo.Update(ctx, id, p)
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

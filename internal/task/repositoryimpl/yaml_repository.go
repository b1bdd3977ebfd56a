package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/todo/internal/task"
	"github.com/kazz187/todo/pkg/cerr"
	"github.com/kazz187/todo/pkg/storage"
)

const tasksPrefix = "tasks"

var _ task.Repository = (*YAMLRepository)(nil)

// YAMLRepository stores one YAML document per task. Writes are serialized in
// process; running several servers against one bucket is not supported.
type YAMLRepository struct {
	storage storage.Storage
	now     func() time.Time
	mu      sync.Mutex
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s, now: task.Now}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", tasksPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, title string) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := &task.Task{
		ID:        task.NewID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.write(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	if !task.ValidID(id) {
		return nil, task.ErrNotFound(id)
	}
	return r.read(ctx, path(id))
}

func (r *YAMLRepository) List(ctx context.Context) ([]*task.Task, error) {
	paths, err := r.storage.List(ctx, tasksPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("tasks", err)
	}

	tasks := make([]*task.Task, 0, len(paths))
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			// Deleted between List and Read.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, cerr.WrapStorageReadError("tasks", err)
		}
		var t task.Task
		if err := yaml.Unmarshal(data, &t); err != nil {
			slog.WarnContext(ctx, "skipping unreadable task document", "path", p, "error", err)
			continue
		}
		tasks = append(tasks, &t)
	}
	task.SortNewestFirst(tasks)
	return tasks, nil
}

func (r *YAMLRepository) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	if !task.ValidID(id) {
		return nil, task.ErrNotFound(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.read(ctx, path(id))
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	t.UpdatedAt = task.NextUpdatedAt(t.UpdatedAt, r.now())
	if err := r.write(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if !task.ValidID(id) {
		return task.ErrNotFound(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("Task", err)
	}
	return nil
}

func (r *YAMLRepository) read(ctx context.Context, p string) (*task.Task, error) {
	data, err := r.storage.Read(ctx, p)
	if err != nil {
		return nil, cerr.WrapStorageReadError("Task", err)
	}
	var t task.Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal %s: %w", p, err))
	}
	return &t, nil
}

func (r *YAMLRepository) write(ctx context.Context, t *task.Task) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal task: %w", err))
	}
	if err := r.storage.Write(ctx, path(t.ID), data); err != nil {
		return cerr.WrapStorageWriteError("task", err)
	}
	return nil
}

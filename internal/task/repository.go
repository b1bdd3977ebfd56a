package task

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/todo/pkg/cerr"
)

// Repository is the task store. It assigns ID, CreatedAt and UpdatedAt and
// validates nothing else. Update and Delete of an unknown id return a
// cerr.NotFound error.
type Repository interface {
	Create(ctx context.Context, title string) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	// List returns every task, newest first.
	List(ctx context.Context) ([]*Task, error)
	Update(ctx context.Context, id string, p Patch) (*Task, error)
	Delete(ctx context.Context, id string) error
}

const MsgTaskNotFound = "Task not found"

func ErrNotFound(id string) error {
	return cerr.NewError(cerr.NotFound, MsgTaskNotFound, fmt.Errorf("task %q does not exist", id))
}

// NewID returns a fresh ULID string.
func NewID() string {
	return ulid.Make().String()
}

// ValidID reports whether id could have come from NewID. Repositories treat
// anything else as not found without touching storage.
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

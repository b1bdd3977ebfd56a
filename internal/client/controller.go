package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kazz187/todo/internal/task"
)

const (
	msgFetchFailed  = "Failed to fetch tasks. Please check if the backend server is running."
	msgCreateFailed = "Failed to create task. Please try again."
	msgUpdateFailed = "Failed to update task. Please try again."
	msgDeleteFailed = "Failed to delete task. Please try again."
)

var (
	// ErrEmptyTitle is returned when a blank title is rejected locally; no
	// request is sent and State.Error is left alone.
	ErrEmptyTitle = errors.New("title is empty")
	// ErrNoDraft is returned by edit operations when no edit is open.
	ErrNoDraft = errors.New("no edit in progress")
	// ErrStale is returned when a response arrived after a newer request for the
	// same key and was dropped.
	ErrStale = errors.New("response superseded by a newer request")
)

// API is the subset of TaskClient the controller drives.
type API interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
	CreateTask(ctx context.Context, title string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, in task.UpdateInput) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) (string, error)
}

var _ API = (*TaskClient)(nil)

// listKey is the token key for list requests; task requests use the task id.
const listKey = ""

// Controller owns the client State and is safe for concurrent use. Every
// operation takes a monotonic token for its key (the list, or one task id)
// and applies its response only if no newer request for that key was started
// in the meantime.
type Controller struct {
	api API

	mu       sync.Mutex
	state    State
	inFlight int
	seq      uint64
	creates  uint64
	latest   map[string]uint64
}

func NewController(api API) *Controller {
	return &Controller{
		api:    api,
		latest: make(map[string]uint64),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// begin marks a request as in flight and returns its token.
func (c *Controller) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight++
	c.state.Loading = true
	c.seq++
	c.latest[key] = c.seq
	return c.seq
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--
	c.state.Loading = c.inFlight > 0
}

// apply runs fn on the state under lock unless token is stale.
func (c *Controller) apply(key string, token uint64, fn func(State) State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest[key] != token {
		return ErrStale
	}
	c.state = fn(c.state)
	return nil
}

// Load replaces the mirror with the server list.
func (c *Controller) Load(ctx context.Context) error {
	token := c.begin(listKey)
	defer c.end()

	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return c.fail(listKey, token, err, msgFetchFailed)
	}
	return c.apply(listKey, token, func(s State) State { return listLoaded(s, tasks) })
}

func (c *Controller) SetInput(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = title
}

// Create submits the current input. The raw input is sent; the server trims.
func (c *Controller) Create(ctx context.Context) error {
	c.mu.Lock()
	title := c.state.Input
	c.mu.Unlock()
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}

	// Creates have no id yet, so each one gets a key of its own and never
	// goes stale.
	c.mu.Lock()
	c.creates++
	key := fmt.Sprintf("create#%d", c.creates)
	c.mu.Unlock()

	token := c.begin(key)
	defer c.end()
	defer c.forget(key)

	t, err := c.api.CreateTask(ctx, title)
	if err != nil {
		return c.fail(key, token, err, msgCreateFailed)
	}
	return c.apply(key, token, func(s State) State { return taskAppended(s, t) })
}

func (c *Controller) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, key)
}

// Toggle flips the completion flag of a mirrored task. The local entry only
// changes once the server answers.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	t, ok := c.state.Find(id)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("task %s is not loaded", id)
	}
	completed := !t.IsCompleted
	return c.update(ctx, id, task.UpdateInput{IsCompleted: &completed}, nil)
}

// OpenEdit starts a draft from the mirrored title.
func (c *Controller) OpenEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.state.Find(id)
	if !ok {
		return fmt.Errorf("task %s is not loaded", id)
	}
	c.state.Editing = &Draft{ID: t.ID, Title: t.Title}
	return nil
}

func (c *Controller) SetEditTitle(title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Editing == nil {
		return ErrNoDraft
	}
	c.state.Editing.Title = title
	return nil
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Editing = nil
}

// SubmitEdit sends only the draft title. A blank draft is rejected locally and
// stays open; on failure the draft also stays open.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Editing == nil {
		c.mu.Unlock()
		return ErrNoDraft
	}
	draft := *c.state.Editing
	c.mu.Unlock()
	if strings.TrimSpace(draft.Title) == "" {
		return ErrEmptyTitle
	}

	return c.update(ctx, draft.ID, task.UpdateInput{Title: &draft.Title}, func(s State) State {
		if s.Editing != nil && s.Editing.ID == draft.ID {
			s.Editing = nil
		}
		return s
	})
}

func (c *Controller) update(ctx context.Context, id string, in task.UpdateInput, after func(State) State) error {
	token := c.begin(id)
	defer c.end()

	t, err := c.api.UpdateTask(ctx, id, in)
	if err != nil {
		return c.fail(id, token, err, msgUpdateFailed)
	}
	return c.apply(id, token, func(s State) State {
		s = taskReplaced(s, t)
		if after != nil {
			s = after(s)
		}
		return s
	})
}

// Delete removes the entry once the server confirms.
func (c *Controller) Delete(ctx context.Context, id string) error {
	token := c.begin(id)
	defer c.end()

	if _, err := c.api.DeleteTask(ctx, id); err != nil {
		return c.fail(id, token, err, msgDeleteFailed)
	}
	return c.apply(id, token, func(s State) State {
		if s.Editing != nil && s.Editing.ID == id {
			s.Editing = nil
		}
		return taskRemoved(s, id)
	})
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}

// fail records the error unless the request is stale, and returns err either way.
func (c *Controller) fail(key string, token uint64, err error, fallback string) error {
	msg := fallback
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if staleErr := c.apply(key, token, func(s State) State { return failed(s, msg) }); staleErr != nil {
		return errors.Join(err, staleErr)
	}
	return err
}

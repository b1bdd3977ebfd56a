package client

import (
	"slices"

	"github.com/kazz187/todo/internal/task"
)

// Draft is an unsaved edit of one task's title.
type Draft struct {
	ID    string
	Title string
}

// State is the client's view: a mirror of the server list plus transient UI
// fields. The mirror is never authoritative; every successful mutation
// overwrites the touched entry with what the server returned.
type State struct {
	Tasks   []task.Task
	Loading bool
	Error   string
	Input   string
	Editing *Draft
}

type Stats struct {
	Total     int
	Open      int
	Completed int
}

func (s State) Stats() Stats {
	st := Stats{Total: len(s.Tasks)}
	for _, t := range s.Tasks {
		if t.IsCompleted {
			st.Completed++
		}
	}
	st.Open = st.Total - st.Completed
	return st
}

// Find returns the mirrored task with id.
func (s State) Find(id string) (task.Task, bool) {
	i := slices.IndexFunc(s.Tasks, func(t task.Task) bool { return t.ID == id })
	if i < 0 {
		return task.Task{}, false
	}
	return s.Tasks[i], true
}

// clone deep-copies the slice and draft so callers can't alias controller state.
func (s State) clone() State {
	s.Tasks = slices.Clone(s.Tasks)
	if s.Editing != nil {
		d := *s.Editing
		s.Editing = &d
	}
	return s
}

// The transitions below are pure: they never touch the input's backing array.

func listLoaded(s State, tasks []*task.Task) State {
	s.Tasks = make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		s.Tasks = append(s.Tasks, *t)
	}
	s.Error = ""
	return s
}

func taskAppended(s State, t *task.Task) State {
	s.Tasks = append(slices.Clip(s.Tasks), *t)
	s.Input = ""
	s.Error = ""
	return s
}

func taskReplaced(s State, t *task.Task) State {
	s.Tasks = slices.Clone(s.Tasks)
	for i := range s.Tasks {
		if s.Tasks[i].ID == t.ID {
			s.Tasks[i] = *t
		}
	}
	s.Error = ""
	return s
}

func taskRemoved(s State, id string) State {
	s.Tasks = slices.DeleteFunc(slices.Clone(s.Tasks), func(t task.Task) bool { return t.ID == id })
	s.Error = ""
	return s
}

func failed(s State, msg string) State {
	s.Error = msg
	return s
}

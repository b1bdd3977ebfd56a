package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/kazz187/todo/internal/client"
)

const timeLayout = "2006-01-02 15:04"

var (
	doneMark = color.New(color.FgGreen).Sprint("[x]")
	openMark = color.New(color.FgYellow).Sprint("[ ]")
	dim      = color.New(color.Faint)
)

// render prints the mirror newest first, timestamps in loc, then the counts.
func render(w io.Writer, s client.State, loc *time.Location) {
	if len(s.Tasks) == 0 {
		fmt.Fprintln(w, dim.Sprint("No tasks yet."))
	}
	for _, t := range s.Tasks {
		mark := openMark
		if t.IsCompleted {
			mark = doneMark
		}
		stamp := "created " + t.CreatedAt.In(loc).Format(timeLayout)
		if t.UpdatedAt.After(t.CreatedAt) {
			stamp += ", updated " + t.UpdatedAt.In(loc).Format(timeLayout)
		}
		fmt.Fprintf(w, "%s %s %s %s\n", mark, dim.Sprint(t.ID), t.Title, dim.Sprintf("(%s)", stamp))
	}

	st := s.Stats()
	fmt.Fprintf(w, "\nTotal: %d  Open: %d  Completed: %d\n", st.Total, st.Open, st.Completed)
}

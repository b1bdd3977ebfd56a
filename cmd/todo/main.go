package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/kazz187/todo/internal/client"
)

var (
	app       = kingpin.New("todo", "Command line client for the todo API")
	serverURL = app.Flag("server", "Base URL of the todo server").Envar("TODO_SERVER_URL").Default("http://localhost:5000").String()
	timeout   = app.Flag("timeout", "Timeout for each request").Default("10s").Duration()

	listCmd = app.Command("list", "List all tasks").Default()

	addCmd   = app.Command("add", "Create a task")
	addTitle = addCmd.Arg("title", "Task title").Required().String()

	toggleCmd = app.Command("toggle", "Flip a task between open and completed").Alias("done")
	toggleID  = toggleCmd.Arg("id", "Task ID").Required().String()

	editCmd   = app.Command("edit", "Rename a task")
	editID    = editCmd.Arg("id", "Task ID").Required().String()
	editTitle = editCmd.Arg("title", "New title").Required().String()

	rmCmd = app.Command("rm", "Delete a task")
	rmID  = rmCmd.Arg("id", "Task ID").Required().String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.NewController(client.NewTaskClient(*serverURL))
	if err := run(ctx, c, command); err != nil {
		if msg := c.State().Error; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	render(os.Stdout, c.State(), time.Local)
}

func run(ctx context.Context, c *client.Controller, command string) error {
	call := func(fn func(context.Context) error) error {
		ctx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()
		return fn(ctx)
	}

	if err := call(c.Load); err != nil {
		return err
	}

	switch command {
	case listCmd.FullCommand():
		return nil
	case addCmd.FullCommand():
		c.SetInput(*addTitle)
		return call(c.Create)
	case toggleCmd.FullCommand():
		return call(func(ctx context.Context) error { return c.Toggle(ctx, *toggleID) })
	case editCmd.FullCommand():
		if err := c.OpenEdit(*editID); err != nil {
			return err
		}
		if err := c.SetEditTitle(*editTitle); err != nil {
			return err
		}
		return call(c.SubmitEdit)
	case rmCmd.FullCommand():
		return call(func(ctx context.Context) error { return c.Delete(ctx, *rmID) })
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

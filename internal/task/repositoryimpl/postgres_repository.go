package repositoryimpl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kazz187/todo/internal/task"
	"github.com/kazz187/todo/pkg/cerr"
)

var _ task.Repository = (*PostgresRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC, id DESC);
`

const taskColumns = `id, title, is_completed, created_at, updated_at`

// PostgresRepository keeps tasks in a single table. Each operation is one
// statement, so partial updates are atomic without explicit transactions.
type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenPostgres connects and pings within timeout.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewPostgresRepository creates the schema if it does not exist.
func NewPostgresRepository(ctx context.Context, db *sql.DB) (*PostgresRepository, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate tasks schema: %w", err)
	}
	return &PostgresRepository{db: db, now: task.Now}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*task.Task, error) {
	var t task.Task
	if err := s.Scan(&t.ID, &t.Title, &t.IsCompleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func dbError(op string, err error) error {
	return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to %s: %w", op, err))
}

func (r *PostgresRepository) Create(ctx context.Context, title string) (*task.Task, error) {
	now := r.now()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (id, title, is_completed, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, $3)
		 RETURNING `+taskColumns,
		task.NewID(), title, now)
	t, err := scanTask(row)
	if err != nil {
		return nil, dbError("insert task", err)
	}
	return t, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	if !task.ValidID(id) {
		return nil, task.ErrNotFound(id)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrNotFound(id)
		}
		return nil, dbError("select task", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, dbError("list tasks", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, dbError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list tasks", err)
	}
	return tasks, nil
}

// Update bumps updated_at by at least one millisecond so it strictly increases
// even when two writes land within the same clock tick.
func (r *PostgresRepository) Update(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	if !task.ValidID(id) {
		return nil, task.ErrNotFound(id)
	}
	var title sql.NullString
	if p.Title != nil {
		title = sql.NullString{String: *p.Title, Valid: true}
	}
	var completed sql.NullBool
	if p.IsCompleted != nil {
		completed = sql.NullBool{Bool: *p.IsCompleted, Valid: true}
	}
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks SET
			title        = COALESCE($2, title),
			is_completed = COALESCE($3, is_completed),
			updated_at   = GREATEST($4, updated_at + INTERVAL '1 millisecond')
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, title, completed, r.now())
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, task.ErrNotFound(id)
		}
		return nil, dbError("update task", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !task.ValidID(id) {
		return task.ErrNotFound(id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return dbError("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError("delete task", err)
	}
	if n == 0 {
		return task.ErrNotFound(id)
	}
	return nil
}

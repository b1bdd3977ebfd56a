package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/kazz187/todo/internal"
	"github.com/kazz187/todo/internal/config"
	"github.com/kazz187/todo/internal/task"
	"github.com/kazz187/todo/internal/task/repositoryimpl"
	"github.com/kazz187/todo/pkg/clog"
	"github.com/kazz187/todo/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	repo, closeRepo, err := newRepository(ctx, &env.StorageEnv)
	if err != nil {
		slog.Error("failed to set up task store", "type", env.StorageEnv.Type, "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	slog.Info("task store ready", "type", env.StorageEnv.Type)

	srv := server.NewServer(env, task.NewServer(task.NewService(repo)))

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newRepository(ctx context.Context, env *config.StorageEnv) (task.Repository, func(), error) {
	noop := func() {}
	switch env.Type {
	case config.StorageTypePostgres:
		db, err := repositoryimpl.OpenPostgres(ctx, env.DatabaseURL, env.DatabaseConnectTimeout)
		if err != nil {
			return nil, noop, err
		}
		repo, err := repositoryimpl.NewPostgresRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	case config.StorageTypeS3:
		store, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:   env.S3Bucket,
			Prefix:   env.S3Prefix,
			Region:   env.S3Region,
			Endpoint: env.S3Endpoint,
		})
		if err != nil {
			return nil, noop, err
		}
		return repositoryimpl.NewYAMLRepository(store), noop, nil
	default:
		store, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, noop, err
		}
		return repositoryimpl.NewYAMLRepository(store), noop, nil
	}
}

package internal

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"

	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kazz187/todo/internal/config"
	"github.com/kazz187/todo/internal/task"
	"github.com/kazz187/todo/pkg/cerr"
	"github.com/kazz187/todo/pkg/clog"
)

const (
	healthMessage   = "API is running..."
	msgNotFound     = "Not found"
	msgNotAllowed   = "Method not allowed"
	msgPanic        = "Something went wrong!"
	healthServiceID = "todo.v1.TaskService"
)

type Server struct {
	server     *http.Server
	env        *config.Env
	taskServer *task.Server
}

func NewServer(env *config.Env, taskServer *task.Server) *Server {
	return &Server{
		env:        env,
		taskServer: taskServer,
	}
}

// Handler builds the full HTTP handler tree: request logging, CORS, the
// liveness routes, and the JSON API under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(clog.SlogChiMiddleware())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, healthMessage)
	})
	healthPath, healthHandler := grpchealth.NewHandler(grpchealth.NewStaticChecker(healthServiceID))
	r.Handle(healthPath+"*", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(cerr.NewJSONResponseChiMiddleware(msgPanic))
		r.Route("/tasks", s.taskServer.Routes)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, msgNotFound, nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.MethodNotAllowed, msgNotAllowed, nil)
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins:   []string{s.env.CORSAllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", clog.RequestIDHeader},
		ExposedHeaders:   []string{clog.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(r)
}

// ListenAndServe uses ctx as the base context of every request, so cancelling
// it (on shutdown) also cancels in-flight store calls.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     h2c.NewHandler(s.Handler(), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

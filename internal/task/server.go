package task

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/todo/pkg/cerr"
)

const (
	MsgTaskDeleted     = "Task deleted successfully"
	MsgInvalidBody     = "Invalid request body"
	msgFetchFailed     = "Failed to fetch tasks"
	msgCreateFailed    = "Failed to create task"
	msgUpdateFailed    = "Failed to update task"
	msgDeleteFailed    = "Failed to delete task"
	maxRequestBodySize = 100 << 10
)

// Server is the REST surface for tasks. Handlers report results through
// cerr.SetJSONResponse*/SetJSONError, so the router must install
// cerr.NewJSONResponseChiMiddleware.
type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

// Routes mounts the task endpoints relative to the collection path.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.listTasks)
	r.Post("/", s.createTask)
	r.Put("/{id}", s.updateTask)
	r.Delete("/{id}", s.deleteTask)
}

type createTaskRequest struct {
	Title *string `json:"title"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := s.service.ListTasks(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, cerr.MaskInternal(err, msgFetchFailed))
		return
	}
	cerr.SetJSONResponse(ctx, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createTaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.service.CreateTask(ctx, req.Title)
	if err != nil {
		cerr.SetJSONError(ctx, cerr.MaskInternal(err, msgCreateFailed))
		return
	}
	cerr.SetJSONResponseWithStatus(ctx, http.StatusCreated, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateInput
	if err := decodeBody(w, r, &req); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	t, err := s.service.UpdateTask(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		cerr.SetJSONError(ctx, cerr.MaskInternal(err, msgUpdateFailed))
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.service.DeleteTask(ctx, chi.URLParam(r, "id")); err != nil {
		cerr.SetJSONError(ctx, cerr.MaskInternal(err, msgDeleteFailed))
		return
	}
	cerr.SetJSONResponse(ctx, messageResponse{Message: MsgTaskDeleted})
}

// decodeBody treats an empty body as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return cerr.NewError(cerr.InvalidArgument, MsgInvalidBody, err)
	}
	return nil
}

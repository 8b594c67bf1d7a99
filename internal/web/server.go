// Package web serves the daylist HTTP API.
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"daylist-cli/internal/model"
	"daylist-cli/internal/service"

	"github.com/google/uuid"
)

// TaskStore is the persistence the API needs.
type TaskStore interface {
	ListTasks(ctx context.Context, date string) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	service.OrderStore
}

type ServerConfig struct {
	Store  TaskStore
	Logger *log.Logger
}

type Server struct {
	cfg     ServerConfig
	store   TaskStore
	reorder *service.ReorderService
	router  *Router
	log     *log.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("web: store is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "", log.LstdFlags)
	}

	s := &Server{
		cfg:     cfg,
		store:   cfg.Store,
		reorder: service.NewReorderService(cfg.Store),
		router:  NewRouter(),
		log:     cfg.Logger,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// routes registers the API. Order matters: the router dispatches to the first
// match, so literal paths under /tasks go before /tasks/{id}.
func (s *Server) routes() error {
	regs := []struct {
		method  string
		pattern string
		h       http.HandlerFunc
	}{
		{http.MethodGet, "/health", s.handleHealth},
		{http.MethodGet, "/tasks", s.handleTasks},
		{http.MethodPost, "/tasks", s.handleTaskCreate},
		{http.MethodPut, "/tasks/update-order", s.handleUpdateOrder},
		{http.MethodGet, "/tasks/{id}", s.handleTask},
		{http.MethodPut, "/tasks/{id}", s.handleTaskUpdate},
		{http.MethodPatch, "/tasks/{id}", s.handleTaskUpdate},
		{http.MethodDelete, "/tasks/{id}", s.handleTaskDelete},
	}
	for _, r := range regs {
		if err := s.router.HandleFunc(r.method, r.pattern, r.h); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) Routes() []string { return s.router.Routes() }

func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Printf("%s %s %d %s req=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), reqID)
	})
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

type Server struct {
	cfg     *Config
	api     *ApiHandler
	handler http.Handler
	http    *http.Server

	// parent of every request context; cancelled to kill solvers still
	// running when shutdown gives up waiting
	baseCtx    context.Context
	cancelBase context.CancelFunc
	inflight   sync.WaitGroup
}

func NewServer(cfg *Config) (*Server, error) {
	return newServer(cfg, NewSolver(cfg.Solver))
}

func newServer(cfg *Config, runner Runner) (*Server, error) {
	static, err := NewStaticHandler(cfg.PublicDir, cfg.IndexFile)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg: cfg,
		api: NewApiHandler(runner, cfg.Solver.SkipSteps),
	}
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())

	r := mux.NewRouter()
	// leave ".." in place so the static handler can refuse it
	r.SkipClean(true)

	api := r.PathPrefix("/api/").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(s.api.notFound)
	if auth := NewJwtAuth(cfg.Auth); auth.Enabled() {
		log.Infof("bearer auth enabled for %d access keys", len(auth.Creds))
		api.Use(auth.Middleware)
	}

	// each path is registered a second time without a method so a known
	// route hit with the wrong method answers 405 instead of falling to 404
	handle := func(path, method string, h http.HandlerFunc) {
		api.HandleFunc(path, h).Methods(method)
		api.HandleFunc(path, s.api.methodNotAllowed)
	}
	handle("/steps", http.MethodGet, s.api.handleSteps)
	handle("/solve", http.MethodPost, s.api.post(s.api.handleSolve))
	handle("/scramble", http.MethodPost, s.api.post(s.api.handleScramble))
	for _, name := range []string{"invert", "print", "cleanup", "unniss"} {
		handle("/"+name, http.MethodPost, s.api.post(s.api.scrambleCommand(name)))
	}

	r.PathPrefix("/").Handler(static)

	// wrapped outside the router so 404 and 405 responses are logged too
	s.handler = s.track(RequestIDMiddleware(LoggingMiddleware(RecoverMiddleware(r))))

	s.http = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       120 * time.Second,
		// no WriteTimeout: a solve may legitimately run for hours
		BaseContext: func(net.Listener) context.Context {
			return s.baseCtx
		},
	}
	return s, nil
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.inflight.Add(1)
		defer s.inflight.Done()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(l net.Listener) error {
	err := s.http.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	if timeout := s.cfg.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := s.http.Shutdown(ctx)
	if err != nil {
		log.Warnf("shutdown: %s, killing running solvers", err)
	}
	s.cancelBase()
	s.inflight.Wait()
	return err
}

// Check runs `steps` once and logs what the solver offers.
func (s *Server) Check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/api/steps", nil)
	if err != nil {
		log.Errorf("check: %s", err)
		return
	}
	steps, err := s.api.ListSteps(req)
	if err != nil {
		log.Errorf("check: solver %s not usable: %s", s.cfg.Solver.Path, err)
		return
	}
	log.Infof("check: solver %s offers %d steps", s.cfg.Solver.Path, len(steps))
}

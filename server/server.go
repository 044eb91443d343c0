// Package server exposes the solver, tokenizer and game sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"dicemath/config"
	"dicemath/engine"
	"dicemath/game"
	"dicemath/solver"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Server struct {
	config    config.Config
	solver    *solver.Solver
	generator *game.Generator
	sessions  map[string]*storedSession
	mutex     sync.Mutex
	now       func() time.Time
}

// storedSession is a session and the last time a request touched it.
type storedSession struct {
	session  *engine.Session
	lastSeen time.Time
}

func New(cfg config.Config, generator *game.Generator) *Server {
	if generator == nil {
		generator = game.NewGenerator(
			game.WithFaces(cfg.Game.DieFaces),
			game.WithTargetRange(cfg.Game.MinTarget, cfg.Game.MaxTarget),
			game.WithMaxAttempts(cfg.Game.MaxAttempts),
		)
	}
	return &Server{
		config:    cfg,
		solver:    solver.NewSolver(),
		generator: generator,
		sessions:  make(map[string]*storedSession),
		now:       time.Now,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.POST("/solve", s.handleSolve)
	v1.POST("/tokenize", s.handleTokenize)
	v1.POST("/sessions", s.handleCreateSession)
	v1.GET("/sessions/:id", s.handleGetSession)
	v1.DELETE("/sessions/:id", s.handleDeleteSession)
	v1.POST("/sessions/:id/roll", s.handleRoll)
	v1.POST("/sessions/:id/answer", s.handleAnswer)
	v1.GET("/sessions/:id/hint", s.handleHint)

	return router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Server.Address,
		Handler: s.Router(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// addSession stores a session under a fresh id. Idle sessions are dropped
// first, then the least recently used ones while the store is full.
func (s *Server) addSession(session *engine.Session) string {
	id := uuid.NewString()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := s.now()
	s.expire(now)
	for len(s.sessions) > 0 && len(s.sessions) >= s.config.Server.MaxSessions {
		s.evictOldest()
	}
	s.sessions[id] = &storedSession{session: session, lastSeen: now}
	sessionsActive.Set(float64(len(s.sessions)))
	return id
}

func (s *Server) getSession(id string) (*engine.Session, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(stored.lastSeen) > s.config.Server.SessionTTL {
		delete(s.sessions, id)
		sessionsActive.Set(float64(len(s.sessions)))
		return nil, false
	}
	stored.lastSeen = now
	return stored.session, true
}

func (s *Server) deleteSession(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	sessionsActive.Set(float64(len(s.sessions)))
	return ok
}

// expire drops sessions idle for longer than the configured TTL. The caller
// holds the mutex.
func (s *Server) expire(now time.Time) {
	for id, stored := range s.sessions {
		if now.Sub(stored.lastSeen) > s.config.Server.SessionTTL {
			log.Debug().Msgf("session %s expired", id)
			delete(s.sessions, id)
		}
	}
}

func (s *Server) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for id, stored := range s.sessions {
		if oldest == "" || stored.lastSeen.Before(seen) {
			oldest, seen = id, stored.lastSeen
		}
	}
	log.Info().Msgf("session store full, evicting %s", oldest)
	delete(s.sessions, oldest)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"dicemath/engine"
	"dicemath/expr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.Server.SolveTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.solver.SolveContext(ctx, req.Dice, *req.Target)
	solveDuration.Observe(time.Since(start).Seconds())
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		solvesTotal.WithLabelValues("timeout").Inc()
		log.Warn().Msgf("solve %v -> %d abandoned: %v", req.Dice, *req.Target, err)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "solve timed out"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if !result.Found() {
		solvesTotal.WithLabelValues("none").Inc()
		c.JSON(http.StatusOK, SolveResponse{Tokens: []expr.Token{}})
		return
	}
	solvesTotal.WithLabelValues("found").Inc()
	c.JSON(http.StatusOK, SolveResponse{
		Found:      true,
		Expression: result.Expression,
		Tokens:     expr.Tokenize(result.Expression),
	})
}

func (s *Server) handleTokenize(c *gin.Context) {
	var req TokenizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, TokenizeResponse{Tokens: expr.Tokenize(req.Expression)})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req NewSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) { // Empty body means defaults
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	target := s.config.Game.DefaultTarget
	if req.Target != nil {
		target = *req.Target
	}
	session := engine.NewSession(s.generator,
		engine.WithMode(mode),
		engine.WithCustomTarget(target),
		engine.WithTolerance(s.config.Game.AnswerTolerance),
	)
	if err := session.Roll(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}

	id := s.addSession(session)
	log.Info().Msgf("created session %s", id)
	c.JSON(http.StatusCreated, SessionResponse{ID: id, View: session.View()})
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: id, View: session.View()})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if !s.deleteSession(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRoll(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := session.Roll(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SessionResponse{ID: id, View: session.View()})
}

func (s *Server) handleAnswer(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	verdict, err := session.Submit(req.Expression)
	view := SessionResponse{ID: id, View: session.View()}
	switch {
	case errors.Is(err, engine.ErrNotPlaying):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Session: &view})
		return
	case err != nil:
		answersTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Session: &view})
		return
	}

	if verdict.Correct {
		answersTotal.WithLabelValues("correct").Inc()
	} else {
		answersTotal.WithLabelValues("wrong").Inc()
	}
	c.JSON(http.StatusOK, AnswerResponse{Verdict: verdict, Session: view})
}

func (s *Server) handleHint(c *gin.Context) {
	_, session, ok := s.lookup(c)
	if !ok {
		return
	}
	hint, err := session.Hint()
	switch {
	case errors.Is(err, engine.ErrNoHint):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, HintResponse{Hint: hint})
}

// lookup resolves the :id parameter, writing a 404 when it is unknown.
func (s *Server) lookup(c *gin.Context) (string, *engine.Session, bool) {
	id := c.Param("id")
	session, ok := s.getSession(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return id, nil, false
	}
	return id, session, true
}

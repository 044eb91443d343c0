package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"dicemath/game"
	"dicemath/meta"
	"dicemath/solver"

	"github.com/rs/zerolog/log"
)

type Option func(s *Session)

// Session is one player's game: roll a puzzle, submit answers until one is
// correct, ask for the stored solution as a hint.
type Session struct {
	mu           sync.Mutex
	generator    *game.Generator
	mode         Mode
	customTarget int
	tolerance    float64
	puzzle       game.Puzzle
	solution     solver.Result
	status       Status
	message      string
}

// View is a read-only copy of a session's state.
type View struct {
	Mode        Mode        `json:"mode"`
	Status      Status      `json:"status"`
	Puzzle      game.Puzzle `json:"puzzle"`
	HasSolution bool        `json:"has_solution"`
	Message     string      `json:"message"`
}

func WithMode(mode Mode) Option {
	return func(s *Session) {
		if mode != "" {
			s.mode = mode
		}
	}
}

func WithCustomTarget(target int) Option {
	return func(s *Session) {
		s.customTarget = target
	}
}

func WithTolerance(tolerance float64) Option {
	return func(s *Session) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

func NewSession(generator *game.Generator, options ...Option) *Session {
	if generator == nil {
		panic("session needs a puzzle generator")
	}
	s := &Session{ // Default values
		generator:    generator,
		mode:         RandomMode,
		customTarget: meta.DEFAULT_TARGET,
		tolerance:    meta.ANSWER_TOLERANCE,
		status:       Idle,
		message:      "Roll the dice to start",
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Roll starts a new round, discarding any round in progress.
func (s *Session) Roll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		puzzle   game.Puzzle
		solution solver.Result
		err      error
	)
	switch s.mode {
	case RandomMode:
		puzzle, solution, err = s.generator.Random(ctx)
	case CustomMode:
		puzzle, solution, err = s.generator.ForTarget(s.customTarget)
	default:
		err = fmt.Errorf("%w: %q", ErrBadMode, s.mode)
	}
	if err != nil {
		return err
	}

	s.puzzle = puzzle
	s.solution = solution
	s.status = Playing
	s.message = "Combine the dice to reach the target"
	if s.mode == CustomMode && !solution.Found() {
		s.message = "Warning: this combination may have no solution"
	}

	log.Info().Msgf("rolled %s in %s mode (solvable: %t)", puzzle, s.mode, solution.Found())
	return nil
}

// Submit checks an answer for the current round. An expression that fails to
// evaluate or misuses the dice is reported through the message and the
// returned error; it does not end the round.
func (s *Session) Submit(expression string) (game.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Playing {
		return game.Verdict{}, ErrNotPlaying
	}

	verdict, err := game.Check(s.puzzle, expression, s.tolerance)
	switch {
	case errors.Is(err, game.ErrUnknownDie):
		s.message = "Only the rolled dice can be used"
		return verdict, err
	case errors.Is(err, game.ErrDieReused):
		s.message = "Each die can only be used once"
		return verdict, err
	case err != nil:
		s.message = "Invalid expression"
		return verdict, err
	}

	if verdict.Correct {
		s.status = Won
		s.message = "Perfect! Challenge complete!"
		log.Info().Msgf("solved %s with %s", s.puzzle, expression)
	} else {
		rounded := math.Round(verdict.Value*1000) / 1000
		s.message = fmt.Sprintf("Result is %s, not %d", strconv.FormatFloat(rounded, 'f', -1, 64), s.puzzle.Target)
	}
	return verdict, nil
}

// Hint returns the stored solution written as an equation.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == Idle {
		return "", ErrNotPlaying
	}
	if !s.solution.Found() {
		return "", ErrNoHint
	}
	s.message = fmt.Sprintf("Hint: %s=%d", s.solution.Expression, s.puzzle.Target)
	return s.message, nil
}

// Solution returns the stored solution of the current round.
func (s *Session) Solution() solver.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.solution
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Mode:        s.mode,
		Status:      s.status,
		Puzzle:      s.puzzle,
		HasSolution: s.solution.Found(),
		Message:     s.message,
	}
}

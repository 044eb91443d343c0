package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dicemath/meta"
	"dicemath/solver"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type GeneratorOption func(g *Generator)

// Generator rolls puzzles and solves them so callers know whether a
// solution exists.
type Generator struct {
	mu          sync.Mutex
	rand        *rand.Rand
	solver      *solver.Solver
	faces       int
	minTarget   int
	maxTarget   int
	maxAttempts int
}

func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.rand = rand.New(rand.NewSource(seed))
	}
}

func WithFaces(faces int) GeneratorOption {
	return func(g *Generator) {
		if faces > 0 {
			g.faces = faces
		}
	}
}

func WithTargetRange(minTarget, maxTarget int) GeneratorOption {
	return func(g *Generator) {
		if minTarget <= maxTarget {
			g.minTarget = minTarget
			g.maxTarget = maxTarget
		}
	}
}

func WithMaxAttempts(attempts int) GeneratorOption {
	return func(g *Generator) {
		if attempts > 0 {
			g.maxAttempts = attempts
		}
	}
}

func WithSolver(s *solver.Solver) GeneratorOption {
	return func(g *Generator) {
		if s != nil {
			g.solver = s
		}
	}
}

func NewGenerator(options ...GeneratorOption) *Generator {
	g := &Generator{ // Default values
		rand:        rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		solver:      solver.NewSolver(),
		faces:       meta.DIE_FACES,
		minTarget:   meta.MIN_TARGET,
		maxTarget:   meta.MAX_TARGET,
		maxAttempts: meta.MAX_ATTEMPTS,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Random rolls targets and dice until it finds a solvable puzzle. Rolls are
// made in rounds of maxAttempts; ctx is checked between rounds.
func (g *Generator) Random(ctx context.Context) (Puzzle, solver.Result, error) {
	for round := 1; ; round++ {
		for attempt := 0; attempt < g.maxAttempts; attempt++ {
			puzzle := Puzzle{Target: g.rollTarget(), Dice: g.rollDice()}
			result, err := g.solver.Solve(puzzle.Dice, puzzle.Target)
			if err != nil {
				return Puzzle{}, solver.NoSolution, err
			}
			if result.Found() {
				return puzzle, result, nil
			}
		}

		log.Debug().Msgf("no solvable puzzle after %d rounds of %d rolls", round, g.maxAttempts)
		if err := ctx.Err(); err != nil {
			return Puzzle{}, solver.NoSolution, fmt.Errorf("rolling puzzle: %w", err)
		}
	}
}

// ForTarget rolls dice for a fixed target. The puzzle may have no solution,
// in which case the result is solver.NoSolution and the error is nil.
func (g *Generator) ForTarget(target int) (Puzzle, solver.Result, error) {
	puzzle := Puzzle{Target: target, Dice: g.rollDice()}
	result, err := g.solver.Solve(puzzle.Dice, puzzle.Target)
	if err != nil {
		return Puzzle{}, solver.NoSolution, err
	}
	return puzzle, result, nil
}

func (g *Generator) rollTarget() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.minTarget + g.rand.Intn(g.maxTarget-g.minTarget+1)
}

func (g *Generator) rollDice() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	dice := make([]int, NumDice)
	for i := range dice {
		dice[i] = g.rand.Intn(g.faces) + 1
	}
	return dice
}

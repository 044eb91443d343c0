package experiments

import (
	"context"
	"fmt"
	"slices"
	"time"

	"dicemath/experiments/metrics"
	"dicemath/game"
	"dicemath/solver"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Multisets lists every non-decreasing sequence of n values in [1, faces],
// i.e. every distinct roll of n dice ignoring order.
func Multisets(faces, n int) [][]int {
	var out [][]int
	current := make([]int, n)
	var fill func(pos, lowest int)
	fill = func(pos, lowest int) {
		if pos == n {
			out = append(out, append([]int(nil), current...))
			return
		}
		for v := lowest; v <= faces; v++ {
			current[pos] = v
			fill(pos+1, v)
		}
	}
	fill(0, 1)
	return out
}

// RunSurvey solves every distinct roll against every target in the configured
// range. Each roll is one task on a pool of config.Goroutines workers.
// Records come back ordered by roll, then target.
func RunSurvey(ctx context.Context, config metrics.SurveyConfig) ([]metrics.SolveRecord, error) {
	if config.MinTarget > config.MaxTarget {
		return nil, fmt.Errorf("invalid target range [%d, %d]", config.MinTarget, config.MaxTarget)
	}
	rolls := Multisets(config.DieFaces, game.NumDice)
	targets := config.MaxTarget - config.MinTarget + 1
	records := make([]metrics.SolveRecord, len(rolls)*targets)

	log.Info().Msgf("starting %s survey of %d rolls x %d targets...", config.Name, len(rolls), targets)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Goroutines, 1))
	for ri, dice := range rolls {
		g.Go(func() error {
			collector := metrics.NewCollector()
			s := solver.NewSolver(solver.WithCollector(collector))
			for ti := 0; ti < targets; ti++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				target := config.MinTarget + ti
				collector.Start()
				result, err := s.Solve(dice, target)
				if err != nil {
					return fmt.Errorf("solving %v -> %d: %w", dice, target, err)
				}
				records[ri*targets+ti] = metrics.SolveRecord{
					Dice:         dice,
					Target:       target,
					Found:        result.Found(),
					Expression:   result.Expression,
					SearchMetric: collector.Complete(),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed %s survey", config.Name)
	return records, nil
}

// Summarize groups records by target, in ascending target order.
func Summarize(records []metrics.SolveRecord) []metrics.TargetSummary {
	index := make(map[int]int)
	var summaries []metrics.TargetSummary
	var totals []time.Duration
	for _, r := range records {
		i, ok := index[r.Target]
		if !ok {
			i = len(summaries)
			index[r.Target] = i
			summaries = append(summaries, metrics.TargetSummary{Target: r.Target})
			totals = append(totals, 0)
		}
		summaries[i].Puzzles++
		if r.Found {
			summaries[i].Solvable++
		}
		totals[i] += r.Duration
	}
	for i := range summaries {
		summaries[i].MeanDuration = totals[i] / time.Duration(summaries[i].Puzzles)
	}
	slices.SortFunc(summaries, func(a, b metrics.TargetSummary) int { return a.Target - b.Target })
	return summaries
}

// RunAndStore runs a survey and writes its config, records and summary under root.
func RunAndStore(ctx context.Context, root string, config metrics.SurveyConfig) (string, error) {
	records, err := RunSurvey(ctx, config)
	if err != nil {
		return "", err
	}

	writer, err := metrics.NewWriter(root, config.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create survey writer: %w", err)
	}

	err = writer.WriteConfig(config)
	if err != nil {
		return "", fmt.Errorf("failed to store survey config: %w", err)
	}
	log.Info().Msg("stored survey config")

	err = writer.WriteSolveRecords(records)
	if err != nil {
		return "", fmt.Errorf("failed to write solve records: %w", err)
	}
	log.Info().Msg("stored solve records")

	err = writer.WriteSummaries(Summarize(records))
	if err != nil {
		return "", fmt.Errorf("failed to write summaries: %w", err)
	}
	log.Info().Msg("stored summaries")

	return writer.Dir(), nil
}

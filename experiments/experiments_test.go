package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dicemath/experiments/metrics"
	"dicemath/solver"

	"github.com/stretchr/testify/require"
)

func TestMultisets(t *testing.T) {
	t.Run("small space", func(t *testing.T) {
		require.Equal(t, [][]int{{1, 1}, {1, 2}, {2, 2}}, Multisets(2, 2))
	})

	t.Run("five six-sided dice", func(t *testing.T) {
		rolls := Multisets(6, 5)

		require.Len(t, rolls, 252, "C(10, 5) distinct rolls")
		require.Equal(t, []int{1, 1, 1, 1, 1}, rolls[0])
		require.Equal(t, []int{6, 6, 6, 6, 6}, rolls[len(rolls)-1])
	})
}

func TestRunSurvey(t *testing.T) {
	config := metrics.SurveyConfig{Name: "test", DieFaces: 2, MinTarget: 1, MaxTarget: 3, Goroutines: 3}

	records, err := RunSurvey(context.Background(), config)

	require.NoError(t, err)
	require.Len(t, records, 6*3, "Six rolls of two-sided dice times three targets")
	require.Equal(t, []int{1, 1, 1, 1, 1}, records[0].Dice)
	require.Equal(t, 1, records[0].Target)
	require.Equal(t, 3, records[2].Target)
	for _, r := range records {
		want, err := solver.Solve(r.Dice, r.Target)
		require.NoError(t, err)
		require.Equal(t, want.Found(), r.Found, "Survey should agree with a direct solve of %v -> %d", r.Dice, r.Target)
		require.Equal(t, want.Expression, r.Expression)
	}
}

func TestRunSurveyErrors(t *testing.T) {
	t.Run("inverted range", func(t *testing.T) {
		_, err := RunSurvey(context.Background(), metrics.SurveyConfig{DieFaces: 2, MinTarget: 5, MaxTarget: 1})

		require.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := RunSurvey(ctx, metrics.SurveyConfig{DieFaces: 6, MinTarget: 10, MaxTarget: 99, Goroutines: 2})

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSummarize(t *testing.T) {
	records := []metrics.SolveRecord{
		{Target: 7, Found: true, SearchMetric: metrics.SearchMetric{Duration: 2 * time.Millisecond}},
		{Target: 3, Found: false, SearchMetric: metrics.SearchMetric{Duration: 4 * time.Millisecond}},
		{Target: 7, Found: false, SearchMetric: metrics.SearchMetric{Duration: 4 * time.Millisecond}},
	}

	got := Summarize(records)

	require.Equal(t, []metrics.TargetSummary{
		{Target: 3, Puzzles: 1, Solvable: 0, MeanDuration: 4 * time.Millisecond},
		{Target: 7, Puzzles: 2, Solvable: 1, MeanDuration: 3 * time.Millisecond},
	}, got)
}

func TestRunAndStore(t *testing.T) {
	root := t.TempDir()

	dir, err := RunAndStore(context.Background(), root, metrics.SurveyConfig{Name: "tiny", DieFaces: 1, MinTarget: 4, MaxTarget: 6, Goroutines: 1})

	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "tiny"), filepath.Dir(dir))
	for _, name := range []string{"config.csv", "records.csv", "summary.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "%s should be written", name)
	}
}

package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SurveyConfig describes the puzzle space a survey covered.
type SurveyConfig struct {
	Name       string
	DieFaces   int
	MinTarget  int
	MaxTarget  int
	Goroutines int
}

// TargetSummary aggregates the records of a single target.
type TargetSummary struct {
	Target       int
	Puzzles      int
	Solvable     int
	MeanDuration time.Duration
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteConfig(config SurveyConfig) error {
	header := []string{"name", "die_faces", "min_target", "max_target", "goroutines"}
	row := []string{
		config.Name,
		strconv.Itoa(config.DieFaces),
		strconv.Itoa(config.MinTarget),
		strconv.Itoa(config.MaxTarget),
		strconv.Itoa(config.Goroutines),
	}
	return w.write("config.csv", header, [][]string{row})
}

func (w *Writer) WriteSolveRecords(records []SolveRecord) error {
	header := []string{"dice", "target", "found", "expression", "duration", "expansions", "memo_hits", "memo_size", "pruned_divisions"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		dice := make([]string, len(record.Dice))
		for i, d := range record.Dice {
			dice[i] = strconv.Itoa(d)
		}
		rows = append(rows, []string{
			strings.Join(dice, " "),
			strconv.Itoa(record.Target),
			strconv.FormatBool(record.Found),
			record.Expression,
			record.Duration.String(),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.MemoHits),
			strconv.Itoa(record.MemoSize),
			strconv.Itoa(record.PrunedDivisions),
		})
	}
	return w.write("records.csv", header, rows)
}

func (w *Writer) WriteSummaries(summaries []TargetSummary) error {
	header := []string{"target", "puzzles", "solvable", "mean_duration"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Target),
			strconv.Itoa(s.Puzzles),
			strconv.Itoa(s.Solvable),
			s.MeanDuration.String(),
		})
	}
	return w.write("summary.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

package main

import (
	"fmt"

	"dicemath/config"
	"dicemath/experiments"
	"dicemath/experiments/metrics"

	"github.com/spf13/cobra"
)

func newSurveyCmd(cfg *config.Config) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Solve every distinct roll against every target and write CSV results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := experiments.RunAndStore(cmd.Context(), cfg.Survey.OutputDir, metrics.SurveyConfig{
				Name:       name,
				DieFaces:   cfg.Game.DieFaces,
				MinTarget:  cfg.Game.MinTarget,
				MaxTarget:  cfg.Game.MaxTarget,
				Goroutines: cfg.Survey.Goroutines,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "results written to %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "solvability", "survey name, used as the output subdirectory")
	return cmd
}

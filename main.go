package main

import (
	"os"

	"dicemath/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand to a config loaded before it runs.
func newRootCmd() *cobra.Command {
	var (
		configPath string
		cfg        config.Config
	)

	root := &cobra.Command{
		Use:          "dicemath",
		Short:        "Combine five dice with + - * / to reach a target",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return setupLogging(cfg.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "dicemath.yaml", "path to the YAML config file")

	root.AddCommand(
		newSolveCmd(&cfg),
		newTokenizeCmd(),
		newPlayCmd(&cfg),
		newServeCmd(&cfg),
		newSurveyCmd(&cfg),
	)
	return root
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"dicemath/config"
	"dicemath/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver and game sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(*cfg, nil).Run(ctx)
		},
	}
}

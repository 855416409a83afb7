package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fanaberia/fanaberia/cmd/warp/cmd"
	"github.com/fanaberia/fanaberia/internal/config"
	"github.com/fanaberia/fanaberia/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "warp",
		Short:        "Operator tools for the fanaberia database",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(true, "")
		},
	}

	load := func() *config.Config { return config.Load() }
	rootCmd.AddCommand(cmd.MigrateCmd(load))
	rootCmd.AddCommand(cmd.AdminCmd(load))
	rootCmd.AddCommand(cmd.ImportCmd(load))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

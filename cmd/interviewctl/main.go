// Command interviewctl runs offline maintenance tasks for the interview
// builder: indexing reference documents and dry-running candidate imports.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-builder/internal/config"
	"alfredoptarigan/interview-builder/internal/logger"
)

var (
	cfg *config.Config
	log *zap.Logger

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "interviewctl",
	Short:         "Interview builder maintenance tool",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		level := cfg.Server.LogLevel
		if verbose {
			level = "debug"
		}
		var err error
		log, err = logger.New(level, true)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(ingestCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"videodupes/internal/config"
	"videodupes/internal/logging"
)

// app carries state shared by subcommands.
type app struct {
	cfg     *config.Config
	verbose bool
}

func newRootCmd(ctx context.Context) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "videodupes",
		Short: "Find duplicate video files",
		Long: `Finds byte-identical video files under a directory by grouping them by size
and fingerprinting their head, middle and tail.
Example: videodupes scan --min-size 100MB ~/Videos`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
	}
	rootCmd.SetContext(ctx)
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newScanCmd(a),
		newTrashCmd(a),
		newPreviewCmd(a),
		newRevealCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Options{Dir: cfg.LogDir, Level: level, Stderr: a.verbose}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted by user")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := newRootCmd(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}

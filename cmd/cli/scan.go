package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"videodupes/internal/config"
	"videodupes/internal/scan"
)

type scanFlags struct {
	workers         int
	walkWorkers     int
	extensions      []string
	minSize         config.Bytes
	maxSize         config.Bytes
	verifyThreshold config.Bytes
	excludeHidden   bool
	excludeDirs     []string
	json            bool
	noProgress      bool
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Report duplicate video files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			opts := a.cfg.ScanOptions()
			var progress *progressObserver
			if !f.json && !f.noProgress {
				progress = newProgressObserver(cmd.ErrOrStderr())
				opts.Observer = progress
			}

			result, err := scan.Scan(cmd.Context(), args[0], opts)
			if progress != nil {
				progress.Close()
			}
			if err != nil {
				switch {
				case errors.Is(err, scan.ErrNotFound):
					return fmt.Errorf("directory not found: %w", err)
				case errors.Is(err, scan.ErrPermission):
					return fmt.Errorf("cannot read directory: %w", err)
				default:
					return err
				}
			}

			if f.json {
				return writeJSON(cmd.OutOrStdout(), result.Report())
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&f.workers, "workers", "w", 0, "Number of hashing workers (default: 2x CPU cores, at most 16)")
	flags.IntVar(&f.walkWorkers, "walk-workers", 0, "Number of concurrent directory reads (default: number of CPU cores)")
	flags.StringSliceVarP(&f.extensions, "ext", "e", []string{}, "Extra file extensions to treat as video (can be specified multiple times)")
	flags.Var(&f.minSize, "min-size", "Ignore files smaller than this, e.g. 100MB")
	flags.Var(&f.maxSize, "max-size", "Ignore files larger than this, e.g. 4GiB")
	flags.Var(&f.verifyThreshold, "verify-threshold", "Confirm groups of files at least this large by full content")
	flags.BoolVar(&f.excludeHidden, "exclude-hidden", false, "Skip hidden files and directories")
	flags.StringSliceVar(&f.excludeDirs, "exclude-dir", []string{}, "Directories to skip (can be specified multiple times)")
	flags.BoolVar(&f.json, "json", false, "Print the report as JSON")
	flags.BoolVar(&f.noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

// apply overrides cfg with the flags that were set on the command line.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("walk-workers") {
		cfg.WalkWorkers = f.walkWorkers
	}
	if changed("ext") {
		cfg.Extensions = f.extensions
	}
	if changed("min-size") {
		cfg.MinSize = f.minSize
	}
	if changed("max-size") {
		cfg.MaxSize = f.maxSize
	}
	if changed("verify-threshold") {
		cfg.VerifyThreshold = f.verifyThreshold
	}
	if changed("exclude-hidden") {
		cfg.ExcludeHidden = f.excludeHidden
	}
	if changed("exclude-dir") {
		dirs := make([]string, len(f.excludeDirs))
		for i, d := range f.excludeDirs {
			dirs[i] = filepath.Clean(d)
		}
		cfg.ExcludeDirs = dirs
	}
}

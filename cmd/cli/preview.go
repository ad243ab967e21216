package main

import (
	"github.com/spf13/cobra"

	"videodupes/internal/logging"
	"videodupes/internal/media"
	"videodupes/internal/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Write a video file's bytes to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := preview.Stream(cmd.Context(), cmd.OutOrStdout(), args[0], media.Matcher(a.cfg.Extensions))
			if err != nil {
				return err
			}
			logging.WithField("path", args[0]).Debugf("streamed %d bytes", n)
			return nil
		},
	}
}

func newRevealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal <file>",
		Short: "Open a file's location in the file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return preview.Reveal(args[0])
		},
	}
}

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"videodupes/internal/trash"
)

func newTrashCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trash <file>...",
		Short: "Move files to the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var remover trash.Remover
			if a.cfg.TrashDir != "" {
				remover = trash.New(a.cfg.TrashDir)
			} else {
				var err error
				if remover, err = trash.System(); err != nil {
					return err
				}
			}

			outcomes := remover.Remove(cmd.Context(), args)
			summary := trash.Summarize(outcomes)

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				printOutcomes(cmd.OutOrStdout(), outcomes)
			}
			if !summary.Success {
				return errors.New(summary.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	return cmd
}

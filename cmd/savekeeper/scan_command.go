package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"savekeeper/internal/catalog"
	"savekeeper/internal/task"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Build the title catalog from the cache or the device",
		Long: `Load the title catalog. A current cache file is used as-is; otherwise
every title pool on the device is enumerated and the cache is rewritten.
Use --rebuild to discard the cache first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if rebuild {
				if err := sess.store.Remove(cmd.Context()); err != nil {
					return err
				}
			}

			progress := task.New("scan", sess.logger)
			outcome := sess.catalog.Load(cmd.Context(), progress)
			sess.catalog.HotSwapCheck(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:   %s\n", sourceLabel(outcome.Path))
			fmt.Fprintf(out, "Titles:   %d\n", sess.catalog.Len())
			if card := sess.catalog.Card(); card != nil {
				fmt.Fprintf(out, "Card:     %s (%s)\n", card.Title().String(), card.ID())
			} else {
				fmt.Fprintln(out, "Card:     none")
			}
			fmt.Fprintf(out, "Build ID: %s\n", outcome.CorrelationID)
			if outcome.CacheErr != nil {
				fmt.Fprintf(out, "Cache:    %v\n", outcome.CacheErr)
			}
			if outcome.Degraded {
				return fmt.Errorf("catalog incomplete: %w", outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Discard the cache and enumerate the device")
	return cmd
}

func sourceLabel(path catalog.Path) string {
	if path == catalog.PathWarm {
		return "cache"
	}
	return "device"
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"savekeeper/internal/task"
	"savekeeper/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the catalog's removable card slot in sync with the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			outcome := sess.catalog.Load(cmd.Context(), task.New("scan", sess.logger))
			if outcome.Degraded {
				return fmt.Errorf("catalog incomplete: %w", outcome.Err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog ready: %d titles (%s)\n", sess.catalog.Len(), sourceLabel(outcome.Path))

			w, err := watcher.New(watcher.Options{
				Catalog:    sess.catalog,
				LockPath:   sess.cfg.LockPath(),
				Interval:   sess.cfg.ReconcileEvery(),
				UseNetlink: sess.cfg.Catalog.UseNetlink,
				CardDevice: sess.cfg.Device.CardDevice,
				OnChange: func(context.Context) {
					if card := sess.catalog.Card(); card != nil {
						fmt.Fprintf(out, "Card inserted: %s (%s)\n", card.Title().String(), card.ID())
						return
					}
					fmt.Fprintln(out, "Card removed")
				},
				Logger: sess.logger,
			})
			if err != nil {
				return err
			}
			if err := w.Run(cmd.Context()); err != nil {
				if errors.Is(err, watcher.ErrAlreadyRunning) {
					return fmt.Errorf("another watcher holds %s", sess.cfg.LockPath())
				}
				return err
			}
			return nil
		},
	}
}

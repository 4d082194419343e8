package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"savekeeper/internal/cachefile"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the catalog cache",
	}

	cacheCmd.AddCommand(newCacheInfoCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the cache file header",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			info, err := store.Stat()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			if !info.Exists {
				fmt.Fprintf(out, "No cache at %s\n", info.Path)
				return nil
			}
			rows := [][]string{
				{"Path", info.Path},
				{"Size", units.HumanSize(float64(info.Size))},
				{"Modified", info.ModTime.Local().Format("2006-01-02 15:04:05")},
				{"Magic", yesNo(info.MagicOK)},
				{"Revision", fmt.Sprintf("0x%02X (current 0x%02X)", info.Revision, cachefile.Revision)},
				{"Records", fmt.Sprintf("%d", info.Count)},
				{"Usable", yesNo(info.Current)},
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			} else {
				for _, row := range rows {
					fmt.Fprintf(out, "%-9s %s\n", row[0]+":", row[1])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cache so the next scan enumerates the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			if err := store.Remove(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", store.Path())
			return nil
		},
	}
}

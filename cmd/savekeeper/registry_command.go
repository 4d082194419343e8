package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"savekeeper/internal/device"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the device title registry",
	}
	registryCmd.AddCommand(newRegistryImportCommand(ctx))
	return registryCmd
}

func newRegistryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <manifest.toml>",
		Short: "Load titles, save data and card state from a TOML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manifest, err := device.LoadManifest(args[0])
			if err != nil {
				return err
			}
			registry, err := device.OpenRegistry(cmd.Context(), cfg.Device.RegistryPath)
			if err != nil {
				return fmt.Errorf("open device registry: %w", err)
			}
			defer registry.Close()

			stats, err := registry.Import(cmd.Context(), manifest)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d titles with %d save types into %s\n", stats.Titles, stats.SaveTypes, registry.Path())
			if stats.Card {
				fmt.Fprintln(out, "Card slot updated")
			}
			fmt.Fprintln(out, "Run `savekeeper scan --rebuild` to refresh the catalog cache.")
			return nil
		},
	}
}

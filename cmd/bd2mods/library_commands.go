package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bd2mods/internal/config"
	"bd2mods/internal/scan"
	"bd2mods/internal/store"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Scan mod library folders",
	}

	libraryCmd.AddCommand(newLibraryRescanCommand(ctx))

	return libraryCmd
}

func newLibraryRescanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rescan [ROOT...]",
		Short: "Refresh every <root>/<author>/<mod> folder in the database",
		Long: "Walk each library root and upsert every mod folder found two levels down.\n" +
			"Character, costume, and mod type assignments made during import are kept.\n" +
			"Without arguments the configured library.roots are scanned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				roots := cfg.Library.Roots
				if len(args) > 0 {
					roots = make([]string, 0, len(args))
					for _, arg := range args {
						expanded, err := config.ExpandPath(arg)
						if err != nil {
							return fmt.Errorf("resolve root %q: %w", arg, err)
						}
						roots = append(roots, expanded)
					}
				}
				if len(roots) == 0 {
					return errors.New("no library roots configured; set library.roots or pass ROOT arguments")
				}

				scanner := scan.NewScanner(st, ctx.classifier(), ctx.loggerValue())
				summary, err := scanner.Rescan(cmd.Context(), roots)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, summary)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scanned %d roots: %d mods discovered, %d upserted\n",
					summary.ScannedDirs, summary.DiscoveredMods, summary.Upserts)
				if summary.Errors > 0 {
					fmt.Fprintf(out, "%d entries could not be read; see the log for details\n", summary.Errors)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the scan summary as JSON")
	return cmd
}

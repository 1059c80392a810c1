package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bd2mods/internal/catalog"
	"bd2mods/internal/config"
	"bd2mods/internal/scraper"
	"bd2mods/internal/store"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the character and costume catalog",
	}

	catalogCmd.AddCommand(newCatalogSyncCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogScrapeCommand(ctx))

	return catalogCmd
}

func newCatalogSyncCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge a catalog file (or the builtin catalog) into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				source := strings.TrimSpace(filePath)
				if source == "" {
					source = cfg.Catalog.File
				} else {
					expanded, err := config.ExpandPath(source)
					if err != nil {
						return fmt.Errorf("resolve catalog path: %w", err)
					}
					source = expanded
				}
				records, label, err := catalog.Load(source)
				if err != nil {
					return err
				}
				report, err := catalog.NewSynchronizer(st, ctx.loggerValue()).Sync(cmd.Context(), records)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d characters and %d costumes from %s (%d new aliases)\n",
					report.Characters, report.Costumes, label, report.AliasesAdded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Catalog JSON file (defaults to catalog.file, then the builtin catalog)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the sync report as JSON")
	return cmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog characters and costumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				records, err := catalog.Export(cmd.Context(), st)
				if err != nil {
					return err
				}
				if jsonOutput {
					if records == nil {
						records = []catalog.CharacterRecord{}
					}
					return writeJSON(cmd, records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Catalog is empty; run `bd2mods catalog sync`")
					return nil
				}
				counts, err := catalog.Summary(cmd.Context(), st)
				if err != nil {
					return err
				}
				fmt.Fprint(out, renderTable(
					[]string{"Character", "Slug", "Costumes", "Aliases"},
					buildCatalogRows(records),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d characters, %d costumes, %d aliases\n", counts.Characters, counts.Costumes, counts.Aliases)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the catalog as JSON in catalog file format")
	return cmd
}

func buildCatalogRows(records []catalog.CharacterRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		names := make([]string, 0, len(record.Costumes))
		for _, costume := range record.Costumes {
			names = append(names, costume.DisplayName)
		}
		rows = append(rows, []string{
			record.DisplayName,
			record.Slug,
			orDash(strings.Join(names, ", ")),
			orDash(strings.Join(record.Aliases, ", ")),
		})
	}
	return rows
}

func newCatalogScrapeCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var syncAfter bool
	var noRender bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the catalog from the configured wiki sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var opts []scraper.Option
			if noRender {
				opts = append(opts, scraper.WithRenderFetcher(nil))
			}
			s, err := scraper.New(cfg, ctx.loggerValue(), opts...)
			if err != nil {
				return err
			}
			report, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			if target := strings.TrimSpace(outPath); target != "" {
				if err := writeCatalogFile(target, report.Records); err != nil {
					return err
				}
			}

			var syncReport *catalog.Report
			if syncAfter {
				err := ctx.withStore(func(_ *config.Config, st *store.Store) error {
					r, err := catalog.NewSynchronizer(st, ctx.loggerValue()).Sync(cmd.Context(), report.Records)
					if err != nil {
						return err
					}
					syncReport = &r
					return nil
				})
				if err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd, struct {
					Scrape scraper.Report  `json:"scrape"`
					Sync   *catalog.Report `json:"sync,omitempty"`
				}{report, syncReport})
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(report.Sources))
			for _, src := range report.Sources {
				rows = append(rows, []string{
					src.URL,
					src.Method,
					src.SelectorSet,
					strconv.Itoa(src.Characters),
					strconv.Itoa(src.Costumes),
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Source", "Fetch", "Selectors", "Characters", "Costumes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			if outPath != "" {
				fmt.Fprintf(out, "Wrote catalog to %s\n", outPath)
			}
			if syncReport != nil {
				fmt.Fprintf(out, "Synced %d characters and %d costumes\n", syncReport.Characters, syncReport.Costumes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the scraped catalog to a JSON file")
	cmd.Flags().BoolVar(&syncAfter, "sync", false, "Merge the scraped catalog into the database")
	cmd.Flags().BoolVar(&noRender, "no-render", false, "Skip headless rendering and fetch pages directly")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the scrape report as JSON")
	return cmd
}

func writeCatalogFile(path string, records []catalog.CharacterRecord) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	data, err := catalog.Encode(records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}

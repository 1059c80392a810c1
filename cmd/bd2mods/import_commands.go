package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bd2mods/internal/catalog"
	"bd2mods/internal/config"
	"bd2mods/internal/scan"
	"bd2mods/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Stage and commit mods from an author folder",
		Long: "Import runs in two steps. `import dry-run` infers character, costume,\n" +
			"mod type, and author for every mod folder and writes drafts for review.\n" +
			"`import commit` stores the reviewed drafts.",
	}

	importCmd.AddCommand(newImportDryRunCommand(ctx))
	importCmd.AddCommand(newImportCommitCommand(ctx))

	return importCmd
}

func newImportDryRunCommand(ctx *commandContext) *cobra.Command {
	var author string
	var downloadURL string
	var outPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "dry-run AUTHOR_DIR",
		Short: "Infer drafts for every mod folder in AUTHOR_DIR without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve author dir: %w", err)
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				if _, _, err := catalog.NewSynchronizer(st, ctx.loggerValue()).SeedBuiltin(cmd.Context()); err != nil {
					return err
				}
				scanner := scan.NewScanner(st, ctx.classifier(), ctx.loggerValue())
				drafts, err := scanner.DryRun(cmd.Context(), scan.DryRunOptions{
					AuthorDir:          authorDir,
					DefaultAuthor:      author,
					DefaultDownloadURL: downloadURL,
				})
				if err != nil {
					return err
				}

				if target := strings.TrimSpace(outPath); target != "" {
					if err := writeDraftsFile(target, drafts); err != nil {
						return err
					}
				}
				if jsonOutput {
					return scan.WriteDrafts(cmd.OutOrStdout(), drafts)
				}

				out := cmd.OutOrStdout()
				if len(drafts) == 0 {
					fmt.Fprintf(out, "No mod folders found in %s\n", authorDir)
					return nil
				}
				fmt.Fprint(out, renderTable(
					[]string{"Folder", "Author", "Type", "Character", "Costume", "Confidence"},
					buildDraftRows(drafts, shouldColorize(out)),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				if outPath != "" {
					fmt.Fprintf(out, "Wrote %d drafts to %s; review them, then run `bd2mods import commit %s`\n",
						len(drafts), outPath, outPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author recorded on every draft (defaults to inference from the folder name)")
	cmd.Flags().StringVar(&downloadURL, "url", "", "Download URL recorded on every draft")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write drafts to a JSON file for review")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print drafts as JSON")
	return cmd
}

func buildDraftRows(drafts []scan.DraftMod, colorize bool) [][]string {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{
			d.DisplayName,
			orDash(d.Author),
			string(d.ModType),
			orDash(d.CharacterName),
			orDash(d.CostumeName),
			formatConfidence(d.InferConfidence, colorize),
		})
	}
	return rows
}

func writeDraftsFile(path string, drafts []scan.DraftMod) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve drafts path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create drafts directory: %w", err)
	}
	f, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("create drafts file: %w", err)
	}
	if err := scan.WriteDrafts(f, drafts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newImportCommitCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "commit DRAFTS_FILE",
		Short: "Store reviewed drafts, updating mods already registered at the same folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve drafts path: %w", err)
			}
			drafts, err := scan.ReadDraftsFile(path)
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				scanner := scan.NewScanner(st, ctx.classifier(), ctx.loggerValue())
				result, err := scanner.Commit(cmd.Context(), drafts)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d, updated %d\n", result.Inserted, result.Updated)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the commit result as JSON")
	return cmd
}

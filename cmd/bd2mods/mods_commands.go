package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bd2mods/internal/classify"
	"bd2mods/internal/config"
	"bd2mods/internal/scan"
	"bd2mods/internal/store"
)

func newModsCommand(ctx *commandContext) *cobra.Command {
	modsCmd := &cobra.Command{
		Use:   "mods",
		Short: "Inspect and manage registered mods",
	}

	modsCmd.AddCommand(newModsListCommand(ctx))
	modsCmd.AddCommand(newModsAddCommand(ctx))
	modsCmd.AddCommand(newModsInstalledCommand(ctx))
	modsCmd.AddCommand(newModsPurgeCommand(ctx))

	return modsCmd
}

func newModsListCommand(ctx *commandContext) *cobra.Command {
	var characterID int64
	var costumeID int64
	var author string
	var query string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mods, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.ModFilter{
				Author: author,
				Query:  query,
			}
			if cmd.Flags().Changed("character") {
				filter.CharacterID = &characterID
			}
			if cmd.Flags().Changed("costume") {
				filter.CostumeID = &costumeID
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				mods, err := st.ListMods(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					if mods == nil {
						mods = []store.Mod{}
					}
					return writeJSON(cmd, mods)
				}
				out := cmd.OutOrStdout()
				if len(mods) == 0 {
					fmt.Fprintln(out, "No mods found")
					return nil
				}
				names, err := loadCatalogNames(cmd, st)
				if err != nil {
					return err
				}
				fmt.Fprint(out, renderTable(
					[]string{"ID", "Name", "Author", "Type", "Character", "Costume", "Installed"},
					buildModRows(mods, names),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&characterID, "character", 0, "Only mods assigned to this character id")
	cmd.Flags().Int64Var(&costumeID, "costume", 0, "Only mods assigned to this costume id")
	cmd.Flags().StringVar(&author, "author", "", "Only mods whose author contains this text")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only mods whose name or folder contains this text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output mods as JSON")
	return cmd
}

type catalogNames struct {
	characters map[int64]string
	costumes   map[int64]string
}

func loadCatalogNames(cmd *cobra.Command, st *store.Store) (catalogNames, error) {
	characters, err := st.Characters(cmd.Context())
	if err != nil {
		return catalogNames{}, err
	}
	costumes, err := st.Costumes(cmd.Context())
	if err != nil {
		return catalogNames{}, err
	}
	names := catalogNames{
		characters: make(map[int64]string, len(characters)),
		costumes:   make(map[int64]string, len(costumes)),
	}
	for _, c := range characters {
		names.characters[c.ID] = c.DisplayName
	}
	for _, c := range costumes {
		names.costumes[c.ID] = c.DisplayName
	}
	return names, nil
}

func buildModRows(mods []store.Mod, names catalogNames) [][]string {
	rows := make([][]string, 0, len(mods))
	for _, mod := range mods {
		character, costume := "-", "-"
		if mod.CharacterID != nil {
			character = orDash(names.characters[*mod.CharacterID])
		}
		if mod.CostumeID != nil {
			costume = orDash(names.costumes[*mod.CostumeID])
		}
		installed := yesNo(mod.Installed)
		if mod.Installed && mod.TargetPath != "" {
			installed = mod.TargetPath
		}
		rows = append(rows, []string{
			strconv.FormatInt(mod.ID, 10),
			mod.DisplayName,
			mod.Author,
			string(mod.ModType),
			character,
			costume,
			installed,
		})
	}
	return rows
}

func newModsAddCommand(ctx *commandContext) *cobra.Command {
	var folderPath string
	var name string
	var author string
	var downloadURL string
	var modType string
	var characterID int64
	var costumeID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a mod folder manually",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(folderPath) == "" {
				return errors.New("--path is required")
			}
			expanded, err := config.ExpandPath(folderPath)
			if err != nil {
				return fmt.Errorf("resolve mod path: %w", err)
			}
			parsedType, err := classify.ParseModType(modType)
			if err != nil {
				return err
			}
			if !parsedType.IsPersisted() {
				return fmt.Errorf("mod type %q cannot be stored; use one of idle, cutscene, date, battle, ui, other", parsedType)
			}
			canonical := scan.Canonicalize(expanded)
			if strings.TrimSpace(name) == "" {
				name = lastSegment(canonical)
			}
			mod := store.NewMod{
				DisplayName: name,
				FolderPath:  canonical,
				Author:      author,
				DownloadURL: downloadURL,
				ModType:     parsedType,
			}
			if cmd.Flags().Changed("character") {
				mod.CharacterID = &characterID
			}
			if cmd.Flags().Changed("costume") {
				mod.CostumeID = &costumeID
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				created, err := st.AddMod(cmd.Context(), mod)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added mod %d: %s (%s)\n", created.ID, created.DisplayName, created.FolderPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderPath, "path", "", "Mod folder path")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the folder name)")
	cmd.Flags().StringVar(&author, "author", "", "Author")
	cmd.Flags().StringVar(&downloadURL, "url", "", "Download URL")
	cmd.Flags().StringVar(&modType, "type", "other", "Mod type: idle, cutscene, date, battle, ui, other")
	cmd.Flags().Int64Var(&characterID, "character", 0, "Character id")
	cmd.Flags().Int64Var(&costumeID, "costume", 0, "Costume id (must belong to --character)")
	return cmd
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 && idx < len(path)-1 {
		return path[idx+1:]
	}
	return path
}

func newModsInstalledCommand(ctx *commandContext) *cobra.Command {
	var target string
	var clearState bool

	cmd := &cobra.Command{
		Use:   "installed ID",
		Short: "Record where a mod is installed, or clear its install state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid mod id %q", args[0])
			}
			if clearState == (strings.TrimSpace(target) != "") {
				return errors.New("pass exactly one of --target or --clear")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				mod, err := st.SetInstalled(cmd.Context(), id, !clearState, target)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if mod.Installed {
					fmt.Fprintf(out, "Mod %d marked installed at %s\n", mod.ID, mod.TargetPath)
				} else {
					fmt.Fprintf(out, "Mod %d marked not installed\n", mod.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Install location")
	cmd.Flags().BoolVar(&clearState, "clear", false, "Clear the install state")
	return cmd
}

func newModsPurgeCommand(ctx *commandContext) *cobra.Command {
	var author string
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete registered mods (all, or one author's)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to purge without --yes")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				removed, err := st.PurgeMods(cmd.Context(), author)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d mods\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Only remove mods by this author (exact match)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the purge")
	return cmd
}

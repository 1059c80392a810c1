package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bd2mods/internal/catalog"
	"bd2mods/internal/classify"
	"bd2mods/internal/logging"
	"bd2mods/internal/resolve"
	"bd2mods/internal/services"
	"bd2mods/internal/store"
)

// Scanner discovers mod folders and merges them into the store.
type Scanner struct {
	store      *store.Store
	classifier *classify.Classifier
	logger     *slog.Logger
}

// NewScanner constructs a scanner. A nil classifier uses classify.Default.
func NewScanner(st *store.Store, classifier *classify.Classifier, logger *slog.Logger) *Scanner {
	if classifier == nil {
		classifier = classify.Default
	}
	return &Scanner{
		store:      st,
		classifier: classifier,
		logger:     logging.NewComponentLogger(logger, "scan"),
	}
}

// DryRunOptions configures DryRun.
type DryRunOptions struct {
	AuthorDir          string
	DefaultAuthor      string
	DefaultDownloadURL string
}

func (s *Scanner) begin(ctx context.Context, operation string) (context.Context, *slog.Logger) {
	if _, ok := services.RunIDFromContext(ctx); !ok {
		ctx = services.WithRunID(ctx, uuid.NewString())
	}
	ctx = services.WithOperation(ctx, operation)
	return ctx, logging.WithContext(ctx, s.logger)
}

// Rescan walks root/author/mod under every root and upserts each mod folder
// in a single transaction. Unreadable entries are counted and skipped.
// Existing character, costume, and mod type assignments are preserved.
func (s *Scanner) Rescan(ctx context.Context, roots []string) (ScanSummary, error) {
	ctx, logger := s.begin(ctx, "library_rescan")
	logger.Info("library rescan started", logging.Int("roots", len(roots)))

	var summary ScanSummary
	var discovered []store.DiscoveredMod
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return ScanSummary{}, err
		}
		summary.ScannedDirs++
		rootLogger := logger.With(logging.String("root", root))

		authors, err := os.ReadDir(root)
		if err != nil {
			summary.Errors++
			logging.WarnWithContext(rootLogger, "library root unreadable; skipping", "scan_root_unreadable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "mods under this root were not refreshed"),
				logging.String(logging.FieldErrorHint, "check that the library root exists and is readable"),
			)
			continue
		}
		for _, authorEntry := range authors {
			if !authorEntry.IsDir() {
				continue
			}
			authorFolder := authorEntry.Name()
			authorDir := filepath.Join(root, authorFolder)
			author := s.classifier.Author(authorFolder)

			mods, err := os.ReadDir(authorDir)
			if err != nil {
				summary.Errors++
				logging.WarnWithContext(rootLogger, "author folder unreadable; skipping", "scan_entry_unreadable",
					logging.String("path", authorDir),
					logging.Error(err),
				)
				continue
			}
			for _, modEntry := range mods {
				if !modEntry.IsDir() {
					continue
				}
				folderPath := Canonicalize(filepath.Join(authorDir, modEntry.Name()))
				summary.DiscoveredMods++
				rootLogger.Debug("mod folder discovered",
					logging.String("author_folder", authorFolder),
					logging.String("author", author),
					logging.String("display_name", modEntry.Name()),
					logging.String("folder_path", folderPath),
				)
				discovered = append(discovered, store.DiscoveredMod{
					FolderPath:  folderPath,
					DisplayName: modEntry.Name(),
					Author:      author,
				})
			}
		}
	}

	upserts := 0
	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		upserts = 0
		for _, mod := range discovered {
			if err := tx.UpsertDiscoveredMod(ctx, mod); err != nil {
				return err
			}
			upserts++
		}
		return nil
	})
	if err != nil {
		logging.ErrorWithContext(logger, "library rescan failed; no changes were applied", "library_rescan_failed",
			logging.Error(err),
			logging.Int("discovered_mods", summary.DiscoveredMods),
		)
		return ScanSummary{}, err
	}
	summary.Upserts = upserts

	logger.Info("library rescan complete",
		logging.String(logging.FieldEventType, "library_rescanned"),
		logging.Int("scanned_dirs", summary.ScannedDirs),
		logging.Int("discovered_mods", summary.DiscoveredMods),
		logging.Int("upserts", summary.Upserts),
		logging.Int("errors", summary.Errors),
	)
	return summary, nil
}

// DryRun builds a draft for every mod folder directly under opts.AuthorDir.
// The catalog is read once; nothing is written.
func (s *Scanner) DryRun(ctx context.Context, opts DryRunOptions) ([]DraftMod, error) {
	ctx, logger := s.begin(ctx, "import_dry_run")
	authorDir := strings.TrimSpace(opts.AuthorDir)
	if authorDir == "" {
		return nil, services.Wrap(services.ErrValidation, "scan", "dry_run", "author directory is required", nil)
	}
	logger = logger.With(logging.String("author_dir", authorDir))

	entries, err := os.ReadDir(authorDir)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "scan", "dry_run", fmt.Sprintf("read %q", authorDir), err)
	}
	snap, err := catalog.LoadSnapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if len(snap.Characters) == 0 {
		logging.WarnWithContext(logger, "catalog is empty; drafts will not be matched to characters", "catalog_empty",
			logging.String(logging.FieldErrorHint, "run `bd2mods catalog sync` before importing"),
			logging.String(logging.FieldImpact, "every draft has no character, no costume, and zero confidence"),
		)
	}

	author := s.draftAuthor(authorDir, opts.DefaultAuthor)
	downloadURL := strings.TrimSpace(opts.DefaultDownloadURL)
	drafts := make([]DraftMod, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		match := resolve.Resolve(name, snap)
		draft := DraftMod{
			DisplayName:     name,
			FolderPath:      Canonicalize(filepath.Join(authorDir, name)),
			Author:          author,
			DownloadURL:     downloadURL,
			ModType:         s.classifier.ModType(name),
			CharacterID:     match.CharacterID,
			CostumeID:       match.CostumeID,
			InferConfidence: match.Confidence,
			CharacterName:   match.CharacterName,
			CostumeName:     match.CostumeName,
		}
		logger.Debug("draft inferred",
			logging.String("display_name", name),
			logging.String("mod_type", string(draft.ModType)),
			logging.String("character", match.CharacterName),
			logging.String("costume", match.CostumeName),
			logging.Float64("confidence", match.Confidence),
		)
		drafts = append(drafts, draft)
	}

	logger.Info("import dry run complete",
		logging.String(logging.FieldEventType, "import_dry_run"),
		logging.String("author", author),
		logging.Int("drafts", len(drafts)),
	)
	return drafts, nil
}

func (s *Scanner) draftAuthor(authorDir, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	inferred := s.classifier.Author(filepath.Base(CanonicalizeFallback(authorDir)))
	if strings.TrimSpace(inferred) == "" {
		return classify.DefaultAuthor
	}
	return inferred
}

// Commit writes reviewed drafts in one transaction. Folder paths are
// canonicalized and deduplicated within the batch, first occurrence winning.
// Any failed upsert rolls the whole batch back.
func (s *Scanner) Commit(ctx context.Context, drafts []DraftMod) (CommitResult, error) {
	ctx, logger := s.begin(ctx, "import_commit")
	logger.Info("import commit started", logging.Int("drafts", len(drafts)))

	batch := make([]store.ModUpsert, 0, len(drafts))
	seen := make(map[string]struct{}, len(drafts))
	for i, draft := range drafts {
		if strings.TrimSpace(draft.FolderPath) == "" {
			return CommitResult{}, services.Wrap(services.ErrValidation, "scan", "commit",
				fmt.Sprintf("draft %d has no folder path", i), nil)
		}
		folderPath := Canonicalize(draft.FolderPath)
		if _, dup := seen[folderPath]; dup {
			logger.Debug("duplicate draft skipped",
				logging.String(logging.FieldDecisionType, "commit_dedup"),
				logging.String("folder_path", folderPath),
			)
			continue
		}
		seen[folderPath] = struct{}{}

		modType, err := classify.ParseModType(string(draft.ModType))
		if err != nil {
			return CommitResult{}, services.Wrap(services.ErrValidation, "scan", "commit",
				fmt.Sprintf("draft %q", draft.DisplayName), err)
		}
		if persisted := modType.Persisted(); persisted != modType {
			attrs := logging.DecisionAttrs("mod_type_fold", string(persisted), "type is not admitted by the mod table")
			attrs = append(attrs,
				logging.String("folder_path", folderPath),
				logging.String("mod_type", string(modType)),
			)
			logger.Info("mod type folded for storage", logging.Args(attrs...)...)
			modType = persisted
		}
		batch = append(batch, store.ModUpsert{
			FolderPath:  folderPath,
			DisplayName: draft.DisplayName,
			Author:      draft.Author,
			DownloadURL: draft.DownloadURL,
			ModType:     modType,
			CharacterID: draft.CharacterID,
			CostumeID:   draft.CostumeID,
		})
	}

	var result CommitResult
	err := s.store.InTx(ctx, func(tx *store.Tx) error {
		result = CommitResult{}
		for _, mod := range batch {
			existed, err := tx.ModExistsByPath(ctx, mod.FolderPath)
			if err != nil {
				return err
			}
			if err := tx.UpsertMod(ctx, mod); err != nil {
				return err
			}
			if existed {
				result.Updated++
			} else {
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		logging.ErrorWithContext(logger, "import commit failed; no changes were applied", "import_commit_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "review the drafts file and retry"),
		)
		return CommitResult{}, err
	}

	logger.Info("import commit complete",
		logging.String(logging.FieldEventType, "import_committed"),
		logging.Int("inserted", result.Inserted),
		logging.Int("updated", result.Updated),
		logging.Int("skipped_duplicates", len(drafts)-len(batch)),
	)
	return result, nil
}

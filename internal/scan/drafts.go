package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bd2mods/internal/classify"
	"bd2mods/internal/services"
)

// DraftMod is a staged mod awaiting review. It is never stored as-is;
// Commit turns a reviewed batch into mod rows keyed by folder path.
type DraftMod struct {
	DisplayName     string           `json:"display_name"`
	FolderPath      string           `json:"folder_path"`
	Author          string           `json:"author,omitempty"`
	DownloadURL     string           `json:"download_url,omitempty"`
	ModType         classify.ModType `json:"mod_type"`
	CharacterID     *int64           `json:"character_id"`
	CostumeID       *int64           `json:"costume_id"`
	InferConfidence float64          `json:"infer_confidence"`

	// Review aids; Commit ignores them.
	CharacterName string `json:"character_name,omitempty"`
	CostumeName   string `json:"costume_name,omitempty"`
}

// ScanSummary reports the outcome of a rescan.
type ScanSummary struct {
	ScannedDirs    int `json:"scanned_dirs"`
	DiscoveredMods int `json:"discovered_mods"`
	Upserts        int `json:"upserts"`
	Errors         int `json:"errors"`
}

// CommitResult counts rows created and rows overwritten by Commit.
type CommitResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// WriteDrafts encodes drafts as an indented JSON array.
func WriteDrafts(w io.Writer, drafts []DraftMod) error {
	if drafts == nil {
		drafts = []DraftMod{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(drafts); err != nil {
		return services.Wrap(services.ErrFilesystem, "scan", "write_drafts", "encode drafts", err)
	}
	return nil
}

// ReadDrafts decodes a JSON array of drafts, rejecting unknown fields.
func ReadDrafts(r io.Reader) ([]DraftMod, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "scan", "read_drafts", "read drafts", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var drafts []DraftMod
	if err := dec.Decode(&drafts); err != nil {
		return nil, services.Wrap(services.ErrParse, "scan", "read_drafts", "decode drafts", err)
	}
	return drafts, nil
}

// ReadDraftsFile is ReadDrafts over the file at path.
func ReadDraftsFile(path string) ([]DraftMod, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "scan", "read_drafts", fmt.Sprintf("open %q", path), err)
	}
	defer f.Close()
	return ReadDrafts(f)
}

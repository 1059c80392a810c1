package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"bd2mods/internal/services"
)

//go:embed data/catalog.json
var builtinCatalog []byte

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Builtin returns the catalog compiled into the binary.
func Builtin() ([]CharacterRecord, error) {
	return Parse(builtinCatalog)
}

// Load reads the catalog at path, or the builtin catalog when path is empty.
// The returned label names the source for logs.
func Load(path string) ([]CharacterRecord, string, error) {
	if strings.TrimSpace(path) == "" {
		records, err := Builtin()
		return records, "builtin", err
	}
	records, err := LoadFile(path)
	return records, path, err
}

// LoadFile reads and parses a catalog document from path.
func LoadFile(path string) ([]CharacterRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "catalog", "load", fmt.Sprintf("read %s", path), err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse decodes a catalog document. Unknown fields, trailing data, and
// records without a slug or display name are parse errors.
func Parse(data []byte) ([]CharacterRecord, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrParse, "catalog", "parse", "catalog document is empty", nil)
	}

	var records []CharacterRecord
	if data[0] == '{' {
		var wrapper struct {
			Characters []CharacterRecord `json:"characters"`
		}
		if err := decodeStrict(data, &wrapper); err != nil {
			return nil, services.Wrap(services.ErrParse, "catalog", "parse", "decode catalog object", err)
		}
		records = wrapper.Characters
	} else {
		if err := decodeStrict(data, &records); err != nil {
			return nil, services.Wrap(services.ErrParse, "catalog", "parse", "decode catalog array", err)
		}
	}

	for i := range records {
		if err := records[i].normalize(i); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func decodeStrict(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after catalog document")
	}
	return nil
}

func (r *CharacterRecord) normalize(index int) error {
	r.Slug = strings.TrimSpace(r.Slug)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.Slug == "" {
		return services.Wrap(services.ErrParse, "catalog", "parse", fmt.Sprintf("character %d has no slug", index), nil)
	}
	if r.DisplayName == "" {
		return services.Wrap(services.ErrParse, "catalog", "parse", fmt.Sprintf("character %q has no display_name", r.Slug), nil)
	}
	r.Aliases = trimAliases(r.Aliases)
	for i := range r.Costumes {
		c := &r.Costumes[i]
		c.Slug = strings.TrimSpace(c.Slug)
		c.DisplayName = strings.TrimSpace(c.DisplayName)
		if c.Slug == "" {
			return services.Wrap(services.ErrParse, "catalog", "parse", fmt.Sprintf("costume %d of %q has no slug", i, r.Slug), nil)
		}
		if c.DisplayName == "" {
			return services.Wrap(services.ErrParse, "catalog", "parse", fmt.Sprintf("costume %q of %q has no display_name", c.Slug, r.Slug), nil)
		}
		c.Aliases = trimAliases(c.Aliases)
	}
	return nil
}

func trimAliases(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Encode renders records as an indented catalog document that Parse accepts.
func Encode(records []CharacterRecord) ([]byte, error) {
	if records == nil {
		records = []CharacterRecord{}
	}
	data, err := json.MarshalIndent(struct {
		Characters []CharacterRecord `json:"characters"`
	}{Characters: records}, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "catalog", "encode", "encode catalog", err)
	}
	return append(data, '\n'), nil
}

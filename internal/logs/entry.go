package logs

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"bd2mods/internal/logging"
)

// timeKey matches the JSON handler, which renames slog.TimeKey.
const timeKey = "ts"

// Entry is one decoded log line. Raw always holds the original text.
type Entry struct {
	Time       time.Time
	Level      slog.Level
	Message    string
	Component  string
	RunID      string
	Operation  string
	Fields     map[string]any
	Structured bool
	Raw        string
}

var reservedKeys = map[string]struct{}{
	timeKey:                {},
	slog.LevelKey:          {},
	slog.MessageKey:        {},
	logging.FieldComponent: {},
	logging.FieldRunID:     {},
	logging.FieldOperation: {},
}

// ParseEntry decodes a JSON log line. Lines that are not JSON objects are
// returned as unstructured info entries carrying only Raw and Message.
func ParseEntry(line string) Entry {
	entry := Entry{Raw: line, Message: line, Level: slog.LevelInfo}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return entry
	}

	entry.Structured = true
	entry.Message = stringField(fields, slog.MessageKey)
	entry.Component = stringField(fields, logging.FieldComponent)
	entry.RunID = stringField(fields, logging.FieldRunID)
	entry.Operation = stringField(fields, logging.FieldOperation)
	if raw := stringField(fields, slog.LevelKey); raw != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			entry.Level = level
		}
	}
	if raw := stringField(fields, timeKey); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.Time = ts
		}
	}
	for key := range reservedKeys {
		delete(fields, key)
	}
	if len(fields) > 0 {
		entry.Fields = fields
	}
	return entry
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return value
}

// Filter selects entries. The zero Filter matches info and above; set
// MinLevel to slog.LevelDebug to include debug entries.
type Filter struct {
	MinLevel  slog.Level
	RunID     string
	Component string
}

// Match reports whether e passes the filter. Unstructured lines only match a
// filter that does not name a run or component.
func (f Filter) Match(e Entry) bool {
	if e.Level < f.MinLevel {
		return false
	}
	if f.RunID != "" && !strings.HasPrefix(e.RunID, f.RunID) {
		return false
	}
	if f.Component != "" && !strings.EqualFold(e.Component, f.Component) {
		return false
	}
	return true
}

// ParseLevel maps a level name onto slog levels. Empty input selects debug so
// nothing is hidden.
func ParseLevel(value string) (slog.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return slog.LevelDebug, nil
	}
	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	err := level.UnmarshalText([]byte(value))
	return level, err
}

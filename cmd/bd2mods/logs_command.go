package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bd2mods/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines     int
		follow    bool
		level     string
		runID     string
		component string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			minLevel, err := logs.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid --level %q: %w", level, err)
			}
			filter := logs.Filter{MinLevel: minLevel, RunID: strings.TrimSpace(runID), Component: strings.TrimSpace(component)}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			result, err := logs.Tail(runCtx, cfg.LogFilePath(), logs.TailOptions{Offset: -1, Limit: lines, Filter: filter})
			if err != nil {
				return err
			}
			printLogEntries(out, result.Entries, jsonOut)
			if !follow {
				return nil
			}
			offset := result.Offset
			for runCtx.Err() == nil {
				result, err = logs.Tail(runCtx, cfg.LogFilePath(), logs.TailOptions{
					Offset: offset,
					Follow: true,
					Wait:   5 * time.Second,
					Filter: filter,
				})
				if err != nil {
					if runCtx.Err() != nil {
						return nil
					}
					return err
				}
				offset = result.Offset
				printLogEntries(out, result.Entries, jsonOut)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of matching entries to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&runID, "run", "", "Only entries from this run id (prefix match)")
	cmd.Flags().StringVar(&component, "component", "", "Only entries from this component")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw JSON lines")
	return cmd
}

func printLogEntries(out io.Writer, entries []logs.Entry, raw bool) {
	for _, e := range entries {
		if raw || !e.Structured {
			fmt.Fprintln(out, e.Raw)
			continue
		}
		fmt.Fprintln(out, formatLogEntry(e))
	}
}

func formatLogEntry(e logs.Entry) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s ", strings.ToUpper(e.Level.String()))
	if e.Component != "" {
		fmt.Fprintf(&b, "[%s] ", e.Component)
	}
	b.WriteString(e.Message)
	if e.RunID != "" {
		fmt.Fprintf(&b, " run=%s", shortRunID(e.RunID))
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := e.Fields[key]
		if s, ok := value.(string); ok {
			fmt.Fprintf(&b, " %s=%s", key, s)
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, " %s=%s", key, encoded)
	}
	return b.String()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

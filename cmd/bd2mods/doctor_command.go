package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bd2mods/internal/config"
	"bd2mods/internal/preflight"
	"bd2mods/internal/store"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const statusLabelWidth = 24

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var network bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database, browser, and catalog sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Network: network})
			results = append(results, databaseCheck(cmd, ctx))

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&network, "network", false, "Also probe the configured scraper sources")
	return cmd
}

func databaseCheck(cmd *cobra.Command, ctx *commandContext) preflight.Result {
	result := preflight.Result{Name: "Database"}
	err := ctx.withStore(func(_ *config.Config, st *store.Store) error {
		version, err := st.SchemaVersion(cmd.Context())
		if err != nil {
			return err
		}
		result.Passed = true
		result.Detail = fmt.Sprintf("%s (schema v%d)", st.Path(), version)
		return nil
	})
	if err != nil {
		result.Detail = err.Error()
	}
	return result
}

func resultKind(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Severity == preflight.SeverityWarn:
		return statusWarn
	default:
		return statusError
	}
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", statusText)
	if colorize {
		return statusKindColor(kind) + base + ansiReset
	}
	return strings.TrimRight(base, " ")
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	default:
		return ansiRed
	}
}

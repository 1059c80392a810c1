package main

import (
	"strings"
	"testing"
)

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Data directory:")
	requireContains(t, out, "Library root 1:")
	requireContains(t, out, "Database:")
	requireContains(t, out, "schema v")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected error line:\n%s", out)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Chrome", statusWarn, "not found", false)
	if !strings.HasPrefix(line, "  Chrome:") || !strings.HasSuffix(line, "[WARN] not found") {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("Chrome", statusOK, "", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colored line, got %q", colored)
	}
}

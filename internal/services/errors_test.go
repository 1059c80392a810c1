package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"bd2mods/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStore, "scan", "commit", "upsert failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStore) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"scan", "commit", "upsert failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrParse, "catalog", "parse", "bad json", nil), "parse"},
		{fmt.Errorf("source x: %w", services.Wrap(services.ErrNoMatches, "scraper", "extract", "", nil)), "no_matches"},
		{services.Wrap(services.ErrNetwork, "scraper", "fetch", "", errors.New("eof")), "network"},
		{services.Wrap(services.ErrNotFound, "store", "set installed", "", nil), "not_found"},
		{errors.New("plain"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrStore) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

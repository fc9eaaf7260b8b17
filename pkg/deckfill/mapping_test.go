package deckfill

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func TestDefaultMapping(t *testing.T) {
	m := DefaultMapping()

	if m.Sheet != "Auto" {
		t.Errorf("Sheet = %q, expected %q", m.Sheet, "Auto")
	}
	if m.Locale != LocaleSwedish {
		t.Errorf("Locale = %q, expected %q", m.Locale, LocaleSwedish)
	}
	if len(m.Targets) != 15 {
		t.Fatalf("Expected 15 targets, got %d", len(m.Targets))
	}
	if m.MinSlides() != 2 {
		t.Errorf("MinSlides = %d, expected 2", m.MinSlides())
	}
	if _, ok := m.Period.Locator().(ByPattern); !ok {
		t.Errorf("Expected pattern locator for period, got %T", m.Period.Locator())
	}

	tests := []struct {
		index int
		cell  string
		label string
	}{
		{0, "B4", "Omsättning"},
		{4, "F4", "EBITA"},
		{5, "B5", "Tillväxt Omsättning"},
		{11, "C6", "Tillväxt Sek TG 1"},
		{14, "F6", "Tillväxt Sek EBITA"},
	}

	for _, tt := range tests {
		target := m.Targets[tt.index]
		if target.Cell != tt.cell || target.Label != tt.label {
			t.Errorf("target %d = %s/%q, expected %s/%q", tt.index, target.Cell, target.Label, tt.cell, tt.label)
		}
		if _, ok := target.Locator().(ByLabel); !ok {
			t.Errorf("target %d: expected label locator, got %T", tt.index, target.Locator())
		}
	}
}

func TestParseMappingIDs(t *testing.T) {
	m, err := ParseMapping([]byte(`
sheet: Auto
period: {cell: A1, slide: 1, id: 4}
slide: 2
targets:
  - {cell: B4, label: Omsättning, id: 12, keep_rest: true}
`))
	if err != nil {
		t.Fatalf("ParseMapping failed: %v", err)
	}
	if m.Locale != LocaleSwedish {
		t.Errorf("Locale = %q, expected default %q", m.Locale, LocaleSwedish)
	}
	if loc, ok := m.Period.Locator().(ByID); !ok || loc != 4 {
		t.Errorf("Period locator = %v, expected ByID(4)", m.Period.Locator())
	}
	if loc, ok := m.Targets[0].Locator().(ByID); !ok || loc != 12 {
		t.Errorf("Target locator = %v, expected ByID(12)", m.Targets[0].Locator())
	}
	if !m.Targets[0].KeepRest {
		t.Error("Expected keep_rest to be set")
	}
}

func TestParseMappingInvalid(t *testing.T) {
	_, err := ParseMapping([]byte(`
sheet: ""
locale: fi
period: {cell: "1A", slide: 0}
slide: 0
targets:
  - {cell: B4}
`))
	if !errors.Is(err, ErrInvalidMapping) {
		t.Fatalf("Expected ErrInvalidMapping, got %v", err)
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Expected *multierror.Error, got %T", err)
	}
	// sheet, locale, period cell, period slide, period locator, slide, target label
	if len(merr.Errors) != 7 {
		t.Errorf("Expected 7 errors, got %d: %v", len(merr.Errors), err)
	}

	_, err = ParseMapping([]byte("targets: [oops"))
	if !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("Expected ErrInvalidMapping for malformed YAML, got %v", err)
	}
}

func TestParseMappingNegativeID(t *testing.T) {
	_, err := ParseMapping([]byte(`
sheet: Auto
period: {cell: A1, slide: 1, id: -4, placeholders: [År]}
slide: 2
targets:
  - {cell: B4, label: Omsättning, id: -12}
`))
	if !errors.Is(err, ErrInvalidMapping) {
		t.Fatalf("Expected ErrInvalidMapping, got %v", err)
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("Expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d: %v", len(merr.Errors), err)
	}
}

func TestLoadMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	if err := os.WriteFile(path, defaultMappingYAML, 0644); err != nil {
		t.Fatalf("Failed to write mapping: %v", err)
	}

	m, err := LoadMapping(path)
	if err != nil {
		t.Fatalf("LoadMapping failed: %v", err)
	}
	if len(m.Targets) != 15 {
		t.Errorf("Expected 15 targets, got %d", len(m.Targets))
	}

	if _, err := LoadMapping(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("Expected error naming the missing file, got %v", err)
	}
}

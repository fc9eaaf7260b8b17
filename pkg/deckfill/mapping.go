package deckfill

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

//go:embed default_mapping.yaml
var defaultMappingYAML []byte

// Mapping describes which cells feed which deck regions.
type Mapping struct {
	// Sheet is the worksheet holding all source cells.
	Sheet string `yaml:"sheet"`
	// Locale selects the month-name table for the period label.
	Locale Locale `yaml:"locale"`
	// Period is the period banner target.
	Period Banner `yaml:"period"`
	// Slide is the 1-based slide holding the value targets.
	Slide int `yaml:"slide"`
	// Targets are the label/value regions, rewritten in order.
	Targets []Target `yaml:"targets"`
}

// Banner is the period banner target. A positive ID locates the shape by id;
// otherwise the placeholder pattern is used.
type Banner struct {
	Cell         string   `yaml:"cell"`
	Slide        int      `yaml:"slide"`
	ID           int      `yaml:"id,omitempty"`
	Placeholders []string `yaml:"placeholders,omitempty"`
}

// Locator returns the locator selected for the banner.
func (b Banner) Locator() Locator {
	if b.ID > 0 {
		return ByID(b.ID)
	}
	return ByPattern{Placeholders: b.Placeholders}
}

// Target is one label/value region. A positive ID locates the shape by id;
// otherwise the shape is found by its first line.
type Target struct {
	Cell     string `yaml:"cell"`
	Label    string `yaml:"label"`
	ID       int    `yaml:"id,omitempty"`
	KeepRest bool   `yaml:"keep_rest,omitempty"`
}

// Locator returns the locator selected for the target.
func (t Target) Locator() Locator {
	if t.ID > 0 {
		return ByID(t.ID)
	}
	return ByLabel(t.Label)
}

// DefaultMapping returns the built-in mapping for the monthly summary deck.
func DefaultMapping() *Mapping {
	m, err := ParseMapping(defaultMappingYAML)
	if err != nil {
		panic(fmt.Sprintf("default mapping: %v", err))
	}
	return m
}

// LoadMapping reads and validates a mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMapping(data)
}

// ParseMapping decodes and validates a YAML mapping.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if m.Locale == "" {
		m.Locale = LocaleSwedish
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate reports every problem found in the mapping at once.
func (m *Mapping) Validate() error {
	var merr error
	fail := func(format string, args ...interface{}) {
		merr = multierror.Append(merr, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidMapping}, args...)...))
	}

	if m.Sheet == "" {
		fail("sheet is required")
	}
	if !m.Locale.Valid() {
		fail("unknown locale %q", m.Locale)
	}
	if _, _, err := excelize.CellNameToCoordinates(m.Period.Cell); err != nil {
		fail("period cell %q: %v", m.Period.Cell, err)
	}
	if m.Period.Slide < 1 {
		fail("period slide must be at least 1")
	}
	if m.Period.ID < 0 {
		fail("period id %d is negative", m.Period.ID)
	} else if m.Period.ID == 0 && len(m.Period.Placeholders) == 0 {
		fail("period needs an id or placeholders")
	}
	if m.Slide < 1 {
		fail("slide must be at least 1")
	}
	if len(m.Targets) == 0 {
		fail("no targets")
	}
	for i, t := range m.Targets {
		if _, _, err := excelize.CellNameToCoordinates(t.Cell); err != nil {
			fail("target %d cell %q: %v", i+1, t.Cell, err)
		}
		if t.Label == "" {
			fail("target %d (%s) has no label", i+1, t.Cell)
		}
		if t.ID < 0 {
			fail("target %d (%s) id %d is negative", i+1, t.Cell, t.ID)
		}
	}

	return merr
}

// MinSlides returns the number of slides a deck needs for this mapping.
func (m *Mapping) MinSlides() int {
	return max(m.Period.Slide, m.Slide)
}

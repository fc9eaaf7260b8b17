package deckfill

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ukaji3/deckfill-go/pkg/deckfill/parser"
)

// Locator finds the region a rewrite applies to. Every strategy is a
// first-match scan over the slide's shapes in document order.
type Locator interface {
	// Locate returns the first matching shape, or false when none matches.
	Locate(slide *parser.Slide) (*parser.Shape, bool)
	// String describes the locator for error messages.
	String() string
}

// ByID locates the shape with the given stable id that has a text body.
type ByID int

func (id ByID) Locate(slide *parser.Slide) (*parser.Shape, bool) {
	for _, sh := range slide.Shapes() {
		if sh.ID == int(id) && sh.HasTextFrame() {
			return sh, true
		}
	}
	return nil, false
}

func (id ByID) String() string {
	return fmt.Sprintf("shape id %d", int(id))
}

// ByLabel locates the shape whose first text line equals the label.
// Both sides are trimmed and NFC-normalized before comparison.
type ByLabel string

func (l ByLabel) Locate(slide *parser.Slide) (*parser.Shape, bool) {
	target := normalizeLabel(string(l))
	for _, sh := range slide.Shapes() {
		if !sh.HasTextFrame() {
			continue
		}
		if normalizeLabel(sh.Lines()[0]) == target {
			return sh, true
		}
	}
	return nil, false
}

func (l ByLabel) String() string {
	return fmt.Sprintf("label %q", string(l))
}

var yearToken = regexp.MustCompile(`20\d\d`)

// ByPattern locates a placeholder region: a shape whose trimmed text equals
// one of the placeholders, or whose text contains a 20xx year.
type ByPattern struct {
	Placeholders []string
}

func (p ByPattern) Locate(slide *parser.Slide) (*parser.Shape, bool) {
	for _, sh := range slide.Shapes() {
		if !sh.HasTextFrame() {
			continue
		}
		text := normalizeLabel(sh.Text())
		for _, ph := range p.Placeholders {
			if text == normalizeLabel(ph) {
				return sh, true
			}
		}
		if yearToken.MatchString(text) {
			return sh, true
		}
	}
	return nil, false
}

func (p ByPattern) String() string {
	return fmt.Sprintf("placeholder %q or year", p.Placeholders)
}

func normalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

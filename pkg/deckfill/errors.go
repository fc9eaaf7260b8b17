package deckfill

import (
	"errors"
	"fmt"
)

// ErrInvalidWorkbook indicates the spreadsheet input is not a readable xlsx file.
var ErrInvalidWorkbook = errors.New("invalid xlsx workbook")

// ErrSheetNotFound indicates the workbook lacks the configured sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidDeck indicates the slide input is not a readable pptx package.
var ErrInvalidDeck = errors.New("invalid pptx deck")

// ErrTooFewSlides indicates the deck has fewer slides than the mapping needs.
var ErrTooFewSlides = errors.New("too few slides")

// ErrRegionNotFound indicates no shape on a slide matched a rewrite target.
var ErrRegionNotFound = errors.New("region not found")

// ErrInvalidMapping indicates the mapping configuration is unusable.
var ErrInvalidMapping = errors.New("invalid mapping")

// RegionError represents a rewrite target that could not be resolved or written.
type RegionError struct {
	Slide  int
	Target string
	Err    error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("slide %d: %s: %v", e.Slide, e.Target, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

// NewRegionError creates a new RegionError.
func NewRegionError(slide int, target string, err error) *RegionError {
	return &RegionError{
		Slide:  slide,
		Target: target,
		Err:    err,
	}
}

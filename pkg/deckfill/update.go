package deckfill

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ukaji3/deckfill-go/pkg/deckfill/models"
	"github.com/ukaji3/deckfill-go/pkg/deckfill/parser"
)

// Update reads the mapped cells from the workbook, rewrites the mapped deck
// regions and returns the updated deck. It either applies every rewrite or
// returns an error; a partially updated deck is never returned.
func Update(excelData, pptData []byte, opts Options) ([]byte, error) {
	m := opts.mapping()
	log := opts.logger()

	period, values, err := readWorkbook(excelData, m)
	if err != nil {
		return nil, err
	}

	deck, err := parser.OpenDeck(pptData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	slides := deck.Slides()
	if len(slides) < m.MinSlides() {
		return nil, fmt.Errorf("%w: deck has %d, need %d", ErrTooFewSlides, len(slides), m.MinSlides())
	}

	label := ResolvePeriod(period, m.Locale)
	banner := slides[m.Period.Slide-1]
	if err := SetFullText(banner, m.Period.Locator(), label); err != nil {
		return nil, err
	}
	log.Debug("Period banner updated", zap.Int("slide", banner.Index), zap.String("label", label))

	target := slides[m.Slide-1]
	for i, t := range m.Targets {
		v := values[i]
		if err := SetUnderLabel(target, t.Locator(), t.Label, v.Value, t.KeepRest); err != nil {
			return nil, err
		}
		log.Debug("Region updated",
			zap.Int("slide", target.Index),
			zap.String("label", t.Label),
			zap.String("cell", v.Ref),
			zap.Any("value", v.Value))
	}

	out, err := deck.Save()
	if err != nil {
		return nil, fmt.Errorf("save deck: %w", err)
	}
	log.Info("Deck updated", zap.Int("targets", len(m.Targets)+1), zap.Int("bytes", len(out)))
	return out, nil
}

// readWorkbook returns the period cell value and the target cell values in
// mapping order.
func readWorkbook(data []byte, m *Mapping) (interface{}, []models.CellValue, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), m.Sheet) {
		return nil, nil, fmt.Errorf("%w: %q", ErrSheetNotFound, m.Sheet)
	}

	r := parser.NewCellReader(f)
	period, err := r.ReadCell(m.Sheet, m.Period.Cell)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s!%s: %w", m.Sheet, m.Period.Cell, err)
	}

	values := make([]models.CellValue, 0, len(m.Targets))
	for _, t := range m.Targets {
		v, err := r.ReadCell(m.Sheet, t.Cell)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s!%s: %w", m.Sheet, t.Cell, err)
		}
		values = append(values, models.CellValue{Ref: t.Cell, Value: v})
	}

	return period, values, nil
}

// Inspect lists the shapes of every slide in a deck, for choosing stable
// shape ids and labels when authoring a mapping.
func Inspect(pptData []byte) (*models.DeckData, error) {
	deck, err := parser.OpenDeck(pptData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}

	data := &models.DeckData{Slides: []models.SlideData{}}
	for _, s := range deck.Slides() {
		data.Slides = append(data.Slides, s.Model())
	}
	return data, nil
}

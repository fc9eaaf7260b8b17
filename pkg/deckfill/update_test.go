package deckfill

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/deckfill-go/internal/testdeck"
	"github.com/ukaji3/deckfill-go/pkg/deckfill/parser"
)

var summaryValues = [3][5]interface{}{
	{100, 50, 30, 20, 10},
	{0.05, 0.1, -0.02, 0.031, 0.12},
	{5, 4.5, -1, 2, 1.25},
}

// summaryDeck builds a deck laid out like the monthly summary: a banner on
// slide 1 and the fifteen labelled regions on slide 2.
func summaryDeck() []byte {
	slide2 := []testdeck.Shape{{ID: 2, Name: "Logo", NoText: true}}
	for i, target := range DefaultMapping().Targets {
		slide2 = append(slide2, testdeck.Text(10+i, target.Label, "0"))
	}
	// Footnote below the revenue value
	slide2[1] = testdeck.Text(10, "Omsättning", "0", "MSEK")

	return testdeck.Deck(
		[]testdeck.Shape{testdeck.Text(2, "Ledningsrapport"), testdeck.Text(3, "Månad År")},
		slide2,
	)
}

func deckTexts(t *testing.T, data []byte) [][]string {
	t.Helper()
	deck, err := parser.OpenDeck(data)
	if err != nil {
		t.Fatalf("OpenDeck failed: %v", err)
	}
	var texts [][]string
	for _, s := range deck.Slides() {
		var slideTexts []string
		for _, sh := range s.Shapes() {
			slideTexts = append(slideTexts, sh.Text())
		}
		texts = append(texts, slideTexts)
	}
	return texts
}

func TestUpdate(t *testing.T) {
	excel := testdeck.Workbook(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), summaryValues)

	out, err := Update(excel, summaryDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	texts := deckTexts(t, out)
	if texts[0][0] != "Ledningsrapport" {
		t.Errorf("Title changed to %q", texts[0][0])
	}
	if texts[0][1] != "December 2025" {
		t.Errorf("Banner = %q, expected %q", texts[0][1], "December 2025")
	}

	tests := []struct {
		shape    int
		expected string
	}{
		{1, "Omsättning\n100"},
		{2, "TG 1\n50"},
		{5, "EBITA\n10"},
		{6, "Tillväxt Omsättning\n0.05"},
		{8, "Tillväxt TG 2\n-0.02"},
		{12, "Tillväxt Sek TG 1\n4.5"},
		{15, "Tillväxt Sek EBITA\n1.25"},
	}

	for _, tt := range tests {
		if got := texts[1][tt.shape]; got != tt.expected {
			t.Errorf("shape %d = %q, expected %q", tt.shape, got, tt.expected)
		}
	}
}

func TestUpdateKeepRest(t *testing.T) {
	m := DefaultMapping()
	m.Targets[0].KeepRest = true

	excel := testdeck.Workbook("2025-11-30", summaryValues)
	out, err := Update(excel, summaryDeck(), Options{Mapping: m})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	texts := deckTexts(t, out)
	if texts[0][1] != "November 2025" {
		t.Errorf("Banner = %q, expected %q", texts[0][1], "November 2025")
	}
	if texts[1][1] != "Omsättning\n100\nMSEK" {
		t.Errorf("Revenue region = %q, expected footnote kept", texts[1][1])
	}
}

func TestUpdateIdempotent(t *testing.T) {
	excel := testdeck.Workbook(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), summaryValues)

	first, err := Update(excel, summaryDeck(), DefaultOptions())
	if err != nil {
		t.Fatalf("first Update failed: %v", err)
	}
	second, err := Update(excel, first, DefaultOptions())
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	if !reflect.DeepEqual(deckTexts(t, first), deckTexts(t, second)) {
		t.Errorf("Region text differs between runs:\n%q\n%q", deckTexts(t, first), deckTexts(t, second))
	}
}

func TestUpdateErrors(t *testing.T) {
	excel := testdeck.Workbook("2025-12-01", summaryValues)
	deck := summaryDeck()

	noAuto := func() []byte {
		f := excelize.NewFile()
		defer f.Close()
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("WriteToBuffer failed: %v", err)
		}
		return buf.Bytes()
	}()

	missingLabel := func() []byte {
		var shapes []testdeck.Shape
		for i, target := range DefaultMapping().Targets[1:] {
			shapes = append(shapes, testdeck.Text(10+i, target.Label, "0"))
		}
		return testdeck.Deck([]testdeck.Shape{testdeck.Text(3, "År")}, shapes)
	}()

	tests := []struct {
		name     string
		excel    []byte
		ppt      []byte
		expected error
	}{
		{"garbage workbook", []byte("nope"), deck, ErrInvalidWorkbook},
		{"missing sheet", noAuto, deck, ErrSheetNotFound},
		{"garbage deck", excel, []byte("nope"), ErrInvalidDeck},
		{"one slide", excel, testdeck.Deck([]testdeck.Shape{testdeck.Text(3, "År")}), ErrTooFewSlides},
		{"no banner", excel, testdeck.Deck([]testdeck.Shape{testdeck.Text(3, "Titel")}, nil), ErrRegionNotFound},
		{"missing label", excel, missingLabel, ErrRegionNotFound},
	}

	for _, tt := range tests {
		out, err := Update(tt.excel, tt.ppt, DefaultOptions())
		if !errors.Is(err, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, err)
		}
		if out != nil {
			t.Errorf("%s: expected no output on failure", tt.name)
		}
	}
}

func TestInspect(t *testing.T) {
	data, err := Inspect(summaryDeck())
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(data.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(data.Slides))
	}
	banner := data.Slides[0].Shapes[1]
	if banner.ID != 3 || !reflect.DeepEqual(banner.Lines, []string{"Månad År"}) {
		t.Errorf("Unexpected banner shape: %+v", banner)
	}
	if data.Slides[1].Shapes[0].HasText {
		t.Error("Expected logo shape without text")
	}
}

package deckfill

import (
	"fmt"
	"strings"
	"time"
)

// Locale names the month-name table used for period labels.
type Locale string

const (
	// LocaleSwedish renders "December 2025" style labels with Swedish month names.
	LocaleSwedish Locale = "sv"
	// LocaleEnglish renders labels with English month names.
	LocaleEnglish Locale = "en"
)

var monthNames = map[Locale][12]string{
	LocaleSwedish: {
		"Januari", "Februari", "Mars", "April", "Maj", "Juni",
		"Juli", "Augusti", "September", "Oktober", "November", "December",
	},
	LocaleEnglish: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

// periodLayouts are tried in order; the first that parses wins. Day/month
// order is ambiguous for values like 03/04/25 and is resolved by this order.
var periodLayouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"2/1/06",   // DD/MM/YY
	"1/2/06",   // MM/DD/YY
	"2/1/2006", // DD/MM/YYYY
	"1/2/2006", // MM/DD/YYYY
}

// Valid reports whether the locale has a month table.
func (l Locale) Valid() bool {
	_, ok := monthNames[l]
	return ok
}

// MonthName returns the month name for m, falling back to Swedish for unknown locales.
func (l Locale) MonthName(m time.Month) string {
	names, ok := monthNames[l]
	if !ok {
		names = monthNames[LocaleSwedish]
	}
	return names[m-1]
}

// ResolvePeriod turns a period cell value into a "<Month> <Year>" label.
// Dates are formatted directly; other values are parsed against the known
// date layouts and returned trimmed and unchanged when none match.
func ResolvePeriod(raw interface{}, locale Locale) string {
	if t, ok := raw.(time.Time); ok {
		return formatPeriod(t, locale)
	}

	var s string
	if raw != nil {
		s = strings.TrimSpace(fmt.Sprint(raw))
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatPeriod(t, locale)
		}
	}
	return s
}

func formatPeriod(t time.Time, locale Locale) string {
	return fmt.Sprintf("%s %d", locale.MonthName(t.Month()), t.Year())
}

package deckfill

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/deckfill-go/pkg/deckfill/parser"
)

// SetFullText replaces all text of the located region with text.
func SetFullText(slide *parser.Slide, loc Locator, text string) error {
	sh, ok := loc.Locate(slide)
	if !ok {
		return NewRegionError(slide.Index, loc.String(), ErrRegionNotFound)
	}
	sh.SetText(text)
	return nil
}

// SetUnderLabel rewrites the located region as the label followed by the
// value. With keepRest, lines below the value line are kept.
func SetUnderLabel(slide *parser.Slide, loc Locator, label string, value interface{}, keepRest bool) error {
	sh, ok := loc.Locate(slide)
	if !ok {
		return NewRegionError(slide.Index, loc.String(), ErrRegionNotFound)
	}

	text := sh.Text()
	lines := UnderLabel(parser.SplitLines(text), label, Stringify(value), keepRest)
	sh.SetText(joinLike(text, lines))
	return nil
}

// UnderLabel returns the line sequence [label, value], followed by the
// original lines from index 2 on when keepRest is set.
func UnderLabel(lines []string, label, value string, keepRest bool) []string {
	out := []string{label, value}
	if keepRest && len(lines) > 2 {
		out = append(out, lines[2:]...)
	}
	return out
}

// joinLike joins lines with the separators found between the lines of the
// original text, position by position. Positions past the original fall back
// to separatorOf.
func joinLike(original string, lines []string) string {
	var seps []string
	for _, r := range original {
		switch string(r) {
		case parser.ParagraphSeparator, parser.LineBreak:
			seps = append(seps, string(r))
		}
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			if i-1 < len(seps) {
				sb.WriteString(seps[i-1])
			} else {
				sb.WriteString(separatorOf(original))
			}
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// separatorOf returns the line separator a region was authored with:
// line breaks within one paragraph, or one paragraph per line.
func separatorOf(text string) string {
	if strings.Contains(text, parser.LineBreak) {
		return parser.LineBreak
	}
	return parser.ParagraphSeparator
}

// Stringify renders a cell value as shown in the deck. Numbers keep their
// natural form; no currency or percent formatting is applied.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

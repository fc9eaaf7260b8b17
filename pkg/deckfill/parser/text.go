package parser

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Line separators used by Text and SetText. Paragraphs are joined with a
// newline; line breaks inside a paragraph (<a:br/>) are a vertical tab.
const (
	ParagraphSeparator = "\n"
	LineBreak          = "\v"
)

// textLine is one visual line of a paragraph together with the run
// properties of its first run.
type textLine struct {
	rPr  []byte
	text string
}

// paragraph is one <a:p> element. Raw property elements are kept verbatim so
// rewritten text keeps the authored formatting. raw holds the parsed element
// and is written back as is while the paragraph text is unchanged, so fields
// and secondary runs survive.
type paragraph struct {
	raw        []byte
	pPr        []byte
	endParaRPr []byte
	lines      []textLine
}

func (p paragraph) text() string {
	parts := make([]string, len(p.lines))
	for i, l := range p.lines {
		parts[i] = l.text
	}
	return strings.Join(parts, LineBreak)
}

// TextBody is the editable content of a shape's <p:txBody>.
type TextBody struct {
	prefix     string
	paragraphs []paragraph
}

// Text returns the body text with paragraphs joined by ParagraphSeparator and
// line breaks rendered as LineBreak.
func (b *TextBody) Text() string {
	var sb strings.Builder
	for i, p := range b.paragraphs {
		if i > 0 {
			sb.WriteString(ParagraphSeparator)
		}
		sb.WriteString(p.text())
	}
	return sb.String()
}

// SetText replaces the body text. ParagraphSeparator starts a new paragraph and
// LineBreak a new line within the paragraph. The n-th new paragraph and line
// reuse the properties of the n-th original ones, or of the last when the
// original had fewer. A paragraph whose text is unchanged at the same index is
// kept as authored.
func (b *TextBody) SetText(text string) {
	oldParas := b.paragraphs
	var oldLines []textLine
	for _, p := range oldParas {
		oldLines = append(oldLines, p.lines...)
	}

	var paras []paragraph
	lineIdx := 0
	for i, ptext := range strings.Split(text, ParagraphSeparator) {
		if i < len(oldParas) && oldParas[i].text() == ptext {
			paras = append(paras, oldParas[i])
			lineIdx += len(oldParas[i].lines)
			continue
		}

		var p paragraph
		if len(oldParas) > 0 {
			src := oldParas[min(i, len(oldParas)-1)]
			p.pPr = src.pPr
			p.endParaRPr = src.endParaRPr
		}
		for _, ltext := range strings.Split(ptext, LineBreak) {
			l := textLine{text: ltext}
			if len(oldLines) > 0 {
				l.rPr = oldLines[min(lineIdx, len(oldLines)-1)].rPr
			}
			p.lines = append(p.lines, l)
			lineIdx++
		}
		paras = append(paras, p)
	}
	b.paragraphs = paras
}

// render serializes the paragraphs as DrawingML.
func (b *TextBody) render() []byte {
	var buf bytes.Buffer
	a := b.prefix
	if a != "" {
		a += ":"
	}
	for _, p := range b.paragraphs {
		if p.raw != nil {
			buf.Write(p.raw)
			continue
		}
		buf.WriteString("<" + a + "p>")
		buf.Write(p.pPr)
		for j, l := range p.lines {
			if j > 0 {
				if len(l.rPr) > 0 {
					buf.WriteString("<" + a + "br>")
					buf.Write(l.rPr)
					buf.WriteString("</" + a + "br>")
				} else {
					buf.WriteString("<" + a + "br/>")
				}
			}
			// Empty lines still carry their run properties.
			if l.text == "" && len(l.rPr) == 0 {
				continue
			}
			buf.WriteString("<" + a + "r>")
			buf.Write(l.rPr)
			buf.WriteString("<" + a + "t>")
			_ = xml.EscapeText(&buf, []byte(l.text))
			buf.WriteString("</" + a + "t></" + a + "r>")
		}
		buf.Write(p.endParaRPr)
		buf.WriteString("</" + a + "p>")
	}
	return buf.Bytes()
}

// SplitLines normalizes vertical tabs to newlines and splits text into lines.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, LineBreak, ParagraphSeparator), ParagraphSeparator)
}

// parseTextBody consumes a <p:txBody> element whose start tag has just been
// read. It returns the body together with the byte range covering its
// paragraphs; when the body has no paragraphs the range is empty and sits
// just before the closing tag.
func parseTextBody(tr *tokenReader, data []byte) (*TextBody, int, int, error) {
	body := &TextBody{prefix: "a"}
	start, end := -1, -1

	depth := 1
	for depth > 0 {
		tok, err := tr.next()
		if err != nil {
			return nil, 0, 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				pStart := tr.off
				if start < 0 {
					start = pStart
					body.prefix = t.Name.Space
				}
				p, err := parseParagraph(tr, data)
				if err != nil {
					return nil, 0, 0, err
				}
				end = int(tr.d.InputOffset())
				p.raw = append([]byte(nil), data[pStart:end]...)
				body.paragraphs = append(body.paragraphs, p)
				continue
			}
			if t.Name.Local == "bodyPr" {
				body.prefix = t.Name.Space
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 && start < 0 {
				start, end = tr.off, tr.off
			}
		}
	}
	return body, start, end, nil
}

// parseParagraph consumes an <a:p> element whose start tag has just been read.
func parseParagraph(tr *tokenReader, data []byte) (paragraph, error) {
	var p paragraph
	cur := textLine{}

	depth := 1
	for depth > 0 {
		tok, err := tr.next()
		if err != nil {
			return p, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				raw, err := captureElement(tr, data)
				if err != nil {
					return p, err
				}
				p.pPr = raw
			case "endParaRPr":
				raw, err := captureElement(tr, data)
				if err != nil {
					return p, err
				}
				p.endParaRPr = raw
			case "r", "fld":
				rPr, text, err := parseRun(tr, data)
				if err != nil {
					return p, err
				}
				if cur.rPr == nil {
					cur.rPr = rPr
				}
				cur.text += text
			case "br":
				rPr, _, err := parseRun(tr, data)
				if err != nil {
					return p, err
				}
				p.lines = append(p.lines, cur)
				cur = textLine{rPr: rPr}
			default:
				if err := skipElement(tr); err != nil {
					return p, err
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	p.lines = append(p.lines, cur)
	return p, nil
}

// parseRun consumes a run-like element (<a:r>, <a:fld>, <a:br>) and returns
// its raw run properties and text.
func parseRun(tr *tokenReader, data []byte) ([]byte, string, error) {
	var rPr []byte
	var text strings.Builder
	inText := false

	depth := 1
	for depth > 0 {
		tok, err := tr.next()
		if err != nil {
			return nil, "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := captureElement(tr, data)
				if err != nil {
					return nil, "", err
				}
				rPr = raw
				continue
			case "t":
				inText = true
			}
			depth++
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			depth--
		}
	}
	return rPr, text.String(), nil
}

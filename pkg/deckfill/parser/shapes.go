// Package parser reads spreadsheet cells and reads and rewrites slide deck parts.
package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/ukaji3/deckfill-go/pkg/deckfill/models"
)

// emuPerPixel is the number of EMUs per pixel at 96 DPI (914400 EMU per inch).
const emuPerPixel = 9525

func emuToPixels(emu int64) int {
	return int(emu / emuPerPixel)
}

// tokenReader wraps a raw token decoder and remembers where the most recently
// returned token started, so elements can be located by byte offset.
// Raw tokens keep namespace prefixes as written, which is what spliced XML needs.
type tokenReader struct {
	d   *xml.Decoder
	off int
}

func newTokenReader(data []byte) *tokenReader {
	return &tokenReader{d: xml.NewDecoder(bytes.NewReader(data))}
}

func (tr *tokenReader) next() (xml.Token, error) {
	tr.off = int(tr.d.InputOffset())
	return tr.d.RawToken()
}

// Shape is a slide shape (<p:sp>). Shapes without a text body cannot be rewritten.
type Shape struct {
	// ID is the cNvPr id assigned when the deck was authored.
	ID int
	// Name is the cNvPr name.
	Name string
	// L, T, W and H are the shape bounds in pixels.
	L, T, W, H int

	body       *TextBody
	start, end int
	dirty      bool
}

// HasTextFrame reports whether the shape has a text body.
func (s *Shape) HasTextFrame() bool {
	return s.body != nil
}

// Text returns the shape text; see TextBody.Text. Shapes without a text body
// return an empty string.
func (s *Shape) Text() string {
	if s.body == nil {
		return ""
	}
	return s.body.Text()
}

// Lines returns the shape text split into normalized lines.
func (s *Shape) Lines() []string {
	return SplitLines(s.Text())
}

// SetText replaces the shape text; see TextBody.SetText. It reports false
// for shapes without a text body.
func (s *Shape) SetText(text string) bool {
	if s.body == nil {
		return false
	}
	s.body.SetText(text)
	s.dirty = true
	return true
}

// Model returns the inspection view of the shape.
func (s *Shape) Model() models.Shape {
	m := models.Shape{
		ID:      s.ID,
		Name:    s.Name,
		HasText: s.HasTextFrame(),
		L:       s.L,
		T:       s.T,
		W:       s.W,
		H:       s.H,
	}
	if m.HasText {
		m.Lines = s.Lines()
	}
	return m
}

// Slide is one slide part of a deck.
type Slide struct {
	// Index is the slide position in presentation order (1-based).
	Index int
	// Part is the slide part name, e.g. "ppt/slides/slide1.xml".
	Part string

	data   []byte
	shapes []*Shape
}

// Shapes returns the slide shapes in document order, including shapes nested
// in groups.
func (s *Slide) Shapes() []*Shape {
	return s.shapes
}

// Model returns the inspection view of the slide.
func (s *Slide) Model() models.SlideData {
	sd := models.SlideData{Index: s.Index, Part: s.Part, Shapes: []models.Shape{}}
	for _, sh := range s.shapes {
		sd.Shapes = append(sd.Shapes, sh.Model())
	}
	return sd
}

func (s *Slide) dirty() bool {
	for _, sh := range s.shapes {
		if sh.dirty {
			return true
		}
	}
	return false
}

// content returns the slide XML with every rewritten text body spliced in.
// Text body ranges never overlap and shapes are kept in document order.
func (s *Slide) content() []byte {
	if !s.dirty() {
		return s.data
	}
	var buf bytes.Buffer
	last := 0
	for _, sh := range s.shapes {
		if !sh.dirty {
			continue
		}
		buf.Write(s.data[last:sh.start])
		buf.Write(sh.body.render())
		last = sh.end
	}
	buf.Write(s.data[last:])
	return buf.Bytes()
}

// ParseSlide parses slide XML and collects its shapes.
func ParseSlide(index int, part string, data []byte) (*Slide, error) {
	slide := &Slide{Index: index, Part: part, data: data}

	tr := newTokenReader(data)
	for {
		tok, err := tr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "sp" {
			sh, err := parseShapeElement(tr, data)
			if err != nil {
				return nil, err
			}
			slide.shapes = append(slide.shapes, sh)
		}
	}

	return slide, nil
}

// parseShapeElement parses a single <p:sp> element whose start tag has just been read.
func parseShapeElement(tr *tokenReader, data []byte) (*Shape, error) {
	sh := &Shape{}
	seenNvPr := false

	depth := 1
	for depth > 0 {
		tok, err := tr.next()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cNvPr":
				if !seenNvPr {
					seenNvPr = true
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "id":
							if id, err := strconv.Atoi(attr.Value); err == nil {
								sh.ID = id
							}
						case "name":
							sh.Name = attr.Value
						}
					}
				}
			case "xfrm":
				l, tp, w, h, err := parseXfrm(tr)
				if err != nil {
					return nil, err
				}
				sh.L, sh.T, sh.W, sh.H = l, tp, w, h
				continue
			case "txBody":
				body, start, end, err := parseTextBody(tr, data)
				if err != nil {
					return nil, err
				}
				sh.body, sh.start, sh.end = body, start, end
				continue
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	return sh, nil
}

// parseXfrm parses an xfrm element for position and size.
func parseXfrm(tr *tokenReader) (left, top, width, height int, err error) {
	depth := 1
	for depth > 0 {
		var token xml.Token
		token, err = tr.next()
		if err != nil {
			return
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "off":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "x":
						if x, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							left = emuToPixels(x)
						}
					case "y":
						if y, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							top = emuToPixels(y)
						}
					}
				}
			case "ext":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "cx":
						if cx, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							width = emuToPixels(cx)
						}
					case "cy":
						if cy, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							height = emuToPixels(cy)
						}
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// skipElement consumes tokens up to the end of the element whose start tag
// has just been read.
func skipElement(tr *tokenReader) error {
	depth := 1
	for depth > 0 {
		tok, err := tr.next()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// captureElement consumes the element whose start tag has just been read and
// returns its raw bytes.
func captureElement(tr *tokenReader, data []byte) ([]byte, error) {
	start := tr.off
	if err := skipElement(tr); err != nil {
		return nil, err
	}
	end := int(tr.d.InputOffset())
	return append([]byte(nil), data[start:end]...), nil
}

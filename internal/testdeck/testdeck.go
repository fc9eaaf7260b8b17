// Package testdeck builds small in-memory workbooks and slide decks for tests.
package testdeck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Shape describes a text shape. Each paragraph is a list of lines; lines after
// the first are separated by <a:br/>.
type Shape struct {
	ID         int
	Name       string
	Paragraphs [][]string
	// NoText omits the text body entirely.
	NoText bool
}

// Text returns a shape with one paragraph per line.
func Text(id int, lines ...string) Shape {
	s := Shape{ID: id, Name: fmt.Sprintf("TextBox %d", id)}
	for _, l := range lines {
		s.Paragraphs = append(s.Paragraphs, []string{l})
	}
	return s
}

// Breaks returns a shape with a single paragraph whose lines are separated by line breaks.
func Breaks(id int, lines ...string) Shape {
	return Shape{ID: id, Name: fmt.Sprintf("TextBox %d", id), Paragraphs: [][]string{lines}}
}

const (
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// Deck builds a minimal .pptx package with one slide per entry.
func Deck(slides ...[]Shape) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name, content string) {
		fw, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	var overrides, sldIDs, rels strings.Builder
	for i := range slides {
		n := i + 1
		fmt.Fprintf(&overrides, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, n+1, relSlide, n)
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`+
		overrides.String()+`</Types>`)
	write("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>`+
		`</Relationships>`)
	write("ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<p:presentation xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`">`+
		`<p:sldIdLst>`+sldIDs.String()+`</p:sldIdLst>`+
		`<p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	write("ppt/_rels/presentation.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		rels.String()+`</Relationships>`)

	for i, shapes := range slides {
		write(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), SlideXML(shapes))
	}

	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SlideXML renders a slide part containing the given shapes.
func SlideXML(shapes []Shape) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for i, s := range shapes {
		fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, s.ID, s.Name)
		fmt.Fprintf(&sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="1905000" cy="952500"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, 952500*i, 476250*i)
		if !s.NoText {
			sb.WriteString(`<p:txBody><a:bodyPr wrap="none"/><a:lstStyle/>`)
			for _, para := range s.Paragraphs {
				sb.WriteString(`<a:p><a:pPr algn="ctr"/>`)
				for j, line := range para {
					if j > 0 {
						sb.WriteString(`<a:br><a:rPr lang="sv-SE"/></a:br>`)
					}
					if line == "" {
						continue
					}
					sb.WriteString(`<a:r><a:rPr lang="sv-SE" sz="1800" b="1" dirty="0"/><a:t>`)
					_ = xml.EscapeText(&sb, []byte(line))
					sb.WriteString(`</a:t></a:r>`)
				}
				sb.WriteString(`<a:endParaRPr lang="sv-SE" dirty="0"/></a:p>`)
			}
			sb.WriteString(`</p:txBody>`)
		}
		sb.WriteString(`</p:sp>`)
	}
	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

// Workbook builds an .xlsx with an "Auto" sheet holding period in A1 and the
// 3x5 value block in B4:F6.
func Workbook(period interface{}, values [3][5]interface{}) []byte {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Auto"); err != nil {
		panic(err)
	}
	if err := f.SetCellValue("Auto", "A1", period); err != nil {
		panic(err)
	}
	for r, row := range values {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+2, r+4)
			if err != nil {
				panic(err)
			}
			if err := f.SetCellValue("Auto", cell, v); err != nil {
				panic(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

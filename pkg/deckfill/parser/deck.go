package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/klauspost/compress/flate"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
	slideRelType     = "/slide"
)

// Deck is an opened presentation package. Parts other than rewritten slides
// are copied through unchanged on Save.
type Deck struct {
	zr     *zip.Reader
	slides []*Slide
}

// OpenDeck reads a .pptx package from memory and parses its slides in
// presentation order.
func OpenDeck(data []byte) (*Deck, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	presXML, err := readZipFile(zr, presentationPart)
	if err != nil {
		return nil, err
	}
	relsXML, err := readZipFile(zr, presentationRels)
	if err != nil {
		return nil, err
	}

	targets := parseSlideRels(relsXML)
	deck := &Deck{zr: zr}
	for i, rID := range parseSlideIDs(presXML) {
		target, ok := targets[rID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", rID)
		}
		part := resolvePartPath(target, "ppt")
		slideXML, err := readZipFile(zr, part)
		if err != nil {
			return nil, err
		}
		slide, err := ParseSlide(i+1, part, slideXML)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", part, err)
		}
		deck.slides = append(deck.slides, slide)
	}

	return deck, nil
}

// Slides returns the slides in presentation order.
func (d *Deck) Slides() []*Slide {
	return d.slides
}

// Save writes the package back out. Rewritten slide parts are recompressed;
// every other entry is copied raw in its original order.
func (d *Deck) Save() ([]byte, error) {
	changed := make(map[string]*Slide)
	for _, s := range d.slides {
		if s.dirty() {
			changed[s.Part] = s
		}
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	for _, f := range d.zr.File {
		slide, ok := changed[f.Name]
		if !ok {
			if err := w.Copy(f); err != nil {
				return nil, err
			}
			continue
		}

		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(slide.content()); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseSlideIDs returns the relationship ids of the sldIdLst entries in order.
func parseSlideIDs(data []byte) []string {
	var ids []string
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.RawToken()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sldId" {
			for _, attr := range se.Attr {
				// r:id, not the numeric slide id
				if attr.Name.Local == "id" && attr.Name.Space != "" {
					ids = append(ids, attr.Value)
				}
			}
		}
	}

	return ids
}

// parseSlideRels maps relationship ids to slide targets.
func parseSlideRels(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" && strings.HasSuffix(relType, slideRelType) {
				result[rID] = target
			}
		}
	}

	return result
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// resolvePartPath resolves a relationship target against the directory of
// its source part. Absolute targets are relative to the package root.
func resolvePartPath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(baseDir, target)
}

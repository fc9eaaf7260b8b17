package models

// Shape represents a slide shape as reported by deck inspection.
type Shape struct {
	// ID is the stable cNvPr id assigned when the deck was authored.
	ID int `json:"id"`
	// Name is the shape name shown in the selection pane.
	Name string `json:"name,omitempty"`
	// HasText reports whether the shape carries a text body.
	HasText bool `json:"has_text"`
	// Lines is the normalized text content, one entry per line.
	Lines []string `json:"lines,omitempty"`
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the shape width in pixels.
	W int `json:"w"`
	// H is the shape height in pixels.
	H int `json:"h"`
}

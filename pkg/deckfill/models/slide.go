package models

// SlideData represents the shapes found on a single slide.
type SlideData struct {
	// Index is the slide position in presentation order (1-based).
	Index int `json:"index"`
	// Part is the slide XML part name inside the package.
	Part string `json:"part"`
	// Shapes contains the slide shapes in document order.
	Shapes []Shape `json:"shapes"`
}

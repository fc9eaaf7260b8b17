package models

// DeckData represents an inspected slide deck.
type DeckData struct {
	// Slides lists slides in presentation order.
	Slides []SlideData `json:"slides"`
}

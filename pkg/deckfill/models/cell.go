// Package models defines data structures shared by the workbook and deck readers.
package models

// CellValue represents a single worksheet cell read for an update.
type CellValue struct {
	// Ref is the A1-style cell reference (e.g. "B4").
	Ref string `json:"ref"`
	// Value is the typed cell value: int64, float64, string, bool, time.Time or nil.
	Value interface{} `json:"value"`
}

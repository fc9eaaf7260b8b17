// Package deckfill copies report values from a workbook into a slide deck.
package deckfill

import "go.uber.org/zap"

// Options configures update behavior.
type Options struct {
	// Mapping selects source cells and target regions.
	// If nil, DefaultMapping is used.
	Mapping *Mapping
	// Logger receives debug output for each rewrite.
	// If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultOptions returns default update options.
func DefaultOptions() Options {
	return Options{
		Mapping: DefaultMapping(),
		Logger:  zap.NewNop(),
	}
}

func (o Options) mapping() *Mapping {
	if o.Mapping != nil {
		return o.Mapping
	}
	return DefaultMapping()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

package marketdata

import (
	"context"
	"time"
)

// Source supplies the calibrating instruments for a curve date.
type Source interface {
	Instruments(ctx context.Context, curveDate time.Time) ([]Instrument, error)
}

// StaticSource serves a fixed instrument list regardless of the curve
// date. Useful for tests and bundled presets.
type StaticSource struct {
	instruments []Instrument
}

// NewStaticSource copies instruments into a Source.
func NewStaticSource(instruments []Instrument) *StaticSource {
	out := make([]Instrument, len(instruments))
	copy(out, instruments)
	return &StaticSource{instruments: out}
}

func (s *StaticSource) Instruments(ctx context.Context, curveDate time.Time) ([]Instrument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Instrument, len(s.instruments))
	copy(out, s.instruments)
	return out, nil
}

package vad

import (
	"context"
)

// Dummy is an Engine that returns canned values; it is used by tests
// of anything layered on top of an Engine.
type Dummy struct {
	SegmentsValue []Segment
	ErrValue      error

	// WindowSizes records the length of every sample slice handed to
	// Detect, in call order.
	WindowSizes []int
}

var _ Engine = (*Dummy)(nil)

func NewDummy(segments ...Segment) *Dummy {
	return &Dummy{
		SegmentsValue: segments,
	}
}

func (vad *Dummy) Close() error {
	return nil
}

func (vad *Dummy) Detect(
	_ context.Context,
	samples []float32,
) ([]Segment, error) {
	vad.WindowSizes = append(vad.WindowSizes, len(samples))
	if vad.ErrValue != nil {
		return nil, vad.ErrValue
	}
	return vad.SegmentsValue, nil
}

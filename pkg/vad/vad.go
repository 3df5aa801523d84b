package vad

import (
	"context"
	"io"

	"github.com/xaionaro-go/audio/pkg/audio"
)

// SampleRate is the sample rate every Engine in this module expects:
// mono PCM at 16kHz, the rate the Silero models are trained on.
const SampleRate audio.SampleRate = 16000

// Segment is a contiguous speech interval found within the sample
// buffer of a single Detect call. Timestamps are in centiseconds
// relative to the beginning of that buffer.
type Segment struct {
	T0 int64
	T1 int64
}

func (s Segment) StartSeconds() float64 {
	return float64(s.T0) * 0.01
}

func (s Segment) EndSeconds() float64 {
	return float64(s.T1) * 0.01
}

// Engine classifies sub-ranges of an audio signal as speech.
//
// Detect returns the speech segments found purely within the given
// slice, time-ascending; no state is carried across calls. A nil
// result with a nil error means no speech was found.
type Engine interface {
	io.Closer

	Detect(ctx context.Context, samples []float32) ([]Segment, error)
}

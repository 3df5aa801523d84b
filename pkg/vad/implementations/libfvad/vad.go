// Package libfvad is a model-free vad.Engine backed by libfvad (the
// WebRTC voice activity detector). It is noticeably less accurate than
// the Silero backend but needs no ONNX model file.
package libfvad

import (
	"context"
	"fmt"

	"github.com/josharian/fvad"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

const (
	// DefaultSensitivityMode is the libfvad aggressiveness, 0 (most
	// permissive about what counts as speech) through 3.
	DefaultSensitivityMode = 2

	// the detector accepts 10/20/30ms frames, we feed 30ms ones
	frameSamples10Ms = int(vad.SampleRate) / 100
	frameSamples     = frameSamples10Ms * 3

	// voiced runs separated by less than this many centiseconds are
	// reported as one segment
	mergeGapCentiseconds = 30
)

type VAD struct {
	Detector *fvad.Detector
}

var _ vad.Engine = (*VAD)(nil)

func New(sensitivityMode int) (*VAD, error) {
	detector := fvad.NewDetector()
	if err := detector.SetSampleRate(int(vad.SampleRate)); err != nil {
		return nil, fmt.Errorf("unable to set the sample rate: %w", err)
	}
	if err := detector.SetMode(sensitivityMode); err != nil {
		return nil, fmt.Errorf("unable to set the sensitivity mode: %w", err)
	}
	return &VAD{
		Detector: detector,
	}, nil
}

func (v *VAD) Close() error {
	v.Detector.Close()
	return nil
}

func (v *VAD) Detect(
	_ context.Context,
	samples []float32,
) ([]vad.Segment, error) {
	var segments []vad.Segment
	frame := make([]int16, frameSamples)

	for offset := 0; offset+frameSamples <= len(samples); offset += frameSamples {
		for i := range frame {
			frame[i] = sampleToInt16(samples[offset+i])
		}
		voiced, err := v.Detector.Process(frame)
		if err != nil {
			return nil, fmt.Errorf("unable to process the frame at sample %d: %w", offset, err)
		}
		if !voiced {
			continue
		}

		t0 := int64(offset) * 100 / int64(vad.SampleRate)
		t1 := int64(offset+frameSamples) * 100 / int64(vad.SampleRate)
		if len(segments) > 0 && t0-segments[len(segments)-1].T1 < mergeGapCentiseconds {
			segments[len(segments)-1].T1 = t1
			continue
		}
		segments = append(segments, vad.Segment{T0: t0, T1: t1})
	}
	return segments, nil
}

func sampleToInt16(sample float32) int16 {
	switch {
	case sample >= 1:
		return 32767
	case sample <= -1:
		return -32768
	}
	return int16(sample * 32767)
}

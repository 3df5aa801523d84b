package silero

import (
	"context"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/streamer45/silero-vad-go/speech"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

const (
	DefaultThreshold = 0.5

	// minSamples is the smallest buffer worth handing to the detector;
	// the Silero model consumes fixed 512-sample windows and a partial
	// window cannot contain a detectable segment.
	minSamples = 512
)

type Config struct {
	ModelPath string

	// Threads is recorded for the engine configuration surface; the
	// ONNX runtime bundled with the Silero binding manages its own
	// session threading.
	Threads int

	Threshold float32
}

// VAD is a speech detector backed by a Silero ONNX model.
//
// One VAD is exclusively owned by one boundary-finding operation for
// its full duration; it is not safe for concurrent Detect calls.
type VAD struct {
	Detector *speech.Detector
	Config   Config
}

var _ vad.Engine = (*VAD)(nil)

func New(ctx context.Context, cfg Config) (*VAD, error) {
	if cfg.ModelPath == "" {
		return nil, ErrNoModel{}
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	detector, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            cfg.ModelPath,
		SampleRate:           int(vad.SampleRate),
		Threshold:            threshold,
		MinSilenceDurationMs: 0,
		SpeechPadMs:          0,
	})
	if err != nil {
		return nil, ErrInitModel{Path: cfg.ModelPath, Err: err}
	}
	logger.Debugf(ctx, "initialized a Silero VAD engine: model '%s', threshold %f, threads %d", cfg.ModelPath, threshold, cfg.Threads)
	return &VAD{
		Detector: detector,
		Config:   cfg,
	}, nil
}

func (v *VAD) Close() error {
	return v.Detector.Destroy()
}

func (v *VAD) Detect(
	ctx context.Context,
	samples []float32,
) ([]vad.Segment, error) {
	if len(samples) < minSamples {
		return nil, nil
	}

	segments, err := v.Detector.Detect(samples)
	if err != nil {
		return nil, ErrDetect{Err: err}
	}
	logger.Tracef(ctx, "detected %d segments in %d samples", len(segments), len(samples))

	bufferEndSeconds := float64(len(samples)) / float64(vad.SampleRate)
	result := make([]vad.Segment, 0, len(segments))
	for _, segment := range segments {
		endAt := segment.SpeechEndAt
		if endAt <= 0 {
			// the detector reports a non-positive end when the speech
			// runs to the end of the buffer
			endAt = bufferEndSeconds
		}
		result = append(result, vad.Segment{
			T0: int64(math.Round(segment.SpeechStartAt * 100)),
			T1: int64(math.Round(endAt * 100)),
		})
	}
	return result, nil
}

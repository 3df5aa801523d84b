// Package boundary finds the start and the end of speech in a PCM
// sample buffer, using a vad.Engine for the per-buffer classification.
//
// Two strategies are supported: a single detection pass over the whole
// buffer, and a chunked search that scans fixed-size chunks forward
// for the start and backward for the end, so that arbitrarily long
// recordings never go through the VAD model in one piece.
package boundary

import (
	"context"
	"math"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/audio/pkg/audio"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

type Mode int

const (
	// ModeAuto picks ModeWholeBuffer for inputs that fit into a single
	// chunk and ModeChunked for everything longer.
	ModeAuto Mode = iota
	ModeWholeBuffer
	ModeChunked
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeWholeBuffer:
		return "whole-buffer"
	case ModeChunked:
		return "chunked"
	}
	return "unknown"
}

const (
	// DefaultPad is the margin kept around the detected speech so that
	// the first and the last word are not clipped.
	DefaultPad = 500 * time.Millisecond

	DefaultChunkDuration = 30 * time.Second

	// DefaultEpsilon is the tolerance of the nothing-to-trim check.
	DefaultEpsilon = 10 * time.Millisecond
)

// Result is the outcome of a boundary search.
//
// The invariant 0 <= StartSeconds <= EndSeconds <= total duration
// always holds. If SpeechFound is false the input must not be touched;
// if NothingToTrim is true the speech already spans the whole buffer
// and a re-encode would be a no-op.
type Result struct {
	StartSeconds  float64
	EndSeconds    float64
	SpeechFound   bool
	NothingToTrim bool
}

// Find locates the speech boundaries in samples.
//
// samples is mono PCM at sampleRate. The engine is used exclusively by
// this call for its full duration.
func Find(
	ctx context.Context,
	samples []float32,
	sampleRate audio.SampleRate,
	engine vad.Engine,
	opts ...Option,
) (Result, error) {
	cfg := Options(opts).config()

	totalSeconds := float64(len(samples)) / float64(sampleRate)
	result := Result{
		StartSeconds: 0,
		EndSeconds:   totalSeconds,
	}
	if len(samples) == 0 {
		return result, nil
	}

	wantStart := cfg.TrimStart || (!cfg.TrimStart && !cfg.TrimEnd)
	wantEnd := cfg.TrimEnd || (!cfg.TrimStart && !cfg.TrimEnd)

	chunkSamples := int(cfg.ChunkDuration.Seconds() * float64(sampleRate))
	if chunkSamples <= 0 {
		return Result{}, ErrInvalidChunkDuration{ChunkDuration: cfg.ChunkDuration}
	}

	mode := cfg.Mode
	if mode == ModeAuto {
		if len(samples) > chunkSamples {
			mode = ModeChunked
		} else {
			mode = ModeWholeBuffer
		}
	}
	logger.Debugf(ctx, "searching for speech boundaries: %d samples (%.3fs), mode %v, start:%t end:%t", len(samples), totalSeconds, mode, wantStart, wantEnd)

	var err error
	switch mode {
	case ModeWholeBuffer:
		result, err = findWholeBuffer(ctx, samples, sampleRate, engine, cfg, wantStart, wantEnd)
	case ModeChunked:
		result, err = findChunked(ctx, samples, sampleRate, engine, cfg, chunkSamples, wantStart, wantEnd)
	default:
		return Result{}, ErrUnknownMode{Mode: mode}
	}
	if err != nil {
		return Result{}, err
	}
	if !result.SpeechFound {
		return result, nil
	}

	if result.EndSeconds < result.StartSeconds {
		result.EndSeconds = result.StartSeconds
	}
	eps := cfg.Epsilon.Seconds()
	if result.StartSeconds <= eps && result.EndSeconds >= totalSeconds-eps {
		logger.Debugf(ctx, "the speech spans the whole buffer, nothing to trim")
		result.NothingToTrim = true
	}
	return result, nil
}

func findWholeBuffer(
	ctx context.Context,
	samples []float32,
	sampleRate audio.SampleRate,
	engine vad.Engine,
	cfg config,
	wantStart, wantEnd bool,
) (Result, error) {
	totalSeconds := float64(len(samples)) / float64(sampleRate)
	result := Result{
		StartSeconds: 0,
		EndSeconds:   totalSeconds,
	}

	segments, err := engine.Detect(ctx, samples)
	if err != nil {
		return Result{}, ErrDetect{Err: err}
	}
	if len(segments) == 0 {
		return result, nil
	}
	result.SpeechFound = true

	pad := cfg.Pad.Seconds()
	if wantStart {
		result.StartSeconds = math.Max(0, segments[0].StartSeconds()-pad)
	}
	if wantEnd {
		result.EndSeconds = math.Min(totalSeconds, segments[len(segments)-1].EndSeconds()+pad)
	}
	return result, nil
}

func findChunked(
	ctx context.Context,
	samples []float32,
	sampleRate audio.SampleRate,
	engine vad.Engine,
	cfg config,
	chunkSamples int,
	wantStart, wantEnd bool,
) (Result, error) {
	totalSeconds := float64(len(samples)) / float64(sampleRate)
	result := Result{
		StartSeconds: 0,
		EndSeconds:   totalSeconds,
	}
	pad := cfg.Pad.Seconds()

	if wantStart {
		foundStart := false
		for offset := 0; offset < len(samples); offset += chunkSamples {
			chunkEnd := min(offset+chunkSamples, len(samples))
			segments := detectChunk(ctx, engine, samples, offset, chunkEnd)
			if len(segments) == 0 {
				continue
			}
			start := float64(offset)/float64(sampleRate) + segments[0].StartSeconds()
			result.StartSeconds = math.Max(0, start-pad)
			foundStart = true
			break
		}
		if !foundStart {
			// silence everywhere: no point in scanning for the end
			return result, nil
		}
		result.SpeechFound = true
	}

	if wantEnd {
		// chunks are anchored to the end of the buffer here, so they do
		// not have to realign with the forward scan
		startSample := int(result.StartSeconds * float64(sampleRate))
		foundEnd := false
		for chunkEnd := len(samples); chunkEnd > 0; chunkEnd -= chunkSamples {
			chunkStart := max(0, chunkEnd-chunkSamples)
			segments := detectChunk(ctx, engine, samples, chunkStart, chunkEnd)
			if len(segments) > 0 {
				end := float64(chunkStart)/float64(sampleRate) + segments[len(segments)-1].EndSeconds()
				result.EndSeconds = math.Min(totalSeconds, end+pad)
				foundEnd = true
				break
			}
			if chunkStart <= startSample {
				// the forward scan already covered this territory
				break
			}
		}
		if foundEnd {
			result.SpeechFound = true
		} else {
			// without a start scan this was the only scan, so no hit
			// here means no speech at all and SpeechFound stays false
			result.EndSeconds = totalSeconds
		}
	}

	return result, nil
}

// detectChunk runs the engine on samples[chunkStart:chunkEnd]; a failed
// detection on a single chunk is downgraded to "no segments found".
func detectChunk(
	ctx context.Context,
	engine vad.Engine,
	samples []float32,
	chunkStart, chunkEnd int,
) []vad.Segment {
	segments, err := engine.Detect(ctx, samples[chunkStart:chunkEnd])
	if err != nil {
		logger.Warnf(ctx, "speech detection failed on chunk [%d:%d], considering it silent: %v", chunkStart, chunkEnd, err)
		return nil
	}
	return segments
}

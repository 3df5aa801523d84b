// Package trim ties the pieces together: decode the input into a
// sample buffer, find the speech boundaries, cut the speech span with
// the external transcoder and, in the default mode, atomically replace
// the input file with the result.
package trim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/trimsilence/pkg/boundary"
	"github.com/xaionaro-go/trimsilence/pkg/pcm"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

// Transcoder is the external collaborator performing the decode and
// the actual cut; see ffmpeg.FFmpeg.
type Transcoder interface {
	pcm.Decoder

	Cut(
		ctx context.Context,
		inputPath string,
		outputPath string,
		startSeconds, endSeconds, totalSeconds float64,
	) error
}

type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeTrimmed
	// OutcomeNoSpeech: the VAD never fired; no output file is produced.
	OutcomeNoSpeech
	// OutcomeNothingToTrim: speech spans the whole file; re-encoding
	// would be a no-op, so none happens.
	OutcomeNothingToTrim
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeTrimmed:
		return "trimmed"
	case OutcomeNoSpeech:
		return "no-speech"
	case OutcomeNothingToTrim:
		return "nothing-to-trim"
	}
	return "unknown"
}

// Report describes what a Trim call did.
type Report struct {
	Outcome      Outcome
	StartSeconds float64
	EndSeconds   float64
	TotalSeconds float64
}

// Request is one trimming operation. An empty OutputPath selects the
// in-place mode: the result is written to a temporary file next to the
// input and renamed over it, so a failed trim never destroys the
// source.
type Request struct {
	InputPath  string
	OutputPath string
}

type Trimmer struct {
	Engine     vad.Engine
	Transcoder Transcoder
	Options    Options
}

func New(engine vad.Engine, transcoder Transcoder, opts ...Option) *Trimmer {
	return &Trimmer{
		Engine:     engine,
		Transcoder: transcoder,
		Options:    opts,
	}
}

func (t *Trimmer) Trim(ctx context.Context, req Request) (Report, error) {
	samples, err := pcm.FromFile(ctx, req.InputPath, t.Transcoder)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		TotalSeconds: float64(len(samples)) / float64(vad.SampleRate),
	}

	cfg := t.Options.config()
	result, err := boundary.Find(ctx, samples, vad.SampleRate, t.Engine, cfg.BoundaryOptions...)
	if err != nil {
		return report, err
	}
	report.StartSeconds = result.StartSeconds
	report.EndSeconds = result.EndSeconds

	if !result.SpeechFound {
		logger.Debugf(ctx, "no speech in '%s'", req.InputPath)
		report.Outcome = OutcomeNoSpeech
		return report, nil
	}
	if result.NothingToTrim {
		logger.Debugf(ctx, "nothing to trim in '%s'", req.InputPath)
		report.Outcome = OutcomeNothingToTrim
		return report, nil
	}

	outputPath := req.OutputPath
	replaceInput := outputPath == ""
	if replaceInput {
		// the temporary file lives next to the input so that the final
		// rename never crosses filesystems
		tmpFile, err := os.CreateTemp(filepath.Dir(req.InputPath), "trimsilence-*"+filepath.Ext(req.InputPath))
		if err != nil {
			return report, ErrCreateTemp{Err: err}
		}
		outputPath = tmpFile.Name()
		if err := tmpFile.Close(); err != nil {
			return report, ErrCreateTemp{Err: err}
		}
	}

	if err := t.Transcoder.Cut(ctx, req.InputPath, outputPath, result.StartSeconds, result.EndSeconds, report.TotalSeconds); err != nil {
		var mErr *multierror.Error
		mErr = multierror.Append(mErr, err)
		if replaceInput {
			if rmErr := os.Remove(outputPath); rmErr != nil {
				mErr = multierror.Append(mErr, fmt.Errorf("unable to remove the temporary file: %w", rmErr))
			}
		}
		return report, mErr.ErrorOrNil()
	}

	if replaceInput {
		if err := os.Rename(outputPath, req.InputPath); err != nil {
			var mErr *multierror.Error
			mErr = multierror.Append(mErr, ErrReplace{Path: req.InputPath, Err: err})
			if rmErr := os.Remove(outputPath); rmErr != nil {
				mErr = multierror.Append(mErr, fmt.Errorf("unable to remove the temporary file: %w", rmErr))
			}
			return report, mErr.ErrorOrNil()
		}
	}

	report.Outcome = OutcomeTrimmed
	return report, nil
}

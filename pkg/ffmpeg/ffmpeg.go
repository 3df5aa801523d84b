// Package ffmpeg wraps the external ffmpeg binary: decoding audio into
// the PCM format the VAD engines expect, and the stream-copy cut that
// performs the actual trim. Commands are always built as an argument
// vector, never as a shell string.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-version"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

const DefaultBinary = "ffmpeg"

// minVersion is the oldest ffmpeg this tool is known to work with.
var minVersion = version.Must(version.NewVersion("4.0"))

type FFmpeg struct {
	Binary string
}

// New locates the ffmpeg binary and probes its version. An ffmpeg
// older than 4.0 only produces a warning: the probe is advisory.
func New(ctx context.Context) (*FFmpeg, error) {
	binaryPath, err := exec.LookPath(DefaultBinary)
	if err != nil {
		return nil, ErrNotFound{Err: err}
	}
	f := &FFmpeg{
		Binary: binaryPath,
	}
	f.checkVersion(ctx)
	return f, nil
}

func (f *FFmpeg) checkVersion(ctx context.Context) {
	output, err := exec.CommandContext(ctx, f.Binary, "-version").Output()
	if err != nil {
		logger.Debugf(ctx, "unable to probe the ffmpeg version: %v", err)
		return
	}
	v, err := parseVersion(string(output))
	if err != nil {
		logger.Debugf(ctx, "unable to parse the ffmpeg version: %v", err)
		return
	}
	logger.Debugf(ctx, "ffmpeg version: %v", v)
	if v.LessThan(minVersion) {
		logger.Warnf(ctx, "ffmpeg %v is older than %v, trimming may misbehave", v, minVersion)
	}
}

// parseVersion extracts the version from the first line of
// `ffmpeg -version` output, e.g. "ffmpeg version 6.1.1-3ubuntu5 ...".
func parseVersion(output string) (*version.Version, error) {
	line, _, _ := strings.Cut(output, "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "ffmpeg" || fields[1] != "version" {
		return nil, fmt.Errorf("unexpected output: '%s'", line)
	}
	raw := fields[2]
	// distributions append suffixes like "-3ubuntu5" or "-static",
	// git builds prefix the tag name with "n"
	if cut, _, found := strings.Cut(raw, "-"); found {
		raw = cut
	}
	raw = strings.TrimPrefix(raw, "n")
	return version.NewVersion(raw)
}

func decodeArgs(inputPath string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", inputPath,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", vad.SampleRate),
		"-",
	}
}

// DecodePCM decodes inputPath into raw mono float32 PCM at
// vad.SampleRate, collected from ffmpeg's stdout.
func (f *FFmpeg) DecodePCM(
	ctx context.Context,
	inputPath string,
) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Binary, decodeArgs(inputPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debugf(ctx, "decoding: %v", cmd.Args)
	if err := cmd.Run(); err != nil {
		return nil, ErrDecode{Path: inputPath, Err: err, Output: stderr.String()}
	}
	return stdout.Bytes(), nil
}

func cutArgs(inputPath, outputPath string, startSeconds, endSeconds, totalSeconds float64) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin", "-y",
		"-i", inputPath,
		"-ss", fmt.Sprintf("%.3f", startSeconds),
	}
	if endSeconds < totalSeconds {
		args = append(args, "-to", fmt.Sprintf("%.3f", endSeconds))
	}
	return append(args, "-c", "copy", outputPath)
}

// Cut stream-copies the [startSeconds,endSeconds] span of inputPath
// into outputPath. When endSeconds is not below totalSeconds the `-to`
// argument is omitted and the copy runs to the end of the input.
func (f *FFmpeg) Cut(
	ctx context.Context,
	inputPath string,
	outputPath string,
	startSeconds, endSeconds, totalSeconds float64,
) error {
	cmd := exec.CommandContext(ctx, f.Binary, cutArgs(inputPath, outputPath, startSeconds, endSeconds, totalSeconds)...)
	logger.Debugf(ctx, "trimming: %v", cmd.Args)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ErrCut{Path: inputPath, Err: err, Output: string(output)}
	}
	return nil
}

// Package pcm acquires the mono float32 sample buffer the VAD engines
// consume. WAV files that already match the expected format are decoded
// in-process; everything else goes through an external decoder.
package pcm

import (
	"context"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

// Decoder decodes an audio file into raw f32le mono PCM bytes at
// vad.SampleRate; see ffmpeg.FFmpeg.
type Decoder interface {
	DecodePCM(ctx context.Context, path string) ([]byte, error)
}

// FromFile loads path as a mono float32 sample buffer at
// vad.SampleRate, falling back to the decoder for anything that is not
// already a matching WAV file.
func FromFile(
	ctx context.Context,
	path string,
	decoder Decoder,
) ([]float32, error) {
	samples, err := fromWAV(path)
	if err == nil {
		logger.Debugf(ctx, "decoded '%s' in-process: %d samples", path, len(samples))
		return samples, nil
	}
	logger.Debugf(ctx, "no in-process decode path for '%s' (%v), falling back to the external decoder", path, err)

	raw, err := decoder.DecodePCM(ctx, path)
	if err != nil {
		return nil, ErrRead{Path: path, Err: err}
	}
	return convertBytesToFloat32Slice(raw), nil
}

func fromWAV(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a PCM WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to read the PCM buffer: %w", err)
	}
	if buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("expected mono, got %d channels", buf.Format.NumChannels)
	}
	if buf.Format.SampleRate != int(vad.SampleRate) {
		return nil, fmt.Errorf("expected %d Hz, got %d Hz", vad.SampleRate, buf.Format.SampleRate)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, value := range buf.Data {
		samples[i] = float32(value) / scale
	}
	return samples, nil
}

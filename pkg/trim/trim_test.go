package trim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/trimsilence/pkg/vad"
)

type fakeTranscoder struct {
	CutCalls  int
	CutErr    error
	CutOutput []byte

	LastStart float64
	LastEnd   float64
}

var _ Transcoder = (*fakeTranscoder)(nil)

func (f *fakeTranscoder) DecodePCM(_ context.Context, path string) ([]byte, error) {
	return nil, fmt.Errorf("unexpected external decode of '%s'", path)
}

func (f *fakeTranscoder) Cut(
	_ context.Context,
	_ string,
	outputPath string,
	startSeconds, endSeconds, _ float64,
) error {
	f.CutCalls++
	f.LastStart = startSeconds
	f.LastEnd = endSeconds
	if f.CutErr != nil {
		return f.CutErr
	}
	return os.WriteFile(outputPath, f.CutOutput, 0o644)
}

// writeInput writes a silent two-second mono 16kHz WAV file; the
// canned segments of the dummy engine decide what gets "detected".
func writeInput(t *testing.T, path string) []byte {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := wav.NewEncoder(file, int(vad.SampleRate), 16, 1, 1)
	require.NoError(t, encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(vad.SampleRate),
		},
		Data:           make([]int, 2*int(vad.SampleRate)),
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return content
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestTrimNoSpeech(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	original := writeInput(t, input)

	transcoder := &fakeTranscoder{}
	engine := vad.NewDummy()
	trimmer := New(engine, transcoder)
	report, err := trimmer.Trim(ctx, Request{InputPath: input})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoSpeech, report.Outcome)
	require.Zero(t, transcoder.CutCalls)
	// short input, so the whole buffer went through the VAD at once
	require.Equal(t, []int{2 * int(vad.SampleRate)}, engine.WindowSizes)

	require.Equal(t, []string{"in.wav"}, dirEntries(t, dir))
	content, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, original, content)
}

func TestTrimNothingToTrim(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	writeInput(t, input)

	transcoder := &fakeTranscoder{}
	// speech spans the whole two seconds
	trimmer := New(vad.NewDummy(vad.Segment{T0: 0, T1: 200}), transcoder)
	report, err := trimmer.Trim(ctx, Request{InputPath: input})
	require.NoError(t, err)
	require.Equal(t, OutcomeNothingToTrim, report.Outcome)
	require.Zero(t, transcoder.CutCalls)
	require.Equal(t, []string{"in.wav"}, dirEntries(t, dir))
}

func TestTrimInPlace(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	writeInput(t, input)

	transcoder := &fakeTranscoder{CutOutput: []byte("trimmed audio")}
	trimmer := New(vad.NewDummy(vad.Segment{T0: 100, T1: 150}), transcoder)
	report, err := trimmer.Trim(ctx, Request{InputPath: input})
	require.NoError(t, err)
	require.Equal(t, OutcomeTrimmed, report.Outcome)
	require.Equal(t, 1, transcoder.CutCalls)
	require.InDelta(t, 0.5, transcoder.LastStart, 0.001)
	require.InDelta(t, 2.0, transcoder.LastEnd, 0.001)

	// the input was replaced and the temporary file is gone
	require.Equal(t, []string{"in.wav"}, dirEntries(t, dir))
	content, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, []byte("trimmed audio"), content)
}

func TestTrimToOutputPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	output := filepath.Join(dir, "out.wav")
	original := writeInput(t, input)

	transcoder := &fakeTranscoder{CutOutput: []byte("trimmed audio")}
	trimmer := New(vad.NewDummy(vad.Segment{T0: 100, T1: 150}), transcoder)
	report, err := trimmer.Trim(ctx, Request{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	require.Equal(t, OutcomeTrimmed, report.Outcome)

	content, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, original, content)
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, []byte("trimmed audio"), written)
}

func TestTrimTranscodeFailureKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	original := writeInput(t, input)

	transcoder := &fakeTranscoder{CutErr: fmt.Errorf("transcode failed")}
	trimmer := New(vad.NewDummy(vad.Segment{T0: 100, T1: 150}), transcoder)
	report, err := trimmer.Trim(ctx, Request{InputPath: input})
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, report.Outcome)

	// original byte-identical, temporary file cleaned up
	content, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, original, content)
	require.Equal(t, []string{"in.wav"}, dirEntries(t, dir))
}

func TestTrimDetectionFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.wav")
	writeInput(t, input)

	engine := vad.NewDummy()
	engine.ErrValue = fmt.Errorf("inference failed")
	transcoder := &fakeTranscoder{}
	trimmer := New(engine, transcoder)
	_, err := trimmer.Trim(ctx, Request{InputPath: input})
	require.Error(t, err)
	require.Zero(t, transcoder.CutCalls)
}

func TestFormatTimestamp(t *testing.T) {
	require.Equal(t, "00:00.000", FormatTimestamp(0))
	require.Equal(t, "00:01.500", FormatTimestamp(1.5))
	require.Equal(t, "02:03.250", FormatTimestamp(123.25))
	require.Equal(t, "01:00:01.000", FormatTimestamp(3601))
}

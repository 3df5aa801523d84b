package pcm

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct {
	Data  []byte
	Err   error
	Calls int
}

func (d *fakeDecoder) DecodePCM(_ context.Context, _ string) ([]byte, error) {
	d.Calls++
	return d.Data, d.Err
}

func writeWAV(t *testing.T, path string, sampleRate int, data []int) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := wav.NewEncoder(file, sampleRate, 16, 1, 1)
	require.NoError(t, encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, encoder.Close())
}

func TestConvertBytesToFloat32Slice(t *testing.T) {
	want := []float32{0, 1, -1, 0.5, -0.25}
	b := make([]byte, 0, len(want)*4)
	for _, f := range want {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}

	got := convertBytesToFloat32Slice(b)
	require.Equal(t, want, got)

	require.Empty(t, convertBytesToFloat32Slice(nil))
	// trailing partial sample is dropped
	require.Len(t, convertBytesToFloat32Slice(b[:7]), 1)
}

func TestFromFileWAV(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.wav")
	writeWAV(t, path, 16000, []int{0, 16384, -16384, 32767})

	decoder := &fakeDecoder{Err: fmt.Errorf("must not be called")}
	samples, err := FromFile(ctx, path, decoder)
	require.NoError(t, err)
	require.Zero(t, decoder.Calls)
	require.Len(t, samples, 4)
	require.InDelta(t, 0, samples[0], 1e-6)
	require.InDelta(t, 0.5, samples[1], 1e-4)
	require.InDelta(t, -0.5, samples[2], 1e-4)
	require.InDelta(t, 1, samples[3], 1e-3)
}

func TestFromFileFallsBackOnWrongRate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.wav")
	writeWAV(t, path, 44100, []int{1, 2, 3})

	raw := binary.LittleEndian.AppendUint32(nil, math.Float32bits(0.25))
	decoder := &fakeDecoder{Data: raw}
	samples, err := FromFile(ctx, path, decoder)
	require.NoError(t, err)
	require.Equal(t, 1, decoder.Calls)
	require.Equal(t, []float32{0.25}, samples)
}

func TestFromFileReadFailure(t *testing.T) {
	ctx := context.Background()
	decoder := &fakeDecoder{Err: fmt.Errorf("decode failed")}
	_, err := FromFile(ctx, filepath.Join(t.TempDir(), "absent.opus"), decoder)
	require.Error(t, err)
	require.ErrorAs(t, err, &ErrRead{})
}

package dtmf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWav(t *testing.T, channels int, frames [][2]uint32) string {
	t.Helper()

	var path = filepath.Join(t.TempDir(), "test.wav")

	var f, err = os.Create(path)
	require.NoError(t, err)

	var w, wErr = NewWavWriter(f, 8000, channels, DefaultMaxAmplitude)
	require.NoError(t, wErr)

	for _, fr := range frames {
		w.PutSample(fr[0], fr[1])
	}

	assert.Equal(t, len(frames), w.Frames())
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	return path
}

func openWav(t *testing.T, path string) *WavSource {
	t.Helper()

	var f, err = os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	var s, sErr = NewWavSource(f)
	require.NoError(t, sErr)

	return s
}

func TestWavRoundTrip(t *testing.T) {
	var mid = uint32(DefaultMaxAmplitude / 2)
	var path = writeWav(t, 1, [][2]uint32{
		{DefaultMaxAmplitude, DefaultMaxAmplitude},
		{0, 0},
		{mid, mid},
	})

	var info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(44+3*2), info.Size())

	var s = openWav(t, path)
	assert.Equal(t, 8000, s.SampleRate())
	assert.Equal(t, 1, s.Channels())

	for _, want := range []int32{32767 << 8, -32768 << 8, -1 << 8} {
		var v, readErr = s.ReadSample()
		require.NoError(t, readErr)
		assert.Equal(t, want, v)
	}

	assert.Equal(t, 375*time.Microsecond, s.Elapsed())

	var _, eofErr = s.ReadSample()
	assert.ErrorIs(t, eofErr, ErrSourceClosed)
}

func TestWavStereoReadsFirstChannel(t *testing.T) {
	var path = writeWav(t, 2, [][2]uint32{
		{DefaultMaxAmplitude, 0},
		{0, DefaultMaxAmplitude},
	})

	var s = openWav(t, path)
	assert.Equal(t, 2, s.Channels())

	var first, err = s.ReadSample()
	require.NoError(t, err)
	assert.Equal(t, int32(32767<<8), first)

	var second, err2 = s.ReadSample()
	require.NoError(t, err2)
	assert.Equal(t, int32(-32768<<8), second)

	var _, eofErr = s.ReadSample()
	assert.ErrorIs(t, eofErr, ErrSourceClosed)
}

func TestWavWriterChannels(t *testing.T) {
	var f, err = os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	require.NoError(t, err)
	defer f.Close()

	var _, wErr = NewWavWriter(f, 8000, 3, DefaultMaxAmplitude)
	assert.Error(t, wErr)
}

func TestWavSourceNotWav(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("this is not a wav file at all, honest"), 0o600))

	var f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var _, sErr = NewWavSource(f)
	assert.Error(t, sErr)
}

func TestWavSourceZeroSampleRate(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "zero.wav")

	var f, err = os.Create(path)
	require.NoError(t, err)

	var w, wErr = NewWavWriter(f, 0, 1, DefaultMaxAmplitude)
	require.NoError(t, wErr)

	w.PutSample(0, 0)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	var in, openErr = os.Open(path)
	require.NoError(t, openErr)
	defer in.Close()

	var _, sErr = NewWavSource(in)
	assert.ErrorContains(t, sErr, "sample rate")
}

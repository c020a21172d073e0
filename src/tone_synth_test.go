package dtmf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recordingSink struct {
	left, right []uint32
}

func (r *recordingSink) PutSample(left, right uint32) {
	r.left = append(r.left, left)
	r.right = append(r.right, right)
}

func TestOscillators(t *testing.T) {
	var osc Oscillators

	assert.True(t, osc.Muted(), "zero value should be muted")

	osc.SetTones(770, 1336)

	var low, high = osc.Tones()
	assert.InDelta(t, 770, low, 0)
	assert.InDelta(t, 1336, high, 0)
	assert.False(t, osc.Muted())

	osc.Mute()

	low, high = osc.Tones()
	assert.Zero(t, low)
	assert.Zero(t, high)
}

func TestToneSynthesizerMutedIsMidScale(t *testing.T) {
	var osc Oscillators
	var synth = NewToneSynthesizer(&osc, 48000, DefaultMaxAmplitude, nil)

	for range 10 {
		assert.Equal(t, uint32(DefaultMaxAmplitude/2), synth.OnTick())
	}
}

func TestToneSynthesizerSink(t *testing.T) {
	var osc Oscillators
	osc.SetTones(697, 1209)

	var sink = new(recordingSink)
	var synth = NewToneSynthesizer(&osc, 48000, DefaultMaxAmplitude, sink)

	var returned []uint32
	for range 100 {
		returned = append(returned, synth.OnTick())
	}

	assert.Equal(t, returned, sink.left)
	assert.Equal(t, sink.left, sink.right, "both channels carry the same sample")
}

func TestToneSynthesizerFirstSample(t *testing.T) {
	var osc Oscillators
	osc.SetTones(1000, 2000)

	var synth = NewToneSynthesizer(&osc, 8000, DefaultMaxAmplitude, nil)

	var got = synth.OnTick()

	// Phases pi/4 and pi/2.
	var s = 0.5 * (math.Sin(math.Pi/4) + math.Sin(math.Pi/2))
	var want = uint32((s + 1) / 2 * DefaultMaxAmplitude)

	assert.InDelta(t, want, got, 1)
}

func Test_ToneSynthesizerPhaseStaysWrapped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var sampleRate = rapid.SampledFrom([]int{8000, 16000, 44100, 48000}).Draw(t, "sampleRate")
		var nyquist = float64(sampleRate) / 2
		var low = rapid.Float64Range(0, nyquist).Draw(t, "low")
		var high = rapid.Float64Range(0, nyquist).Draw(t, "high")
		var ticks = rapid.IntRange(1, 5000).Draw(t, "ticks")

		var osc Oscillators
		osc.SetTones(low, high)

		var synth = NewToneSynthesizer(&osc, sampleRate, DefaultMaxAmplitude, nil)

		for range ticks {
			var v = synth.OnTick()
			require.LessOrEqual(t, v, uint32(DefaultMaxAmplitude))

			var pl, ph = synth.Phases()
			require.GreaterOrEqual(t, pl, 0.0)
			require.Less(t, pl, twoPi)
			require.GreaterOrEqual(t, ph, 0.0)
			require.Less(t, ph, twoPi)
		}
	})
}

func Test_ToneSynthesizerPhaseReturnsAfterOnePeriod(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var sampleRate = rapid.SampledFrom([]int{8000, 16000, 44100, 48000}).Draw(t, "sampleRate")
		var f = rapid.Float64Range(20, float64(sampleRate)/2).Draw(t, "f")

		var osc Oscillators
		osc.SetTones(f, 0)

		var synth = NewToneSynthesizer(&osc, sampleRate, DefaultMaxAmplitude, nil)

		synth.OnTick()
		var start, _ = synth.Phases()

		for range int(math.Round(float64(sampleRate) / f)) {
			synth.OnTick()
		}

		var end, _ = synth.Phases()

		var d = math.Mod(math.Abs(end-start), twoPi)
		d = math.Min(d, twoPi-d)

		require.LessOrEqual(t, d, twoPi*f/float64(sampleRate)+1e-9)
	})
}

package dtmf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func newDefaultClassifier(extended bool) *ToneClassifier {
	return NewToneClassifier(NewSymbolTable(extended), DefaultSampleRate, DefaultFFTSize,
		DefaultMinMagnitude, DefaultMinRatio, DefaultToleranceHz)
}

func TestClassifyFive(t *testing.T) {
	// 750 Hz and 1359.375 Hz: 20 + 23.375 Hz from '5'.
	var res = newDefaultClassifier(false).Classify(
		BandPeak{Bin: 16, Magnitude: 10},
		BandPeak{Bin: 29, Magnitude: 8})

	assert.Equal(t, OutcomeDetected, res.Outcome)
	assert.Equal(t, Symbol('5'), res.Symbol)
	assert.InDelta(t, 43.375, res.MatchError, 1e-9)
	assert.InDelta(t, 750, res.LowFreq, 1e-9)
	assert.InDelta(t, 1359.375, res.HighFreq, 1e-9)
}

func TestClassifySilence(t *testing.T) {
	var c = newDefaultClassifier(false)
	var none = BandPeak{Bin: NoPeak}

	var tests = []struct {
		name      string
		low, high BandPeak
	}{
		{"nothing", none, none},
		{"low only", BandPeak{Bin: 16, Magnitude: 10}, none},
		{"high only", none, BandPeak{Bin: 29, Magnitude: 10}},
		{"too quiet", BandPeak{Bin: 16, Magnitude: 0.01}, BandPeak{Bin: 29, Magnitude: 0.01}},
		{"high too weak", BandPeak{Bin: 16, Magnitude: 10}, BandPeak{Bin: 29, Magnitude: 2.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res = c.Classify(tt.low, tt.high)
			assert.True(t, res.IsSilence(), "got %s", res.Outcome)
		})
	}
}

func TestClassifyRatioBoundary(t *testing.T) {
	var res = newDefaultClassifier(false).Classify(
		BandPeak{Bin: 16, Magnitude: 10},
		BandPeak{Bin: 29, Magnitude: 3})

	assert.Equal(t, OutcomeDetected, res.Outcome, "exactly 0.3 of the low peak is enough")
}

func TestClassifyAmbiguous(t *testing.T) {
	// 1031.25 Hz and 1125 Hz are nowhere near any key.
	var res = newDefaultClassifier(false).Classify(
		BandPeak{Bin: 22, Magnitude: 10},
		BandPeak{Bin: 24, Magnitude: 10})

	assert.Equal(t, OutcomeAmbiguous, res.Outcome)
	assert.GreaterOrEqual(t, res.MatchError, DefaultToleranceHz)
}

func TestClassifyExtendedColumn(t *testing.T) {
	// 843.75 Hz and 1640.625 Hz.
	var low = BandPeak{Bin: 18, Magnitude: 10}
	var high = BandPeak{Bin: 35, Magnitude: 10}

	var res = newDefaultClassifier(true).Classify(low, high)
	assert.Equal(t, OutcomeDetected, res.Outcome)
	assert.Equal(t, Symbol('C'), res.Symbol)

	res = newDefaultClassifier(false).Classify(low, high)
	assert.NotEqual(t, OutcomeDetected, res.Outcome, "no C on the standard keypad")
}

func TestMatchExact(t *testing.T) {
	var c = newDefaultClassifier(true)

	for _, d := range c.table.All() {
		var got, e = c.Match(d.Low, d.High)
		assert.Equal(t, d, got)
		assert.Zero(t, e)
	}
}

func Test_MatchIsSymmetric(t *testing.T) {
	var c = newDefaultClassifier(false)

	rapid.Check(t, func(t *rapid.T) {
		var f1 = rapid.Float64Range(0, 4000).Draw(t, "f1")
		var f2 = rapid.Float64Range(0, 4000).Draw(t, "f2")

		var d1, e1 = c.Match(f1, f2)
		var d2, e2 = c.Match(f2, f1)

		assert.Equal(t, d1, d2)
		assert.InDelta(t, e1, e2, 1e-9)
		assert.GreaterOrEqual(t, e1, 0.0)
	})
}

func Test_ClassifyIsSymmetric(t *testing.T) {
	var c = newDefaultClassifier(true)

	var straight = c.Classify(BandPeak{Bin: 16, Magnitude: 10}, BandPeak{Bin: 29, Magnitude: 10})
	var swapped = c.Classify(BandPeak{Bin: 29, Magnitude: 10}, BandPeak{Bin: 16, Magnitude: 10})

	assert.Equal(t, OutcomeDetected, swapped.Outcome)
	assert.Equal(t, Symbol('5'), swapped.Symbol)
	assert.InDelta(t, straight.MatchError, swapped.MatchError, 1e-9)

	rapid.Check(t, func(t *rapid.T) {
		var b1 = rapid.IntRange(1, DefaultFFTSize/2-1).Draw(t, "b1")
		var b2 = rapid.IntRange(1, DefaultFFTSize/2-1).Draw(t, "b2")
		var m = rapid.Float64Range(0, 100).Draw(t, "magnitude")

		var r1 = c.Classify(BandPeak{Bin: b1, Magnitude: m}, BandPeak{Bin: b2, Magnitude: m})
		var r2 = c.Classify(BandPeak{Bin: b2, Magnitude: m}, BandPeak{Bin: b1, Magnitude: m})

		assert.Equal(t, r1.Outcome, r2.Outcome)

		if r1.Outcome != OutcomeSilence {
			assert.Equal(t, r1.Symbol, r2.Symbol)
			assert.InDelta(t, r1.MatchError, r2.MatchError, 1e-9)
		}
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "silence", OutcomeSilence.String())
	assert.Equal(t, "ambiguous", OutcomeAmbiguous.String())
	assert.Equal(t, "detected", OutcomeDetected.String())
}

package dtmf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiverLoopbackEverySymbol(t *testing.T) {
	for _, backend := range []string{BackendGonum, BackendGoDSP} {
		t.Run(backend, func(t *testing.T) {
			var cfg = DefaultConfig()
			cfg.FFTBackend = backend
			cfg.ExtendedKeypad = true

			var osc = new(Oscillators)
			var synth = NewToneSynthesizer(osc, cfg.SampleRate, cfg.MaxAmplitude, nil)

			var receiver, err = NewReceiverFromConfig(cfg, NewLoopbackSource(synth, cfg.MaxAmplitude))
			require.NoError(t, err)

			for _, def := range NewSymbolTable(true).All() {
				osc.SetTones(def.Low, def.High)

				// Several passes, so the phases differ at the start of each block.
				for pass := range 3 {
					var res, passErr = receiver.Pass()
					require.NoError(t, passErr)

					assert.Equal(t, OutcomeDetected, res.Outcome, "%c pass %d", def.Symbol, pass)
					assert.Equal(t, def.Symbol, res.Symbol, "%c pass %d", def.Symbol, pass)
					assert.Less(t, res.MatchError, DefaultToleranceHz)
				}
			}
		})
	}
}

func TestReceiverSilence(t *testing.T) {
	var receiver, err = NewReceiverFromConfig(DefaultConfig(), new(constantSource))
	require.NoError(t, err)

	var res, passErr = receiver.Pass()
	require.NoError(t, passErr)
	assert.True(t, res.IsSilence())
}

func TestReceiverBlockSizeMismatch(t *testing.T) {
	var capture, captureErr = NewSampleCapture(new(constantSource), 1024, 48000)
	require.NoError(t, captureErr)

	var transform, transformErr = NewTransform(BackendGonum, 512)
	require.NoError(t, transformErr)

	var _, err = NewReceiver(capture,
		NewSpectrumAnalyzer(transform, 48000),
		newDefaultPeakDetector(),
		newDefaultClassifier(false))
	assert.ErrorIs(t, err, ErrBlockSize)
}

func TestSampleCapture(t *testing.T) {
	var source = &constantSource{value: FullScale24 / 2}

	var capture, err = NewSampleCapture(source, 8, 8000)
	require.NoError(t, err)
	assert.Equal(t, 8, capture.Size())
	assert.Equal(t, "1ms", capture.BlockDuration().String())

	var block, captureErr = capture.Capture()
	require.NoError(t, captureErr)
	require.Len(t, block, 16)

	for i := 0; i < len(block); i += 2 {
		assert.InDelta(t, 0.5, block[i], 0)
		assert.Zero(t, block[i+1])
	}

	var _, sizeErr = NewSampleCapture(source, 100, 8000)
	assert.ErrorIs(t, sizeErr, ErrBlockSize)
}

func TestSelfTest(t *testing.T) {
	var cfg = DefaultConfig()
	cfg.ExtendedKeypad = true

	var out bytes.Buffer

	var failures, err = SelfTest(cfg, &out)
	require.NoError(t, err)
	assert.Zero(t, failures, out.String())
	assert.Equal(t, 17, strings.Count(out.String(), "ok"), out.String())
}

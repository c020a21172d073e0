package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Generate the two tone DTMF signal, one sample per
 *		tick of the sample clock.
 *
 * Description:	Two phase accumulators, one per tone.  The tick
 *		handler runs in the audio callback so it must not
 *		block, allocate, or fail.
 *
 *		The only state shared with the main loop is the pair
 *		of frequencies in Oscillators.  The main loop writes,
 *		the tick handler reads.  Both frequencies are packed
 *		into one 64 bit word so the handler never sees a new
 *		low tone with an old high tone.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"sync/atomic"
)

// DefaultMaxAmplitude is the full scale of a 24 bit unsigned output sample.
const DefaultMaxAmplitude = 0x7FFFFF

const twoPi = 2 * math.Pi

// Oscillators holds the selected tone pair.  Zero value is muted.
type Oscillators struct {
	packed atomic.Uint64 // low float32 bits in the upper half, high in the lower.
}

func packTones(low, high float64) uint64 {
	return uint64(math.Float32bits(float32(low)))<<32 | uint64(math.Float32bits(float32(high)))
}

// SetTones selects a tone pair.  Called from the main loop only.
func (o *Oscillators) SetTones(low, high float64) {
	o.packed.Store(packTones(low, high))
}

// Mute sets both frequencies to 0.
func (o *Oscillators) Mute() {
	o.packed.Store(0)
}

// Tones returns the current frequencies in Hz.
func (o *Oscillators) Tones() (float64, float64) {
	var p = o.packed.Load()

	return float64(math.Float32frombits(uint32(p >> 32))), float64(math.Float32frombits(uint32(p)))
}

func (o *Oscillators) Muted() bool {
	var low, high = o.Tones()

	return low == 0 && high == 0
}

// AudioSink receives one scaled sample per channel per tick.
type AudioSink interface {
	PutSample(left, right uint32)
}

// ToneSynthesizer owns the phases.  Only the tick handler touches them.
type ToneSynthesizer struct {
	osc          *Oscillators
	sink         AudioSink
	sampleRate   float64
	maxAmplitude float64

	phaseLow  float64
	phaseHigh float64
}

func NewToneSynthesizer(osc *Oscillators, sampleRate int, maxAmplitude uint32, sink AudioSink) *ToneSynthesizer {
	return &ToneSynthesizer{
		osc:          osc,
		sink:         sink,
		sampleRate:   float64(sampleRate),
		maxAmplitude: float64(maxAmplitude),
	}
}

/*------------------------------------------------------------------
 *
 * Name:        OnTick
 *
 * Purpose:     Produce the next audio sample.
 *
 * Returns:     Sample scaled to 0 .. maxAmplitude.  The same value
 *		is written to both channels of the sink, if any.
 *
 * Description:	Phase increments are always less than 2 pi for
 *		tones below the sample rate, so a single conditional
 *		subtraction keeps each phase in [0, 2 pi).
 *
 *----------------------------------------------------------------*/

func (s *ToneSynthesizer) OnTick() uint32 {
	var fLow, fHigh = s.osc.Tones()

	s.phaseLow += twoPi * fLow / s.sampleRate
	s.phaseHigh += twoPi * fHigh / s.sampleRate

	if s.phaseLow >= twoPi {
		s.phaseLow -= twoPi
	}

	if s.phaseHigh >= twoPi {
		s.phaseHigh -= twoPi
	}

	var sample = 0.5 * (math.Sin(s.phaseLow) + math.Sin(s.phaseHigh))
	var scaled = uint32((sample + 1) / 2 * s.maxAmplitude)

	if s.sink != nil {
		s.sink.PutSample(scaled, scaled)
	}

	return scaled
}

// Phases is for diagnostics and tests; not safe to call concurrently with OnTick.
func (s *ToneSynthesizer) Phases() (float64, float64) {
	return s.phaseLow, s.phaseHigh
}

func (s *ToneSynthesizer) SampleRate() int {
	return int(s.sampleRate)
}

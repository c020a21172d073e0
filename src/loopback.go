package dtmf

// LoopbackSource feeds the synthesizer output straight back as input.
// Used by the self test and for exercising the receive chain without
// a sound card.
type LoopbackSource struct {
	synth        *ToneSynthesizer
	maxAmplitude uint32
}

func NewLoopbackSource(synth *ToneSynthesizer, maxAmplitude uint32) *LoopbackSource {
	return &LoopbackSource{synth: synth, maxAmplitude: maxAmplitude}
}

// ReadSample ticks the synthesizer once and re-centres its output on zero.
func (l *LoopbackSource) ReadSample() (int32, error) {
	var v = l.synth.OnTick()

	return int32(2*int64(v) - int64(l.maxAmplitude)), nil //nolint:gosec
}

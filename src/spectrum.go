package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Turn a captured block into a magnitude spectrum.
 *
 * Description:	Forward complex FFT of the whole block, then the
 *		magnitude of each bin below N/2.  For a real input the
 *		upper half only mirrors the lower half so it is never
 *		looked at.
 *
 *		Bin i is centered on i * sampleRate / N Hz.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math"
)

type SpectrumAnalyzer struct {
	transform  Transform
	sampleRate int
	n          int

	work []float64 // Transform runs here so the captured block stays untouched.
	mag  []float64
}

func NewSpectrumAnalyzer(transform Transform, sampleRate int) *SpectrumAnalyzer {
	var n = transform.Len()

	return &SpectrumAnalyzer{
		transform:  transform,
		sampleRate: sampleRate,
		n:          n,
		work:       make([]float64, 2*n),
		mag:        make([]float64, n/2),
	}
}

/*------------------------------------------------------------------
 *
 * Name:        Analyze
 *
 * Purpose:     Compute the magnitude spectrum of one block.
 *
 * Inputs:	block	- 2*N interleaved real/imaginary values.
 *
 * Returns:     N/2 magnitudes, valid until the next call.
 *
 *----------------------------------------------------------------*/

func (a *SpectrumAnalyzer) Analyze(block []float64) ([]float64, error) {
	if len(block) != len(a.work) {
		return nil, fmt.Errorf("analyze: block has %d values, want %d", len(block), len(a.work))
	}

	copy(a.work, block)

	if err := a.transform.Forward(a.work); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	for i := range a.mag {
		var re, im = a.work[2*i], a.work[2*i+1]
		a.mag[i] = math.Sqrt(re*re + im*im)
	}

	return a.mag, nil
}

func (a *SpectrumAnalyzer) BinFrequency(i int) float64 {
	return BinFrequency(i, a.sampleRate, a.n)
}

func (a *SpectrumAnalyzer) Size() int {
	return a.n
}

// BinFrequency is the center frequency of bin i of an n point transform.
func BinFrequency(i int, sampleRate int, n int) float64 {
	return float64(i) * float64(sampleRate) / float64(n)
}

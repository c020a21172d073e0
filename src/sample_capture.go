package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Collect one block of input audio for analysis.
 *
 * Description:	Samples arrive as signed 24 bit fixed point.  They
 *		are normalized to -1 .. +1 and stored as the real part
 *		of an interleaved real/imaginary block, ready for the
 *		complex transform.
 *
 *		Blocks do not overlap.  A tone shorter than one block
 *		(about 21 ms for 1024 samples at 48 kHz) can fall
 *		between two analysis passes and be missed.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"time"
)

// FullScale24 is the magnitude of a full scale 24 bit input sample.
const FullScale24 = 1 << 23

// ErrSourceClosed is returned by sources which have no more samples.
var ErrSourceClosed = errors.New("sample source closed")

// SampleSource yields one signed 24 bit sample per call, waiting if necessary.
type SampleSource interface {
	ReadSample() (int32, error)
}

// SampleCapture owns its block until Capture hands it out.
type SampleCapture struct {
	source     SampleSource
	size       int
	sampleRate int
	block      []float64
}

func NewSampleCapture(source SampleSource, fftSize int, sampleRate int) (*SampleCapture, error) {
	if !isPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrBlockSize, fftSize)
	}

	return &SampleCapture{
		source:     source,
		size:       fftSize,
		sampleRate: sampleRate,
		block:      make([]float64, 2*fftSize),
	}, nil
}

/*------------------------------------------------------------------
 *
 * Name:        Capture
 *
 * Purpose:     Read exactly one block from the source.
 *
 * Returns:     Interleaved block of 2*N values.  Valid until the
 *		next call; the analyzer must be done with it by then.
 *
 *		Any source error abandons the block.
 *
 *----------------------------------------------------------------*/

func (c *SampleCapture) Capture() ([]float64, error) {
	for i := 0; i < c.size; i++ {
		var raw, err = c.source.ReadSample()
		if err != nil {
			return nil, fmt.Errorf("capture sample %d of %d: %w", i, c.size, err)
		}

		c.block[2*i] = float64(raw) / FullScale24
		c.block[2*i+1] = 0
	}

	return c.block, nil
}

// BlockDuration is the time needed to fill one block at the nominal sample rate.
func (c *SampleCapture) BlockDuration() time.Duration {
	return time.Duration(c.size) * time.Second / time.Duration(c.sampleRate)
}

func (c *SampleCapture) Size() int {
	return c.size
}

func isPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

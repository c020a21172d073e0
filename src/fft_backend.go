package dtmf

// Complex FFT backends.  The analysis only needs a forward transform in
// natural bin order, unscaled, so any vetted implementation will do.

import (
	"errors"
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	BackendGonum = "gonum"
	BackendGoDSP = "go-dsp"
)

var (
	ErrBlockSize      = errors.New("transform size must be a power of two")
	ErrUnknownBackend = errors.New("unknown FFT backend")
)

// Transform computes a forward complex FFT in place over an interleaved
// real/imaginary block of 2*Len() values.
type Transform interface {
	Forward(block []float64) error
	Len() int
}

func NewTransform(backend string, n int) (Transform, error) {
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrBlockSize, n)
	}

	switch backend {
	case BackendGonum, "":
		return &gonumTransform{
			fft:  fourier.NewCmplxFFT(n),
			work: make([]complex128, n),
		}, nil
	case BackendGoDSP:
		return &goDSPTransform{
			work: make([]complex128, n),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func checkBlock(block []float64, n int) error {
	if len(block) != 2*n {
		return fmt.Errorf("block has %d values, want %d", len(block), 2*n)
	}

	return nil
}

func unpack(dst []complex128, block []float64) {
	for i := range dst {
		dst[i] = complex(block[2*i], block[2*i+1])
	}
}

func pack(block []float64, src []complex128) {
	for i, v := range src {
		block[2*i] = real(v)
		block[2*i+1] = imag(v)
	}
}

type gonumTransform struct {
	fft  *fourier.CmplxFFT
	work []complex128
}

func (g *gonumTransform) Len() int {
	return len(g.work)
}

func (g *gonumTransform) Forward(block []float64) error {
	if err := checkBlock(block, len(g.work)); err != nil {
		return err
	}

	unpack(g.work, block)
	g.fft.Coefficients(g.work, g.work)
	pack(block, g.work)

	return nil
}

// go-dsp picks radix-2 for power of two lengths and returns a new slice.
type goDSPTransform struct {
	work []complex128
}

func (d *goDSPTransform) Len() int {
	return len(d.work)
}

func (d *goDSPTransform) Forward(block []float64) error {
	if err := checkBlock(block, len(d.work)); err != nil {
		return err
	}

	unpack(d.work, block)
	pack(block, fft.FFT(d.work))

	return nil
}

package dtmf

// One receive pass: capture a block, transform it, find the band peaks and
// classify them.

import "fmt"

type Receiver struct {
	capture    *SampleCapture
	analyzer   *SpectrumAnalyzer
	peaks      *PeakDetector
	classifier *ToneClassifier
}

func NewReceiver(capture *SampleCapture, analyzer *SpectrumAnalyzer, peaks *PeakDetector, classifier *ToneClassifier) (*Receiver, error) {
	if capture.Size() != analyzer.Size() {
		return nil, fmt.Errorf("%w: capture block %d, transform %d", ErrBlockSize, capture.Size(), analyzer.Size())
	}

	return &Receiver{
		capture:    capture,
		analyzer:   analyzer,
		peaks:      peaks,
		classifier: classifier,
	}, nil
}

// NewReceiverFromConfig builds the whole receive chain for a source.
func NewReceiverFromConfig(cfg *Config, source SampleSource) (*Receiver, error) {
	var capture, captureErr = NewSampleCapture(source, cfg.FFTSize, cfg.SampleRate)
	if captureErr != nil {
		return nil, captureErr
	}

	var transform, transformErr = NewTransform(cfg.FFTBackend, cfg.FFTSize)
	if transformErr != nil {
		return nil, transformErr
	}

	var table = NewSymbolTable(cfg.ExtendedKeypad)

	return NewReceiver(
		capture,
		NewSpectrumAnalyzer(transform, cfg.SampleRate),
		NewPeakDetector(cfg.LowBand, cfg.HighBand, cfg.SampleRate, cfg.FFTSize),
		NewToneClassifier(table, cfg.SampleRate, cfg.FFTSize, cfg.MinMagnitude, cfg.MinRatio, cfg.ToleranceHz),
	)
}

/*------------------------------------------------------------------
 *
 * Name:        Pass
 *
 * Purpose:     Run one complete analysis pass.
 *
 * Returns:     Classification of a fresh, non-overlapping block.
 *		An error means the pass was abandoned; the caller
 *		should simply try again next cycle, unless the
 *		source is closed.
 *
 *----------------------------------------------------------------*/

func (r *Receiver) Pass() (ClassificationResult, error) {
	var block, captureErr = r.capture.Capture()
	if captureErr != nil {
		return ClassificationResult{}, captureErr
	}

	var mag, analyzeErr = r.analyzer.Analyze(block)
	if analyzeErr != nil {
		return ClassificationResult{}, analyzeErr
	}

	var low, high = r.peaks.FindPeaks(mag)

	return r.classifier.Classify(low, high), nil
}

func (r *Receiver) BlockSize() int {
	return r.capture.Size()
}

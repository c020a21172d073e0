package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Decide which keypad symbol, if any, a pair of band
 *		peaks represents.
 *
 * Description:	Three possible outcomes, none of them an error:
 *
 *		  silence	Not enough signal, or only one tone.
 *		  ambiguous	Two tones, but not near any symbol.
 *		  detected	Closest symbol is within tolerance.
 *
 *		The classifier has no memory.  Suppressing repeated
 *		reports of the same symbol is up to the reporter.
 *
 *---------------------------------------------------------------*/

import "math"

const (
	DefaultMinMagnitude = 0.02
	DefaultMinRatio     = 0.3
	DefaultToleranceHz  = 45.0
)

type Outcome int

const (
	OutcomeSilence Outcome = iota
	OutcomeAmbiguous
	OutcomeDetected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSilence:
		return "silence"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeDetected:
		return "detected"
	}

	return "unknown"
}

type ClassificationResult struct {
	Outcome    Outcome
	Symbol     Symbol  // Best candidate.  Meaningful only when Outcome is OutcomeDetected.
	MatchError float64 // Hz, sum over both tones.
	LowFreq    float64 // Measured, Hz.
	HighFreq   float64
}

func (r ClassificationResult) IsSilence() bool {
	return r.Outcome == OutcomeSilence
}

type ToneClassifier struct {
	table        *SymbolTable
	sampleRate   int
	n            int
	minMagnitude float64
	minRatio     float64
	tolerance    float64
}

func NewToneClassifier(table *SymbolTable, sampleRate int, fftSize int, minMagnitude, minRatio, tolerance float64) *ToneClassifier {
	return &ToneClassifier{
		table:        table,
		sampleRate:   sampleRate,
		n:            fftSize,
		minMagnitude: minMagnitude,
		minRatio:     minRatio,
		tolerance:    tolerance,
	}
}

/*------------------------------------------------------------------
 *
 * Name:        Classify
 *
 * Purpose:     Map the two band peaks to a keypad symbol.
 *
 * Inputs:	low, high	- Peaks from the low and high groups.
 *
 * Returns:     Silence when either peak is missing, the low peak is
 *		below the minimum magnitude, or the high peak is much
 *		weaker than the low one.  Both tones of a real symbol
 *		are about equally strong.
 *
 *		Otherwise the closest symbol, detected only if its
 *		error is under the tolerance.
 *
 *----------------------------------------------------------------*/

func (c *ToneClassifier) Classify(low, high BandPeak) ClassificationResult {
	if !low.Found() || !high.Found() ||
		low.Magnitude < c.minMagnitude ||
		high.Magnitude < c.minRatio*low.Magnitude {
		return ClassificationResult{Outcome: OutcomeSilence}
	}

	var fLow = BinFrequency(low.Bin, c.sampleRate, c.n)
	var fHigh = BinFrequency(high.Bin, c.sampleRate, c.n)

	var def, matchErr = c.Match(fLow, fHigh)

	var result = ClassificationResult{
		Outcome:    OutcomeAmbiguous,
		Symbol:     def.Symbol,
		MatchError: matchErr,
		LowFreq:    fLow,
		HighFreq:   fHigh,
	}

	if matchErr < c.tolerance {
		result.Outcome = OutcomeDetected
	}

	return result
}

// Match finds the table entry closest to a measured pair.  The pair may be
// in either order.  Ties go to the earlier table entry.
func (c *ToneClassifier) Match(f1, f2 float64) (ToneDefinition, float64) {
	var best ToneDefinition
	var bestErr = math.Inf(1)

	for _, d := range c.table.defs {
		var straight = math.Abs(f1-d.Low) + math.Abs(f2-d.High)
		var swapped = math.Abs(f2-d.Low) + math.Abs(f1-d.High)
		var e = math.Min(straight, swapped)

		if e < bestErr {
			bestErr = e
			best = d
		}
	}

	return best, bestErr
}

package dtmf

// Strongest bin in each of the two DTMF frequency groups.

// NoPeak is the bin index of a band that had no energy at all.
const NoPeak = -1

// Band is an inclusive frequency range in Hz.
type Band struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

func (b Band) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

var (
	DefaultLowBand  = Band{Low: 650, High: 1050}
	DefaultHighBand = Band{Low: 1100, High: 1700}
)

type BandPeak struct {
	Bin       int
	Magnitude float64
}

func (p BandPeak) Found() bool {
	return p.Bin != NoPeak
}

type PeakDetector struct {
	lowBand    Band
	highBand   Band
	sampleRate int
	n          int
}

func NewPeakDetector(lowBand, highBand Band, sampleRate int, fftSize int) *PeakDetector {
	return &PeakDetector{
		lowBand:    lowBand,
		highBand:   highBand,
		sampleRate: sampleRate,
		n:          fftSize,
	}
}

/*------------------------------------------------------------------
 *
 * Name:        FindPeaks
 *
 * Purpose:     Locate the strongest bin in the low and high groups.
 *
 * Inputs:	mag	- Magnitudes for bins 0 .. N/2-1.
 *
 * Returns:     One peak per band.  Bin 0 (DC) is never considered.
 *		Strict comparison so the first of equal bins wins.
 *		A band where nothing exceeds zero gives NoPeak.
 *
 *----------------------------------------------------------------*/

func (d *PeakDetector) FindPeaks(mag []float64) (BandPeak, BandPeak) {
	var low = BandPeak{Bin: NoPeak}
	var high = BandPeak{Bin: NoPeak}

	for i := 1; i < len(mag) && i < d.n/2; i++ {
		var f = BinFrequency(i, d.sampleRate, d.n)

		if d.lowBand.Contains(f) {
			if mag[i] > low.Magnitude {
				low = BandPeak{Bin: i, Magnitude: mag[i]}
			}
		} else if d.highBand.Contains(f) {
			if mag[i] > high.Magnitude {
				high = BandPeak{Bin: i, Magnitude: mag[i]}
			}
		}
	}

	return low, high
}

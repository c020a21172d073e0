package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Read recorded audio from a .WAV file, for offline
 *		decoding.
 *
 * Description:	8 or 16 bit PCM or 32 bit float.  Only the first
 *		channel is used.  Samples are rescaled to signed
 *		24 bit, the same as a live input.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"time"

	"github.com/mjibson/go-dsp/wav"
)

const wavReadFrames = 1024

type WavSource struct {
	w         *wav.Wav
	channels  int
	remaining int // Samples, all channels, not yet read from the file.
	pending   []int32
	frames    int // Frames handed out so far.
}

func NewWavSource(r io.Reader) (*WavSource, error) {
	var w, err = wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	if w.NumChannels == 0 {
		return nil, fmt.Errorf("wav: no channels")
	}

	if w.SampleRate == 0 {
		return nil, fmt.Errorf("wav: sample rate is 0")
	}

	return &WavSource{
		w:         w,
		channels:  int(w.NumChannels),
		remaining: w.Samples,
	}, nil
}

func (s *WavSource) SampleRate() int {
	return int(s.w.SampleRate)
}

func (s *WavSource) Channels() int {
	return s.channels
}

// Elapsed is the file position as a time offset.
func (s *WavSource) Elapsed() time.Duration {
	return time.Duration(s.frames) * time.Second / time.Duration(s.w.SampleRate)
}

// ReadSample returns ErrSourceClosed at the end of the file.
func (s *WavSource) ReadSample() (int32, error) {
	if len(s.pending) == 0 {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}

	var v = s.pending[0]
	s.pending = s.pending[1:]
	s.frames++

	return v, nil
}

func (s *WavSource) fill() error {
	var n = min(wavReadFrames*s.channels, s.remaining)
	n -= n % s.channels

	if n <= 0 {
		return fmt.Errorf("wav: %w", ErrSourceClosed)
	}

	var data, err = s.w.ReadSamples(n)
	if err != nil {
		return fmt.Errorf("wav: %w: %w", ErrSourceClosed, err)
	}

	s.remaining -= n
	s.pending = s.pending[:0]

	switch samples := data.(type) {
	case []uint8:
		for i := 0; i < len(samples); i += s.channels {
			s.pending = append(s.pending, (int32(samples[i])-128)<<16)
		}
	case []int16:
		for i := 0; i < len(samples); i += s.channels {
			s.pending = append(s.pending, int32(samples[i])<<8)
		}
	case []float32:
		for i := 0; i < len(samples); i += s.channels {
			s.pending = append(s.pending, int32(max(-1, min(samples[i], 1))*(FullScale24-1)))
		}
	default:
		return fmt.Errorf("wav: unexpected sample type %T", data)
	}

	return nil
}

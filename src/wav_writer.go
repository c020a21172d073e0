package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Write synthesizer output to a .WAV file.
 *
 * Description:	16 bit PCM, one or two channels.  The header is
 *		written first with zero lengths, then patched on Close
 *		once the amount of data is known.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

type wavHeader struct {
	Riff          [4]byte // "RIFF"
	FileSize      int32   // File length - 8.
	Wave          [4]byte // "WAVE"
	Fmt           [4]byte // "fmt "
	FmtSize       int32   // 16.
	FormatTag     int16   // 1 for PCM.
	NumChannels   int16
	SampleRate    int32
	ByteRate      int32 // = BlockAlign * SampleRate.
	BlockAlign    int16 // = BitsPerSample / 8 * NumChannels.
	BitsPerSample int16
	Data          [4]byte // "data"
	DataSize      int32   // Number of bytes following.
}

// WavWriter is an AudioSink which records to a file.
type WavWriter struct {
	f            io.WriteSeeker
	buf          *bufio.Writer
	header       wavHeader
	maxAmplitude uint32
	byteCount    int
	err          error // First write error, returned by Close.
}

func NewWavWriter(f io.WriteSeeker, sampleRate int, channels int, maxAmplitude uint32) (*WavWriter, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wav: %d channels, want 1 or 2", channels)
	}

	var w = &WavWriter{
		f:            f,
		maxAmplitude: maxAmplitude,
		header: wavHeader{
			Riff:          [4]byte{'R', 'I', 'F', 'F'},
			Wave:          [4]byte{'W', 'A', 'V', 'E'},
			Fmt:           [4]byte{'f', 'm', 't', ' '},
			FmtSize:       16,
			FormatTag:     1,
			NumChannels:   int16(channels),
			SampleRate:    int32(sampleRate), //nolint:gosec
			BitsPerSample: 16,
			Data:          [4]byte{'d', 'a', 't', 'a'},
		},
	}

	w.header.BlockAlign = w.header.BitsPerSample / 8 * w.header.NumChannels
	w.header.ByteRate = int32(w.header.BlockAlign) * w.header.SampleRate

	if err := binary.Write(f, binary.LittleEndian, w.header); err != nil {
		return nil, fmt.Errorf("wav: write header: %w", err)
	}

	w.buf = bufio.NewWriter(f)

	return w, nil
}

func (w *WavWriter) pcm16(v uint32) int16 {
	var centred = 2*int64(v) - int64(w.maxAmplitude)

	return int16(centred >> 8) //nolint:gosec // 24 bits down to 16.
}

// PutSample writes one frame.  Errors are kept for Close.
func (w *WavWriter) PutSample(left, right uint32) {
	if w.err != nil {
		return
	}

	var frame = [2]int16{w.pcm16(left), w.pcm16(right)}

	var data = frame[:w.header.NumChannels]
	if err := binary.Write(w.buf, binary.LittleEndian, data); err != nil {
		w.err = err
		return
	}

	w.byteCount += int(w.header.BlockAlign)
}

// Frames is the number of frames written so far.
func (w *WavWriter) Frames() int {
	return w.byteCount / int(w.header.BlockAlign)
}

// Close flushes and fixes up the lengths in the header.  It does not close f.
func (w *WavWriter) Close() error {
	if w.err != nil {
		return fmt.Errorf("wav: write samples: %w", w.err)
	}

	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("wav: flush: %w", err)
	}

	w.header.FileSize = int32(w.byteCount + binary.Size(w.header) - 8) //nolint:gosec
	w.header.DataSize = int32(w.byteCount)                              //nolint:gosec

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wav: seek: %w", err)
	}

	if err := binary.Write(w.f, binary.LittleEndian, w.header); err != nil {
		return fmt.Errorf("wav: rewrite header: %w", err)
	}

	return nil
}

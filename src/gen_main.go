package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Generate a .wav file of DTMF key presses, for
 *		testing the decoder.
 *
 * Examples:	dtmfcodec-gen -o keys.wav 1234#
 *
 *		echo 911 | dtmfcodec-gen -o keys.wav -
 *			Keys from stdin.
 *
 *		dtmfcodec-gen -t 40 -g 40 -a 25 -o fast.wav 0123456789
 *			Short, quiet tones.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func GenMain() {
	os.Exit(runGen(os.Args[0], os.Args[1:], os.Stdin, os.Stderr))
}

func runGen(name string, args []string, stdin io.Reader, stderr io.Writer) int {
	var flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var outputFile = flags.StringP("output-file", "o", "", "Write to this .wav file.  Required.")
	var sampleRate = flags.IntP("sample-rate", "r", DefaultSampleRate, "Audio sample rate.")
	var toneMs = flags.IntP("tone-ms", "t", 100, "Length of each tone in milliseconds.")
	var gapMs = flags.IntP("gap-ms", "g", 100, "Silence after each tone in milliseconds.")
	var amplitude = flags.IntP("amplitude", "a", 100, "Amplitude, percent of full scale.")
	var extended = flags.BoolP("extended", "x", false, "Allow the A, B, C, D column.")
	var stereo = flags.BoolP("stereo", "2", false, "Write the same signal to two channels.")
	var version = flags.BoolP("version", "v", false, "Print version information and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s writes DTMF key presses to a .wav file.\n", name)
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: %s [OPTION]... -o <WAV FILE> <KEYS>|-\n", name)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *version {
		printVersion(stderr)
		return 0
	}

	if *help || *outputFile == "" || flags.NArg() != 1 {
		flags.Usage()
		return 1
	}

	if *sampleRate <= 0 {
		fmt.Fprintf(stderr, "Sample rate must be positive, got %d.\n", *sampleRate)
		return 1
	}

	if *amplitude < 1 || *amplitude > 100 {
		fmt.Fprintf(stderr, "Amplitude must be 1 to 100 percent, got %d.\n", *amplitude)
		return 1
	}

	var keys = flags.Arg(0)
	if keys == "-" {
		var data, err = io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Reading keys from stdin: %v\n", err)
			return 1
		}

		keys = strings.TrimSpace(string(data))
	}

	var channels = 1
	if *stereo {
		channels = 2
	}

	var spec = genSpec{
		sampleRate:   *sampleRate,
		channels:     channels,
		maxAmplitude: uint32(uint64(DefaultMaxAmplitude) * uint64(*amplitude) / 100), //nolint:gosec
		tone:         time.Duration(*toneMs) * time.Millisecond,
		gap:          time.Duration(*gapMs) * time.Millisecond,
		table:        NewSymbolTable(*extended),
	}

	if err := genFile(*outputFile, keys, spec); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	return 0
}

type genSpec struct {
	sampleRate   int
	channels     int
	maxAmplitude uint32
	tone         time.Duration
	gap          time.Duration
	table        *SymbolTable
}

func (g genSpec) samples(d time.Duration) int {
	return int(d * time.Duration(g.sampleRate) / time.Second)
}

func genFile(path string, keys string, spec genSpec) error {
	var f, createErr = os.Create(path) //nolint:gosec // User supplied file.
	if createErr != nil {
		return fmt.Errorf("couldn't open %s for write: %w", path, createErr)
	}
	defer f.Close()

	var w, wErr = NewWavWriter(f, spec.sampleRate, spec.channels, spec.maxAmplitude)
	if wErr != nil {
		return wErr
	}

	if err := generateKeys(w, keys, spec); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	return f.Close()
}

// generateKeys drives a synthesizer into sink: each key's tone, then a gap
// of mid scale samples.  Whitespace in keys is skipped.
func generateKeys(sink AudioSink, keys string, spec genSpec) error {
	var osc = new(Oscillators)
	var synth = NewToneSynthesizer(osc, spec.sampleRate, spec.maxAmplitude, sink)
	var mid = spec.maxAmplitude / 2

	for _, k := range []byte(keys) {
		if k == ' ' || k == '\t' || k == '\n' || k == '\r' {
			continue
		}

		var def, err = spec.table.Lookup(Symbol(k))
		if err != nil {
			return err
		}

		osc.SetTones(def.Low, def.High)

		for range spec.samples(spec.tone) {
			synth.OnTick()
		}

		osc.Mute()

		for range spec.samples(spec.gap) {
			sink.PutSample(mid, mid)
		}
	}

	return nil
}

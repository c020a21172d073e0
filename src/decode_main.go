package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Decode DTMF keys from audio recordings, much quicker
 *		than real time.
 *
 * Examples:	dtmfcodec-gen -o keys.wav 1234#
 *		dtmfcodec-decode keys.wav
 *
 *		dtmfcodec-decode -e 1234# keys.wav
 *			Exit with an error unless exactly 1234#
 *			was decoded.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func DecodeMain() {
	os.Exit(runDecode(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

func runDecode(name string, args []string, stdout, stderr io.Writer) int {
	var flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var configFile = flags.StringP("config-file", "c", "", "Read configuration from this YAML file.")
	var logLevel = flags.StringP("log-level", "l", "", "Log level: debug, info, warn, error.")
	var timestampFormat = flags.StringP("timestamp-format", "T", "%H:%M:%S", "strftime format for the file position in front of each line.")
	var backend = flags.StringP("fft-backend", "b", "", "FFT implementation: gonum or go-dsp.")
	var extended = flags.BoolP("extended", "x", false, "Also decode the A, B, C, D column.")
	var expect = flags.StringP("expect", "e", "", "Exit with an error unless exactly these keys were decoded.  Only with one file.")
	var version = flags.BoolP("version", "v", false, "Print version information and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s decodes DTMF keys from .wav files.\n", name)
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: %s [OPTION]... <WAV FILE>...\n", name)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *version {
		printVersion(stdout)
		return 0
	}

	if *help || flags.NArg() == 0 {
		flags.Usage()
		return 1
	}

	if *expect != "" && flags.NArg() > 1 {
		fmt.Fprintf(stderr, "--expect works with one file only, got %d.\n", flags.NArg())
		return 1
	}

	var cfg, cfgErr = LoadConfig(*configFile)
	if cfgErr != nil {
		fmt.Fprintf(stderr, "%v\n", cfgErr)
		return 1
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *backend != "" {
		cfg.FFTBackend = *backend
	}

	if *extended {
		cfg.ExtendedKeypad = true
	}

	var logger, loggerErr = NewLogger(stderr, cfg.Log.Level)
	if loggerErr != nil {
		fmt.Fprintf(stderr, "%v\n", loggerErr)
		return 1
	}

	var status = 0

	for _, path := range flags.Args() {
		var keys, err = decodeFile(cfg, path, *timestampFormat, logger)
		if err != nil {
			logger.Errorf("%s: %v", path, err)
			status = 1

			continue
		}

		fmt.Fprintf(stdout, "%s: %s\n", path, keys)

		if *expect != "" && keys != *expect {
			logger.Errorf("%s: expected %q, decoded %q", path, *expect, keys)
			status = 1
		}
	}

	return status
}

/*------------------------------------------------------------------
 *
 * Name:        decodeFile
 *
 * Purpose:     Run the receive chain over a whole file.
 *
 * Returns:     Keys in the order they were pressed.  A key held
 *		across several blocks appears once.
 *
 *----------------------------------------------------------------*/

func decodeFile(base *Config, path string, timestampFormat string, logger *log.Logger) (string, error) {
	var f, openErr = os.Open(path) //nolint:gosec // User supplied file.
	if openErr != nil {
		return "", openErr
	}
	defer f.Close()

	var source, sourceErr = NewWavSource(f)
	if sourceErr != nil {
		return "", sourceErr
	}

	var cfg = *base
	cfg.SampleRate = source.SampleRate()

	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("%d Hz recording: %w", cfg.SampleRate, err)
	}

	var receiver, receiverErr = NewReceiverFromConfig(&cfg, source)
	if receiverErr != nil {
		return "", receiverErr
	}

	// Timestamps show the position in the file.
	var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var clock = func() time.Time { return epoch.Add(source.Elapsed()) }

	var logReporter, logErr = NewLogReporter(logger, timestampFormat, clock)
	if logErr != nil {
		return "", logErr
	}

	var collector = new(KeyCollector)
	var reporters = Reporters{collector, logReporter}

	for {
		var res, err = receiver.Pass()
		if errors.Is(err, ErrSourceClosed) {
			break
		}

		if err != nil {
			logger.Warnf("%s: %v", path, err)
			break
		}

		reporters.Result(res)
	}

	return collector.Keys(), nil
}

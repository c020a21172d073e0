package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Main program for the live codec.
 *
 *		Send mode:	characters from the keyboard, a serial
 *				port, a pseudo terminal or TCP clients
 *				select the tone pair played on the
 *				sound card.  'x' stops it.
 *
 *		Receive mode:	the sound card input is analyzed
 *				continuously and detected keys are
 *				reported.
 *
 *		A GPIO switch selects the mode, or it can be fixed
 *		with -m.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// symbolPollWait bounds how long a Send cycle waits for a character.
const symbolPollWait = 20 * time.Millisecond

func CodecMain() {
	os.Exit(runCodec(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCodec(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var flags = pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var configFile = flags.StringP("config-file", "c", "", "Read configuration from this YAML file.")
	var mode = flags.StringP("mode", "m", "", "Fix the mode: send or receive.  Default is to read the GPIO switch.")
	var logLevel = flags.StringP("log-level", "l", "", "Log level: debug, info, warn, error.")
	var inputDevice = flags.StringP("input-device", "i", "", "Audio input device name.")
	var outputDevice = flags.StringP("output-device", "o", "", "Audio output device name.")
	var extended = flags.BoolP("extended", "x", false, "Enable the A, B, C, D column.")
	var listDevices = flags.BoolP("list-devices", "L", false, "List audio devices and exit.")
	var selfTest = flags.BoolP("self-test", "S", false, "Loop every symbol through the synthesizer and decoder, then exit.")
	var version = flags.BoolP("version", "v", false, "Print version information and exit.")
	var help = flags.Bool("help", false, "Display help text.")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "%s sends and receives DTMF tones using the sound card.\n", name)
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage: %s [OPTION]...\n", name)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *version {
		printVersion(stdout)
		return 0
	}

	if *help {
		flags.Usage()
		return 1
	}

	var cfg, cfgErr = LoadConfig(*configFile)
	if cfgErr != nil {
		fmt.Fprintf(stderr, "%v\n", cfgErr)
		return 1
	}

	if *mode != "" {
		cfg.Mode.Fixed = strings.ToLower(*mode)
	}

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *inputDevice != "" {
		cfg.Audio.InputDevice = *inputDevice
	}

	if *outputDevice != "" {
		cfg.Audio.OutputDevice = *outputDevice
	}

	if *extended {
		cfg.ExtendedKeypad = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	var logger, loggerErr = NewLogger(stderr, cfg.Log.Level)
	if loggerErr != nil {
		fmt.Fprintf(stderr, "%v\n", loggerErr)
		return 1
	}

	if *selfTest {
		var failures, err = SelfTest(cfg, stdout)
		if err != nil {
			logger.Errorf("Self test: %v", err)
			return 1
		}

		if failures > 0 {
			logger.Errorf("Self test: %d failed.", failures)
			return 1
		}

		return 0
	}

	if err := InitAudio(); err != nil {
		logger.Errorf("Audio: %v", err)
		return 1
	}
	defer TerminateAudio() //nolint:errcheck

	if *listDevices {
		var names, err = AudioDeviceNames()
		if err != nil {
			logger.Errorf("Audio: %v", err)
			return 1
		}

		for _, n := range names {
			fmt.Fprintln(stdout, n)
		}

		return 0
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runLive(ctx, cfg, stdin, logger); err != nil {
		logger.Errorf("%v", err)
		return 1
	}

	return 0
}

/*------------------------------------------------------------------
 *
 * Name:        runLive
 *
 * Purpose:     Open everything the configuration asks for, then
 *		run the control loop until ctx is cancelled.
 *
 *----------------------------------------------------------------*/

func runLive(ctx context.Context, cfg *Config, stdin io.Reader, logger *log.Logger) error {
	if cfg.LockMemory {
		if err := LockMemory(); err != nil {
			logger.Warnf("%v.  Continuing without it.", err)
		}
	}

	var osc = new(Oscillators)
	var closers []io.Closer

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warnf("Close: %v", err)
			}
		}
	}()

	// Send side.

	if cfg.Audio.OutputFile != "" {
		var wavOut, err = startFileOutput(ctx, cfg, osc)
		if err != nil {
			return err
		}

		closers = append(closers, wavOut)
	} else {
		var out, err = OpenPortAudioOutput(cfg.Audio.OutputDevice, osc, cfg.SampleRate, cfg.MaxAmplitude, cfg.Audio.FramesPerBuffer)
		if err != nil {
			return err
		}

		closers = append(closers, out)

		if err := out.Start(); err != nil {
			return fmt.Errorf("start output: %w", err)
		}
	}

	// Receive side.

	var in, inErr = OpenPortAudioInput(cfg.Audio.InputDevice, cfg.SampleRate, cfg.Audio.FramesPerBuffer)
	if inErr != nil {
		return inErr
	}

	closers = append(closers, in)

	if err := in.Start(); err != nil {
		return fmt.Errorf("start input: %w", err)
	}

	var receiver, receiverErr = NewReceiverFromConfig(cfg, in)
	if receiverErr != nil {
		return receiverErr
	}

	// Mode switch and PTT.

	var sw ModeSwitch

	switch cfg.Mode.Fixed {
	case "send":
		sw = FixedMode(false)
	case "receive":
		sw = FixedMode(true)
	default:
		var gpioSwitch, err = OpenGPIOModeSwitch(cfg.Mode.GPIOChip, cfg.Mode.GPIOLine, cfg.Mode.ActiveLow)
		if err != nil {
			return err
		}

		closers = append(closers, gpioSwitch)
		sw = gpioSwitch
	}

	var ptt Ptt

	if cfg.Ptt.Enabled {
		var gpioPtt, err = OpenGPIOPtt(cfg.Ptt.GPIOChip, cfg.Ptt.GPIOLine, cfg.Ptt.Invert)
		if err != nil {
			return err
		}

		closers = append(closers, gpioPtt)
		ptt = gpioPtt
	}

	// Symbols.

	var queue = NewSymbolQueue(64, symbolPollWait, logger)

	var symbolClosers, symbolsErr = startSymbolInputs(ctx, cfg.Symbols, queue, stdin, logger)
	closers = append(closers, symbolClosers...)

	if symbolsErr != nil {
		return symbolsErr
	}

	// Reporting.

	var reporters, reportersErr = startReporters(ctx, cfg, logger)
	if reportersErr != nil {
		return reportersErr
	}

	var controller = NewModeController(ControllerConfig{
		Oscillators: osc,
		Table:       NewSymbolTable(cfg.ExtendedKeypad),
		Receiver:    receiver,
		Switch:      sw,
		Symbols:     queue,
		Reporter:    reporters,
		Ptt:         ptt,
		Holdoff:     cfg.DetectHoldoff,
	})

	var runErr = controller.Run(ctx)
	if ctx.Err() != nil {
		return nil
	}

	return runErr
}

type wavFileOutput struct {
	f *os.File
	w *WavWriter
}

func (o *wavFileOutput) Close() error {
	var closeErr = o.w.Close()
	var fileErr = o.f.Close()

	if closeErr != nil {
		return closeErr
	}

	return fileErr
}

// startFileOutput records Send audio to a file, paced by a software sample clock.
func startFileOutput(ctx context.Context, cfg *Config, osc *Oscillators) (io.Closer, error) {
	var f, createErr = os.Create(cfg.Audio.OutputFile)
	if createErr != nil {
		return nil, createErr
	}

	var w, wErr = NewWavWriter(f, cfg.SampleRate, 2, cfg.MaxAmplitude)
	if wErr != nil {
		f.Close()
		return nil, wErr
	}

	var synth = NewToneSynthesizer(osc, cfg.SampleRate, cfg.MaxAmplitude, w)
	var clock = NewSampleClock(cfg.SampleRate, 10*time.Millisecond, func() { synth.OnTick() })

	var done = make(chan struct{})
	var clockCtx, cancel = context.WithCancel(ctx)

	go func() {
		clock.Run(clockCtx)
		close(done)
	}()

	return closerFunc(func() error {
		cancel()
		<-done

		return (&wavFileOutput{f: f, w: w}).Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error {
	return c()
}

func startSymbolInputs(ctx context.Context, cfg SymbolsConfig, queue *SymbolQueue, stdin io.Reader, logger *log.Logger) ([]io.Closer, error) {
	var closers []io.Closer

	if cfg.Stdin {
		queue.FeedFrom(ctx, "stdin", stdin)
	}

	if cfg.SerialDevice != "" {
		var port, err = OpenSerialSymbols(cfg.SerialDevice, cfg.SerialBaud)
		if err != nil {
			return closers, err
		}

		closers = append(closers, port)
		queue.FeedFrom(ctx, cfg.SerialDevice, port)
		logger.Infof("Reading keys from serial port %s.", cfg.SerialDevice)
	}

	if cfg.Pty {
		var p, err = OpenPtySymbols()
		if err != nil {
			return closers, err
		}

		closers = append(closers, p)
		queue.FeedFrom(ctx, p.Name(), p)
		logger.Infof("Virtual keypad port available as %s", p.Name())
	}

	if cfg.TCPPort != 0 {
		var ln, err = ListenSymbols(cfg.TCPPort)
		if err != nil {
			return closers, err
		}

		go func() {
			if err := queue.Serve(ctx, ln); err != nil {
				logger.Errorf("%v", err)
			}
		}()

		logger.Infof("Ready to accept keypad clients on port %d.", cfg.TCPPort)

		if cfg.Announce {
			if err := AnnounceSymbolService(ctx, cfg.AnnounceName, cfg.TCPPort, logger); err != nil {
				logger.Warnf("%v", err)
			}
		}
	}

	return closers, nil
}

func startReporters(ctx context.Context, cfg *Config, logger *log.Logger) (Reporters, error) {
	var logReporter, err = NewLogReporter(logger, cfg.Log.TimestampFormat, nil)
	if err != nil {
		return nil, fmt.Errorf("timestamp format: %w", err)
	}

	var reporters = Reporters{logReporter}

	if cfg.Metrics.Listen != "" {
		var m = NewMetrics()
		reporters = append(reporters, m)

		go func() {
			if err := ServeMetrics(ctx, cfg.Metrics.Listen, m, logger); err != nil {
				logger.Errorf("Metrics: %v", err)
			}
		}()
	}

	if cfg.MQTT.Broker != "" {
		var r, client, err = ConnectMQTT(cfg.MQTT, logger)
		if err != nil {
			return nil, err
		}

		reporters = append(reporters, r)

		go func() {
			<-ctx.Done()
			client.Disconnect(250)
		}()
	}

	return reporters, nil
}

package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Configuration, read from a YAML file on top of
 *		built in defaults.
 *
 * Example:
 *
 *		sample_rate: 48000
 *		fft_size: 1024
 *		fft_backend: gonum
 *		extended_keypad: true
 *		mode:
 *		  gpio_chip: gpiochip0
 *		  gpio_line: 17
 *		symbols:
 *		  serial_device: /dev/ttyUSB0
 *		  serial_baud: 115200
 *		log:
 *		  level: debug
 *		  timestamp_format: "%H:%M:%S"
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSampleRate = 48000
	DefaultFFTSize    = 1024
)

type AudioConfig struct {
	InputDevice     string `yaml:"input_device"`  // PortAudio device name.  Empty for default.
	OutputDevice    string `yaml:"output_device"` // PortAudio device name.  Empty for default.
	FramesPerBuffer int    `yaml:"frames_per_buffer"`
	OutputFile      string `yaml:"output_file"` // Write Send audio to a .wav file instead of a device.
}

type ModeConfig struct {
	Fixed     string `yaml:"fixed"` // "send" or "receive" to ignore the GPIO switch.
	GPIOChip  string `yaml:"gpio_chip"`
	GPIOLine  int    `yaml:"gpio_line"`
	ActiveLow bool   `yaml:"active_low"`
}

type PttConfig struct {
	Enabled  bool   `yaml:"enabled"`
	GPIOChip string `yaml:"gpio_chip"`
	GPIOLine int    `yaml:"gpio_line"`
	Invert   bool   `yaml:"invert"`
}

type SymbolsConfig struct {
	Stdin        bool   `yaml:"stdin"`
	SerialDevice string `yaml:"serial_device"`
	SerialBaud   int    `yaml:"serial_baud"`
	Pty          bool   `yaml:"pty"`
	TCPPort      int    `yaml:"tcp_port"` // 0 to disable.
	Announce     bool   `yaml:"announce"` // DNS-SD for the TCP port.
	AnnounceName string `yaml:"announce_name"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. ":9110".  Empty to disable.
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // e.g. "tcp://localhost:1883".  Empty to disable.
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level           string `yaml:"level"`
	TimestampFormat string `yaml:"timestamp_format"`
}

type Config struct {
	SampleRate     int           `yaml:"sample_rate"`
	FFTSize        int           `yaml:"fft_size"`
	FFTBackend     string        `yaml:"fft_backend"`
	MaxAmplitude   uint32        `yaml:"max_amplitude"`
	LowBand        Band          `yaml:"low_band"`
	HighBand       Band          `yaml:"high_band"`
	MinMagnitude   float64       `yaml:"min_magnitude"`
	MinRatio       float64       `yaml:"min_ratio"`
	ToleranceHz    float64       `yaml:"tolerance_hz"`
	ExtendedKeypad bool          `yaml:"extended_keypad"`
	DetectHoldoff  time.Duration `yaml:"detect_holdoff"`
	LockMemory     bool          `yaml:"lock_memory"`

	Audio   AudioConfig   `yaml:"audio"`
	Mode    ModeConfig    `yaml:"mode"`
	Ptt     PttConfig     `yaml:"ptt"`
	Symbols SymbolsConfig `yaml:"symbols"`
	Metrics MetricsConfig `yaml:"metrics"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Log     LogConfig     `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		SampleRate:   DefaultSampleRate,
		FFTSize:      DefaultFFTSize,
		FFTBackend:   BackendGonum,
		MaxAmplitude: DefaultMaxAmplitude,
		LowBand:      DefaultLowBand,
		HighBand:     DefaultHighBand,
		MinMagnitude: DefaultMinMagnitude,
		MinRatio:     DefaultMinRatio,
		ToleranceHz:  DefaultToleranceHz,
		Audio: AudioConfig{
			FramesPerBuffer: 256,
		},
		Mode: ModeConfig{
			GPIOChip: "gpiochip0",
		},
		Ptt: PttConfig{
			GPIOChip: "gpiochip0",
		},
		Symbols: SymbolsConfig{
			Stdin:      true,
			SerialBaud: 115200,
		},
		MQTT: MQTTConfig{
			Topic: "dtmf/detected",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

/*------------------------------------------------------------------
 *
 * Name:        LoadConfig
 *
 * Purpose:     Read a configuration file.
 *
 * Inputs:	path	- YAML file.  Keys not present keep their
 *			  default values.  Empty path means defaults
 *			  only.
 *
 *----------------------------------------------------------------*/

func LoadConfig(path string) (*Config, error) {
	var cfg = DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var data, readErr = os.ReadFile(path) //nolint:gosec // User supplied config file.
	if readErr != nil {
		return nil, fmt.Errorf("read config: %w", readErr)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}

	if !isPowerOfTwo(c.FFTSize) {
		errs = append(errs, fmt.Errorf("fft_size: %w: %d", ErrBlockSize, c.FFTSize))
	}

	switch c.FFTBackend {
	case BackendGonum, BackendGoDSP:
	default:
		errs = append(errs, fmt.Errorf("fft_backend: %w: %q", ErrUnknownBackend, c.FFTBackend))
	}

	var nyquist = float64(c.SampleRate) / 2

	for name, b := range map[string]Band{"low_band": c.LowBand, "high_band": c.HighBand} {
		if b.Low <= 0 || b.High <= b.Low || b.High >= nyquist {
			errs = append(errs, fmt.Errorf("%s %v..%v Hz is not a valid range below %v Hz", name, b.Low, b.High, nyquist))
		}
	}

	if c.HighBand.Low <= c.LowBand.High {
		errs = append(errs, fmt.Errorf("high_band must start above low_band, got %v Hz <= %v Hz", c.HighBand.Low, c.LowBand.High))
	}

	if c.MaxAmplitude == 0 || c.MaxAmplitude > DefaultMaxAmplitude {
		errs = append(errs, fmt.Errorf("max_amplitude must be 1 to %d, got %d", DefaultMaxAmplitude, c.MaxAmplitude))
	}

	if c.ToleranceHz <= 0 {
		errs = append(errs, errors.New("tolerance_hz must be positive"))
	}

	switch c.Mode.Fixed {
	case "", "send", "receive":
	default:
		errs = append(errs, fmt.Errorf("mode.fixed must be send or receive, got %q", c.Mode.Fixed))
	}

	return errors.Join(errs...)
}

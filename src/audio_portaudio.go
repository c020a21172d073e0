package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Sound card interface, using PortAudio.
 *
 * Description:	Output is callback driven.  The device asks for a
 *		buffer of frames and each frame is one tick of the
 *		tone synthesizer, so the sound card is the sample
 *		clock.
 *
 *		Input is a blocking stream.  Capture pulls samples
 *		one at a time; a whole device buffer is read at once
 *		behind the scenes.
 *
 *		The synthesizer produces unsigned 24 bit samples,
 *		centred on half scale.  PortAudio wants signed PCM, so
 *		they are re-centred on zero and shifted up to 32 bits.
 *		Input goes the other way: signed 32 bit shifted down
 *		to signed 24 bit.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

var ErrNoAudioDevice = errors.New("no such audio device")

// InitAudio must be called before opening any device, TerminateAudio after closing them.
func InitAudio() error {
	return portaudio.Initialize()
}

func TerminateAudio() error {
	return portaudio.Terminate()
}

// AudioDeviceNames lists devices for the -L option.
func AudioDeviceNames() ([]string, error) {
	var devices, err = portaudio.Devices()
	if err != nil {
		return nil, err
	}

	var names = make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, fmt.Sprintf("%s (in %d, out %d, %.0f Hz)",
			d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate))
	}

	return names, nil
}

func findDevice(name string, input bool) (*portaudio.DeviceInfo, error) {
	if name == "" {
		if input {
			return portaudio.DefaultInputDevice()
		}

		return portaudio.DefaultOutputDevice()
	}

	var devices, err = portaudio.Devices()
	if err != nil {
		return nil, err
	}

	for _, d := range devices {
		if d.Name != name {
			continue
		}

		if (input && d.MaxInputChannels > 0) || (!input && d.MaxOutputChannels > 0) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoAudioDevice, name)
}

// unsignedToPCM32 maps 0 .. maxAmplitude to a signed 32 bit sample.
func unsignedToPCM32(v uint32, maxAmplitude uint32) int32 {
	var centred = 2*int64(v) - int64(maxAmplitude)

	return int32(centred << 8) //nolint:gosec // |centred| <= 0x7FFFFF
}

// PortAudioOutput plays the synthesizer through a stereo output device.
type PortAudioOutput struct {
	stream       *portaudio.Stream
	synth        *ToneSynthesizer
	maxAmplitude uint32

	// Only valid inside the callback.
	buf []int32
	pos int
}

/*------------------------------------------------------------------
 *
 * Name:        OpenPortAudioOutput
 *
 * Inputs:	device		- Device name, empty for the default.
 *
 *		osc		- Tone pair shared with the controller.
 *
 *		sampleRate	- Also the synthesizer tick rate.
 *
 * Returns:     Output with its own synthesizer.  Nothing is heard
 *		until Start.
 *
 *----------------------------------------------------------------*/

func OpenPortAudioOutput(device string, osc *Oscillators, sampleRate int, maxAmplitude uint32, framesPerBuffer int) (*PortAudioOutput, error) {
	var dev, devErr = findDevice(device, false)
	if devErr != nil {
		return nil, fmt.Errorf("output device: %w", devErr)
	}

	var o = &PortAudioOutput{maxAmplitude: maxAmplitude}
	o.synth = NewToneSynthesizer(osc, sampleRate, maxAmplitude, o)

	var params = portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = 2
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = framesPerBuffer

	var stream, openErr = portaudio.OpenStream(params, o.fill)
	if openErr != nil {
		return nil, fmt.Errorf("open output %s: %w", dev.Name, openErr)
	}

	o.stream = stream

	return o, nil
}

// fill is the PortAudio callback.  One synthesizer tick per frame.
func (o *PortAudioOutput) fill(out []int32) {
	o.buf = out
	o.pos = 0

	for o.pos+1 < len(out) {
		o.synth.OnTick()
	}

	o.buf = nil
}

// PutSample stores one frame into the buffer being filled.
func (o *PortAudioOutput) PutSample(left, right uint32) {
	if o.pos+1 >= len(o.buf) {
		return
	}

	o.buf[o.pos] = unsignedToPCM32(left, o.maxAmplitude)
	o.buf[o.pos+1] = unsignedToPCM32(right, o.maxAmplitude)
	o.pos += 2
}

func (o *PortAudioOutput) Start() error {
	return o.stream.Start()
}

func (o *PortAudioOutput) Close() error {
	var stopErr = o.stream.Stop()
	var closeErr = o.stream.Close()

	if stopErr != nil {
		return stopErr
	}

	return closeErr
}

// PortAudioInput reads a mono input device.
type PortAudioInput struct {
	stream *portaudio.Stream
	buf    []int32
	pos    int
}

func OpenPortAudioInput(device string, sampleRate int, framesPerBuffer int) (*PortAudioInput, error) {
	var dev, devErr = findDevice(device, true)
	if devErr != nil {
		return nil, fmt.Errorf("input device: %w", devErr)
	}

	if framesPerBuffer <= 0 {
		framesPerBuffer = 256
	}

	var in = &PortAudioInput{buf: make([]int32, framesPerBuffer)}
	in.pos = len(in.buf)

	var params = portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = framesPerBuffer

	var stream, openErr = portaudio.OpenStream(params, in.buf)
	if openErr != nil {
		return nil, fmt.Errorf("open input %s: %w", dev.Name, openErr)
	}

	in.stream = stream

	return in, nil
}

func (in *PortAudioInput) Start() error {
	return in.stream.Start()
}

// ReadSample blocks until the device has a sample.  An overflow is
// returned as an error so the partial block is thrown away.
func (in *PortAudioInput) ReadSample() (int32, error) {
	if in.pos >= len(in.buf) {
		if err := in.stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				in.pos = 0
				return 0, fmt.Errorf("audio input: %w", err)
			}

			return 0, fmt.Errorf("audio input: %w: %w", ErrSourceClosed, err)
		}

		in.pos = 0
	}

	var s = in.buf[in.pos] >> 8
	in.pos++

	return s, nil
}

func (in *PortAudioInput) Close() error {
	var stopErr = in.stream.Stop()
	var closeErr = in.stream.Close()

	if stopErr != nil {
		return stopErr
	}

	return closeErr
}

package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	GPIO lines for the mode switch and for PTT.
 *
 * Description:	Uses the Linux GPIO character device, /dev/gpiochipN.
 *		Line numbers are offsets within the chip, as shown
 *		by gpioinfo.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "dtmfcodec"

// gpioInputLine is the part of *gpiocdev.Line used by the mode switch.
type gpioInputLine interface {
	Value() (int, error)
	Close() error
}

// gpioOutputLine is the part of *gpiocdev.Line used for PTT.
type gpioOutputLine interface {
	SetValue(v int) error
	Close() error
}

// GPIOModeSwitch reads the Send/Receive switch.  A high (active) line selects Receive.
type GPIOModeSwitch struct {
	line gpioInputLine
}

func OpenGPIOModeSwitch(chip string, offset int, activeLow bool) (*GPIOModeSwitch, error) {
	var opts = []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer(gpioConsumer),
	}

	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	var line, err = gpiocdev.RequestLine(chip, offset, opts...)
	if err != nil {
		return nil, fmt.Errorf("request mode switch %s line %d: %w", chip, offset, err)
	}

	return &GPIOModeSwitch{line: line}, nil
}

func (s *GPIOModeSwitch) ReceiveSelected() (bool, error) {
	var v, err = s.line.Value()
	if err != nil {
		return false, err
	}

	return v != 0, nil
}

func (s *GPIOModeSwitch) Close() error {
	return s.line.Close()
}

// FixedMode is a ModeSwitch which never changes.
type FixedMode bool

func (f FixedMode) ReceiveSelected() (bool, error) {
	return bool(f), nil
}

// GPIOPtt drives a transmitter PTT line.
type GPIOPtt struct {
	mu     sync.Mutex
	line   gpioOutputLine
	invert bool
	on     bool
}

func OpenGPIOPtt(chip string, offset int, invert bool) (*GPIOPtt, error) {
	var idle = 0
	if invert {
		idle = 1
	}

	var line, err = gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(idle),
		gpiocdev.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, fmt.Errorf("request PTT %s line %d: %w", chip, offset, err)
	}

	return &GPIOPtt{line: line, invert: invert}, nil
}

// SetPtt only touches the line when the state changes.
func (p *GPIOPtt) SetPtt(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if on == p.on {
		return nil
	}

	var v = 0
	if on != p.invert {
		v = 1
	}

	if err := p.line.SetValue(v); err != nil {
		return err
	}

	p.on = on

	return nil
}

// Close releases PTT, then the line.
func (p *GPIOPtt) Close() error {
	var setErr = p.SetPtt(false)
	var closeErr = p.line.Close()

	if setErr != nil {
		return setErr
	}

	return closeErr
}

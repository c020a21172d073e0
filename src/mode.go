package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Main control loop: Send or Receive, as selected by
 *		an external switch.
 *
 * Description:	Each control cycle reads the switch, changes mode if
 *		needed, then does one unit of work for the current
 *		mode:
 *
 *		Send	- take at most one character from the inbound
 *			  symbol stream and select its tones.  The
 *			  tones themselves come out of the sample
 *			  clock callback, not from here.
 *
 *		Receive	- one full capture and analysis pass.
 *
 *		A mode change in the middle of a capture is noticed
 *		at the start of the next cycle.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MuteCommand silences the tone in Send mode.
const MuteCommand = 'x'

type Mode int

const (
	ModeSend Mode = iota
	ModeReceive
)

func (m Mode) String() string {
	if m == ModeReceive {
		return "Receive"
	}

	return "Send"
}

// ModeSwitch is read once per control cycle.  true selects Receive.
type ModeSwitch interface {
	ReceiveSelected() (bool, error)
}

// SymbolSource returns the next inbound character, if there is one.
// It may wait briefly but must not block indefinitely.
type SymbolSource interface {
	PollSymbol() (byte, bool)
}

// Ptt keys a transmitter while a tone is selected.
type Ptt interface {
	SetPtt(on bool) error
}

type ControllerConfig struct {
	Oscillators *Oscillators // Shared with the sample clock callback.
	Table       *SymbolTable
	Receiver    *Receiver
	Switch      ModeSwitch
	Symbols     SymbolSource
	Reporter    Reporter
	Ptt         Ptt           // Optional.
	Holdoff     time.Duration // Pause after each detection.  Normally 0.
}

type ModeController struct {
	osc      *Oscillators
	table    *SymbolTable
	receiver *Receiver
	sw       ModeSwitch
	symbols  SymbolSource
	reporter Reporter
	ptt      Ptt
	holdoff  time.Duration

	mode    Mode
	started bool
}

func NewModeController(cfg ControllerConfig) *ModeController {
	return &ModeController{
		osc:      cfg.Oscillators,
		table:    cfg.Table,
		receiver: cfg.Receiver,
		sw:       cfg.Switch,
		symbols:  cfg.Symbols,
		reporter: cfg.Reporter,
		ptt:      cfg.Ptt,
		holdoff:  cfg.Holdoff,
	}
}

// Start takes the initial mode from the switch.  Step calls it if needed.
func (c *ModeController) Start() {
	c.started = true
	c.mode = ModeSend

	var receive, err = c.sw.ReceiveSelected()
	if err != nil {
		c.reporter.Fault(fmt.Errorf("read mode switch: %w", err))
	}

	if receive {
		c.enter(ModeReceive)
	} else {
		c.reporter.ModeChanged(ModeSend)
	}
}

func (c *ModeController) Mode() Mode {
	return c.mode
}

/*------------------------------------------------------------------
 *
 * Name:        Step
 *
 * Purpose:     One control cycle.
 *
 * Returns:     nil normally.  Only a closed sample source is
 *		returned, since no later cycle could do better.
 *		Everything else is reported and the cycle ends.
 *
 *----------------------------------------------------------------*/

func (c *ModeController) Step() error {
	if !c.started {
		c.Start()
	}

	var receive, err = c.sw.ReceiveSelected()
	if err != nil {
		c.reporter.Fault(fmt.Errorf("read mode switch: %w", err))
	} else if want := modeFor(receive); want != c.mode {
		c.enter(want)
	}

	if c.mode == ModeReceive {
		return c.receiveCycle()
	}

	c.sendCycle()

	return nil
}

// Run repeats Step until the context is done or the sample source closes.
func (c *ModeController) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.setPtt(false)
			return ctx.Err()
		default:
		}

		if err := c.Step(); err != nil {
			c.setPtt(false)
			return err
		}
	}
}

func modeFor(receive bool) Mode {
	if receive {
		return ModeReceive
	}

	return ModeSend
}

func (c *ModeController) enter(m Mode) {
	if m == ModeReceive {
		// Mute before switching so nothing is transmitted while listening.
		c.osc.Mute()
		c.setPtt(false)
	}

	c.mode = m
	c.reporter.ModeChanged(m)
}

func (c *ModeController) sendCycle() {
	var ch, ok = c.symbols.PollSymbol()
	if !ok {
		return
	}

	c.HandleInput(ch)
}

/*------------------------------------------------------------------
 *
 * Name:        HandleInput
 *
 * Purpose:     Act on one character from the inbound symbol stream.
 *
 * Inputs:	ch	- Keypad symbol, 'x' to mute.  Line endings
 *			  are ignored.  Anything else is reported
 *			  and changes nothing.
 *
 *----------------------------------------------------------------*/

func (c *ModeController) HandleInput(ch byte) {
	if ch == '\n' || ch == '\r' {
		return
	}

	if ch == MuteCommand {
		c.osc.Mute()
		c.setPtt(false)
		c.reporter.Muted()

		return
	}

	var def, err = c.table.Lookup(Symbol(ch))
	if err != nil {
		c.reporter.InvalidInput(ch)
		return
	}

	c.osc.SetTones(def.Low, def.High)
	c.setPtt(true)
	c.reporter.ToneSelected(def)
}

func (c *ModeController) receiveCycle() error {
	var res, err = c.receiver.Pass()
	if err != nil {
		if errors.Is(err, ErrSourceClosed) {
			return err
		}

		c.reporter.Fault(fmt.Errorf("analysis pass skipped: %w", err))

		return nil
	}

	c.reporter.Result(res)

	if res.Outcome == OutcomeDetected && c.holdoff > 0 {
		time.Sleep(c.holdoff)
	}

	return nil
}

func (c *ModeController) setPtt(on bool) {
	if c.ptt == nil {
		return
	}

	if err := c.ptt.SetPtt(on); err != nil {
		c.reporter.Fault(fmt.Errorf("set PTT: %w", err))
	}
}

package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Diagnostic and result reporting.
 *
 * Description:	The controller tells a Reporter about everything that
 *		happens.  Reporters which print or publish results
 *		filter out repeats: a symbol is announced when it first
 *		appears, silence when it begins.
 *
 *---------------------------------------------------------------*/

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

type Reporter interface {
	ModeChanged(m Mode)
	ToneSelected(def ToneDefinition)
	Muted()
	InvalidInput(c byte)
	Result(r ClassificationResult)
	Fault(err error)
}

// Reporters sends each event to all of its members, in order.
type Reporters []Reporter

func (rs Reporters) ModeChanged(m Mode) {
	for _, r := range rs {
		r.ModeChanged(m)
	}
}

func (rs Reporters) ToneSelected(def ToneDefinition) {
	for _, r := range rs {
		r.ToneSelected(def)
	}
}

func (rs Reporters) Muted() {
	for _, r := range rs {
		r.Muted()
	}
}

func (rs Reporters) InvalidInput(c byte) {
	for _, r := range rs {
		r.InvalidInput(c)
	}
}

func (rs Reporters) Result(res ClassificationResult) {
	for _, r := range rs {
		r.Result(res)
	}
}

func (rs Reporters) Fault(err error) {
	for _, r := range rs {
		r.Fault(err)
	}
}

// outputFilter remembers only what was last announced.  It never feeds
// back into classification.
type outputFilter struct {
	last   Symbol // 0 when nothing announced since the last silence.
	silent bool
}

// detected reports whether s should be announced.
func (f *outputFilter) detected(s Symbol) bool {
	f.silent = false

	if s == f.last {
		return false
	}

	f.last = s

	return true
}

// silence reports whether this is the start of a quiet period.
// The same key pressed again after a gap is announced again.
func (f *outputFilter) silence() bool {
	f.last = 0

	if f.silent {
		return false
	}

	f.silent = true

	return true
}

func (f *outputFilter) ambiguous() {
	f.silent = false
}

// LogReporter writes human readable lines to a charmbracelet logger.
type LogReporter struct {
	logger *log.Logger
	stamp  *strftime.Strftime // nil for no timestamp prefix.
	now    func() time.Time
	filter outputFilter
}

/*------------------------------------------------------------------
 *
 * Name:        NewLogReporter
 *
 * Inputs:	logger		- Destination.
 *
 *		timestampFormat	- strftime pattern put in front of
 *				  each line, e.g. "%H:%M:%S".
 *				  Empty for none.
 *
 *		now		- Clock for the timestamps.  nil means
 *				  time.Now.  The file decoder passes
 *				  a clock that follows the file position.
 *
 *----------------------------------------------------------------*/

func NewLogReporter(logger *log.Logger, timestampFormat string, now func() time.Time) (*LogReporter, error) {
	if now == nil {
		now = time.Now
	}

	var r = &LogReporter{logger: logger, now: now}

	if timestampFormat != "" {
		var stamp, stampErr = strftime.New(timestampFormat)
		if stampErr != nil {
			return nil, stampErr
		}

		r.stamp = stamp
	}

	return r, nil
}

func (r *LogReporter) prefix() string {
	if r.stamp == nil {
		return ""
	}

	return r.stamp.FormatString(r.now()) + " "
}

func (r *LogReporter) ModeChanged(m Mode) {
	r.logger.Infof("%sMode changed to: %s", r.prefix(), m)
}

func (r *LogReporter) ToneSelected(def ToneDefinition) {
	r.logger.Infof("%sInput: %c -> Frequencies: %d Hz & %d Hz", r.prefix(), def.Symbol, int(def.Low), int(def.High))
}

func (r *LogReporter) Muted() {
	r.logger.Infof("%sTone muted.", r.prefix())
}

func (r *LogReporter) InvalidInput(c byte) {
	r.logger.Warnf("%sInvalid key: %q", r.prefix(), c)
}

func (r *LogReporter) Result(res ClassificationResult) {
	switch res.Outcome {
	case OutcomeSilence:
		if r.filter.silence() {
			r.logger.Infof("%sSilence.", r.prefix())
		}
	case OutcomeDetected:
		if r.filter.detected(res.Symbol) {
			r.logger.Infof("%sDetected Key: %c (error: %d Hz)", r.prefix(), res.Symbol, int(res.MatchError))
		}
	case OutcomeAmbiguous:
		r.filter.ambiguous()
		r.logger.Debugf("%sNo confident match: %.0f Hz & %.0f Hz, nearest %c is %.0f Hz off",
			r.prefix(), res.LowFreq, res.HighFreq, res.Symbol, res.MatchError)
	}
}

func (r *LogReporter) Fault(err error) {
	r.logger.Warnf("%s%v", r.prefix(), err)
}

// KeyCollector records announced keys in order, for offline decoding.
type KeyCollector struct {
	keys   []byte
	filter outputFilter
}

func (k *KeyCollector) ModeChanged(Mode)            {}
func (k *KeyCollector) ToneSelected(ToneDefinition) {}
func (k *KeyCollector) Muted()                      {}
func (k *KeyCollector) InvalidInput(byte)           {}
func (k *KeyCollector) Fault(error)                 {}

func (k *KeyCollector) Result(res ClassificationResult) {
	switch res.Outcome {
	case OutcomeSilence:
		k.filter.silence()
	case OutcomeAmbiguous:
		k.filter.ambiguous()
	case OutcomeDetected:
		if k.filter.detected(res.Symbol) {
			k.keys = append(k.keys, byte(res.Symbol))
		}
	}
}

func (k *KeyCollector) Keys() string {
	return string(k.keys)
}

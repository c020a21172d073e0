package dtmf

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detected(s Symbol) ClassificationResult {
	return ClassificationResult{Outcome: OutcomeDetected, Symbol: s, MatchError: 12, LowFreq: 750, HighFreq: 1359.375}
}

var silence = ClassificationResult{Outcome: OutcomeSilence}

var ambiguous = ClassificationResult{Outcome: OutcomeAmbiguous, Symbol: '3', MatchError: 80, LowFreq: 1031.25, HighFreq: 1125}

func TestOutputFilter(t *testing.T) {
	var f outputFilter

	assert.True(t, f.detected('1'))
	assert.False(t, f.detected('1'), "held key")
	assert.True(t, f.detected('2'), "different key")
	assert.True(t, f.silence())
	assert.False(t, f.silence(), "still quiet")
	assert.True(t, f.detected('2'), "same key again after a gap")

	f.ambiguous()
	assert.False(t, f.detected('2'), "ambiguous doesn't end a key press")
	assert.True(t, f.silence())
}

func TestLogReporterDeduplicates(t *testing.T) {
	var logger, buf = NewBufferLogger(t)

	var r, err = NewLogReporter(logger, "", nil)
	require.NoError(t, err)

	for _, res := range []ClassificationResult{
		silence, silence,
		detected('5'), detected('5'), detected('5'),
		ambiguous,
		detected('5'),
		silence,
		detected('5'),
		detected('6'),
	} {
		r.Result(res)
	}

	var out = buf.String()

	assert.Equal(t, 2, strings.Count(out, "Detected Key: 5 (error: 12 Hz)"), out)
	assert.Equal(t, 1, strings.Count(out, "Detected Key: 6"), out)
	assert.Equal(t, 2, strings.Count(out, "Silence."), out)
	assert.Contains(t, out, "No confident match: 1031 Hz & 1125 Hz, nearest 3 is 80 Hz off")
}

func TestLogReporterMessages(t *testing.T) {
	var logger, buf = NewBufferLogger(t)

	var r, err = NewLogReporter(logger, "", nil)
	require.NoError(t, err)

	r.ModeChanged(ModeReceive)
	r.ToneSelected(ToneDefinition{'5', 770, 1336})
	r.Muted()
	r.InvalidInput('k')
	r.Fault(errors.New("analysis pass skipped: overrun"))

	var out = buf.String()

	assert.Contains(t, out, "Mode changed to: Receive")
	assert.Contains(t, out, "Input: 5 -> Frequencies: 770 Hz & 1336 Hz")
	assert.Contains(t, out, "Tone muted.")
	assert.Contains(t, out, "Invalid key: 'k'")
	assert.Contains(t, out, "analysis pass skipped: overrun")
}

func TestLogReporterTimestamp(t *testing.T) {
	var logger, buf = NewBufferLogger(t)

	var clock = func() time.Time { return time.Date(2024, 6, 1, 12, 34, 56, 0, time.UTC) }

	var r, err = NewLogReporter(logger, "%H:%M:%S", clock)
	require.NoError(t, err)

	r.ModeChanged(ModeSend)

	assert.Contains(t, buf.String(), "12:34:56 Mode changed to: Send")
}

func TestReportersFanOut(t *testing.T) {
	var a, b = new(eventLog), new(eventLog)
	var rs = Reporters{a, b}

	rs.ModeChanged(ModeSend)
	rs.Muted()
	rs.Result(silence)
	rs.Fault(errors.New("x"))

	for _, e := range []*eventLog{a, b} {
		assert.Equal(t, []string{"mode Send", "muted"}, e.events)
		assert.Len(t, e.results, 1)
		assert.Len(t, e.faults, 1)
	}
}

func TestKeyCollector(t *testing.T) {
	var k = new(KeyCollector)

	for _, res := range []ClassificationResult{
		detected('1'), detected('1'), silence,
		detected('1'), ambiguous, detected('1'), silence,
		detected('#'),
	} {
		k.Result(res)
	}

	assert.Equal(t, "11#", k.Keys())
}

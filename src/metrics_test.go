package dtmf

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	var m = NewMetrics()

	m.ModeChanged(ModeReceive)
	assert.InDelta(t, 1, testutil.ToFloat64(m.mode), 0)

	for _, res := range []ClassificationResult{detected('1'), detected('1'), silence, detected('1'), ambiguous} {
		m.Result(res)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.keys.WithLabelValues("1")), 0, "held key counted once")
	assert.InDelta(t, 3, testutil.ToFloat64(m.passes.WithLabelValues("detected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.passes.WithLabelValues("silence")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.passes.WithLabelValues("ambiguous")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(m.matchError), 0)

	m.ModeChanged(ModeSend)
	m.ToneSelected(ToneDefinition{Symbol: '#', Low: 941, High: 1477})
	m.InvalidInput('k')
	m.Fault(errors.New("overflow"))

	assert.InDelta(t, 0, testutil.ToFloat64(m.mode), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.modeChanges), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.tonesSelected.WithLabelValues("#")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.invalidInput), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.faults), 0)

	var count, err = testutil.GatherAndCount(m.Registry(), "dtmf_keys_detected_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

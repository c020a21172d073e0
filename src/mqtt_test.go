package dtmf

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	messages []publishedMessage
}

func (p *fakePublisher) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	p.messages = append(p.messages, publishedMessage{topic: topic, payload: payload.([]byte)})

	return &mqtt.DummyToken{}
}

func TestMQTTReporter(t *testing.T) {
	var logger, _ = NewBufferLogger(t)
	var pub = new(fakePublisher)

	var r = newMQTTReporter(pub, "dtmf/test", logger)
	r.now = func() time.Time { return time.UnixMilli(1700000000123) }

	for _, res := range []ClassificationResult{detected('7'), detected('7'), ambiguous, detected('7'), silence, detected('7')} {
		r.Result(res)
	}

	r.ModeChanged(ModeReceive)
	r.Fault(nil)

	require.Len(t, pub.messages, 2)
	assert.Equal(t, "dtmf/test", pub.messages[0].topic)

	var ev KeyEvent
	require.NoError(t, json.Unmarshal(pub.messages[1].payload, &ev))

	assert.Equal(t, KeyEvent{
		Symbol:     "7",
		LowHz:      750,
		HighHz:     1359.375,
		MatchError: 12,
		Timestamp:  1700000000123,
	}, ev)
}

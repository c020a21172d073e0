package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Publish detected keys to an MQTT broker.
 *
 * Description:	One JSON message per key press, on the configured
 *		topic.  Held keys are published once, as for the log.
 *		Everything else is ignored.
 *
 *---------------------------------------------------------------*/

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// KeyEvent is the MQTT message body.
type KeyEvent struct {
	Symbol     string  `json:"symbol"`
	LowHz      float64 `json:"low_hz"`
	HighHz     float64 `json:"high_hz"`
	MatchError float64 `json:"match_error_hz"`
	Timestamp  int64   `json:"timestamp"` // Unix milliseconds.
}

// publisher is the part of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTTReporter struct {
	client publisher
	topic  string
	logger *log.Logger
	now    func() time.Time
	filter outputFilter
}

// ConnectMQTT connects to the broker and returns a reporter publishing on cfg.Topic.
func ConnectMQTT(cfg MQTTConfig, logger *log.Logger) (*MQTTReporter, mqtt.Client, error) {
	var opts = mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID("dtmfcodec_" + uuid.NewString())

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}

	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warnf("MQTT: Connection lost: %v", err)
	})

	var client = mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}

	logger.Infof("MQTT: Connected to %s, publishing on %s", cfg.Broker, cfg.Topic)

	return newMQTTReporter(client, cfg.Topic, logger), client, nil
}

func newMQTTReporter(client publisher, topic string, logger *log.Logger) *MQTTReporter {
	return &MQTTReporter{client: client, topic: topic, logger: logger, now: time.Now}
}

func (r *MQTTReporter) ModeChanged(Mode)            {}
func (r *MQTTReporter) ToneSelected(ToneDefinition) {}
func (r *MQTTReporter) Muted()                      {}
func (r *MQTTReporter) InvalidInput(byte)           {}
func (r *MQTTReporter) Fault(error)                 {}

func (r *MQTTReporter) Result(res ClassificationResult) {
	switch res.Outcome {
	case OutcomeSilence:
		r.filter.silence()
		return
	case OutcomeAmbiguous:
		r.filter.ambiguous()
		return
	case OutcomeDetected:
	}

	if !r.filter.detected(res.Symbol) {
		return
	}

	var payload, err = json.Marshal(KeyEvent{
		Symbol:     res.Symbol.String(),
		LowHz:      res.LowFreq,
		HighHz:     res.HighFreq,
		MatchError: res.MatchError,
		Timestamp:  r.now().UnixMilli(),
	})
	if err != nil {
		r.logger.Errorf("MQTT: encode: %v", err)
		return
	}

	// Don't wait for the broker; the control loop must keep running.
	r.client.Publish(r.topic, 0, false, payload)
}

package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Prometheus counters for what the codec is doing,
 *		served on /metrics.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	keys          *prometheus.CounterVec
	tonesSelected *prometheus.CounterVec
	modeChanges   prometheus.Counter
	invalidInput  prometheus.Counter
	faults        prometheus.Counter
	mode          prometheus.Gauge
	matchError    prometheus.Gauge

	filter outputFilter
}

func NewMetrics() *Metrics {
	var m = &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dtmf_analysis_passes_total",
			Help: "Receive analysis passes by outcome.",
		}, []string{"outcome"}),
		keys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dtmf_keys_detected_total",
			Help: "Key presses detected in Receive mode.  A held key counts once.",
		}, []string{"symbol"}),
		tonesSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dtmf_tones_selected_total",
			Help: "Tone pairs selected in Send mode.",
		}, []string{"symbol"}),
		modeChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_mode_changes_total",
			Help: "Send/Receive mode changes, including the initial mode.",
		}),
		invalidInput: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_invalid_input_total",
			Help: "Characters received in Send mode that are not keypad symbols.",
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dtmf_faults_total",
			Help: "Skipped passes and device errors.",
		}),
		mode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtmf_receive_mode",
			Help: "1 in Receive mode, 0 in Send mode.",
		}),
		matchError: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dtmf_last_match_error_hz",
			Help: "Match error of the most recent detection.",
		}),
	}

	m.registry.MustRegister(m.passes, m.keys, m.tonesSelected, m.modeChanges,
		m.invalidInput, m.faults, m.mode, m.matchError)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ModeChanged(mode Mode) {
	m.modeChanges.Inc()

	if mode == ModeReceive {
		m.mode.Set(1)
	} else {
		m.mode.Set(0)
	}
}

func (m *Metrics) ToneSelected(def ToneDefinition) {
	m.tonesSelected.WithLabelValues(def.Symbol.String()).Inc()
}

func (m *Metrics) Muted() {}

func (m *Metrics) InvalidInput(byte) {
	m.invalidInput.Inc()
}

func (m *Metrics) Result(res ClassificationResult) {
	m.passes.WithLabelValues(res.Outcome.String()).Inc()

	switch res.Outcome {
	case OutcomeSilence:
		m.filter.silence()
	case OutcomeAmbiguous:
		m.filter.ambiguous()
	case OutcomeDetected:
		m.matchError.Set(res.MatchError)

		if m.filter.detected(res.Symbol) {
			m.keys.WithLabelValues(res.Symbol.String()).Inc()
		}
	}
}

func (m *Metrics) Fault(error) {
	m.faults.Inc()
}

// ServeMetrics serves /metrics on listen until ctx is done.
func ServeMetrics(ctx context.Context, listen string, m *Metrics, logger *log.Logger) error {
	var mux = http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})) //nolint:exhaustruct

	var srv = &http.Server{ //nolint:exhaustruct
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		var shutdownCtx, cancel = context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Infof("Metrics on http://%s/metrics", listen)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

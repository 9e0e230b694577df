package ads

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Surface labels.
const (
	SurfaceBanner       = "banner"
	SurfaceInterstitial = "interstitial"
	SurfaceRewarded     = "rewarded"
)

// Metrics collects ad activity across every session of the process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	events        *prometheus.CounterVec
	gateSkips     *prometheus.CounterVec
	inits         *prometheus.CounterVec
	adsWatched    prometheus.Counter
	periods       *prometheus.CounterVec
	adFreePlayers prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ads",
			Name:      "requests_total",
			Help:      "Load and show requests sent to the ad provider.",
		}, []string{"surface", "op"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ads",
			Name:      "events_total",
			Help:      "Provider callbacks by surface and event.",
		}, []string{"surface", "event"}),
		gateSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ads",
			Name:      "gate_skips_total",
			Help:      "Requests dropped because an ad-free period was active.",
		}, []string{"surface", "op"}),
		inits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ads",
			Name:      "initializations_total",
			Help:      "Provider initialization outcomes.",
		}, []string{"result"}),
		adsWatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ads",
			Name:      "watched_total",
			Help:      "Ads watched towards an ad-free period.",
		}),
		periods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flappy",
			Subsystem: "ad_free",
			Name:      "periods_total",
			Help:      "Ad-free period transitions.",
		}, []string{"event"}),
		adFreePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flappy",
			Subsystem: "ad_free",
			Name:      "active_sessions",
			Help:      "Sessions currently inside an ad-free period.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.events, m.gateSkips, m.inits, m.adsWatched, m.periods, m.adFreePlayers)
	}
	return m
}

func (m *Metrics) request(surface, op string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(surface, op).Inc()
}

func (m *Metrics) event(surface, event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(surface, event).Inc()
}

func (m *Metrics) skipped(surface, op string) {
	if m == nil {
		return
	}
	m.gateSkips.WithLabelValues(surface, op).Inc()
}

func (m *Metrics) initialized(ok bool) {
	if m == nil {
		return
	}
	result := "complete"
	if !ok {
		result = "failed"
	}
	m.inits.WithLabelValues(result).Inc()
}

func (m *Metrics) watched() {
	if m == nil {
		return
	}
	m.adsWatched.Inc()
}

func (m *Metrics) periodStarted(restored bool) {
	if m == nil {
		return
	}
	event := "started"
	if restored {
		event = "restored"
	}
	m.periods.WithLabelValues(event).Inc()
	m.adFreePlayers.Inc()
}

// periodLeft is called when a period ends or its session closes mid-period.
func (m *Metrics) periodLeft(ended bool) {
	if m == nil {
		return
	}
	if ended {
		m.periods.WithLabelValues("ended").Inc()
	}
	m.adFreePlayers.Dec()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink records workflow events as Prometheus metrics.
type PromSink struct {
	releases    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	pickups     prometheus.Counter
	sweepClosed prometheus.Counter
}

// NewPromSink registers the collectors on the given registerer. A nil reg
// uses the default registerer; already-registered collectors are reused so
// tests can build multiple sinks.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	releases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_releases_total",
		Help: "Release attempts by outcome",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "donation_intent_transitions_total",
		Help: "Intent terminal transitions by status",
	}, []string{"status"})
	pickups := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_pickups_total",
		Help: "Completed pickups",
	})
	sweepClosed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "donation_sweep_closed_total",
		Help: "Intents closed by the expiry sweep",
	})

	s := &PromSink{releases: releases, transitions: transitions, pickups: pickups, sweepClosed: sweepClosed}

	if err := register(reg, releases, func(c prometheus.Collector) { s.releases = c.(*prometheus.CounterVec) }); err != nil {
		return nil, err
	}
	if err := register(reg, transitions, func(c prometheus.Collector) { s.transitions = c.(*prometheus.CounterVec) }); err != nil {
		return nil, err
	}
	if err := register(reg, pickups, func(c prometheus.Collector) { s.pickups = c.(prometheus.Counter) }); err != nil {
		return nil, err
	}
	if err := register(reg, sweepClosed, func(c prometheus.Collector) { s.sweepClosed = c.(prometheus.Counter) }); err != nil {
		return nil, err
	}

	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, replace func(prometheus.Collector)) error {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		replace(are.ExistingCollector)
	}
	return nil
}

func (s *PromSink) RecordRelease(outcome string) { s.releases.WithLabelValues(outcome).Inc() }

func (s *PromSink) RecordIntentTransition(status string) {
	s.transitions.WithLabelValues(status).Inc()
}

func (s *PromSink) RecordPickup() { s.pickups.Inc() }

func (s *PromSink) RecordSweep(closed int) { s.sweepClosed.Add(float64(closed)) }

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler { return promhttp.Handler() }

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the coordination hub's prometheus collectors.
type Registry struct {
	connectedObservers prometheus.Gauge
	broadcasts         *prometheus.CounterVec
	signalsNotified    prometheus.Counter
	protocolViolations prometheus.Counter
}

// NewRegistry registers the hub metrics on reg. if reg is nil, the default
// registerer is used; already-registered collectors are reused.
func NewRegistry(reg prometheus.Registerer) (*Registry, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "corridor_connected_observers",
		Help: "Number of currently connected observer clients",
	})
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "corridor_broadcasts_total",
		Help: "Total number of events fanned out to observers",
	}, []string{"message_type"})
	notified := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corridor_signals_notified_total",
		Help: "Total number of traffic signals that entered notification range",
	})
	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corridor_protocol_violations_total",
		Help: "Total number of malformed or invalid inbound messages discarded",
	})

	if err := reg.Register(connected); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			connected = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(broadcasts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			broadcasts = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(notified); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			notified = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(violations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			violations = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &Registry{
		connectedObservers: connected,
		broadcasts:         broadcasts,
		signalsNotified:    notified,
		protocolViolations: violations,
	}, nil
}

func (r *Registry) ObserverConnected() {
	r.connectedObservers.Inc()
}

func (r *Registry) ObserverDisconnected() {
	r.connectedObservers.Dec()
}

func (r *Registry) BroadcastSent(messageType string) {
	r.broadcasts.WithLabelValues(messageType).Inc()
}

func (r *Registry) SignalsNotified(n int) {
	r.signalsNotified.Add(float64(n))
}

func (r *Registry) ProtocolViolation() {
	r.protocolViolations.Inc()
}

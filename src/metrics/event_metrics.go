package metrics

import (
	"github.com/openshift/syslog-client/src/events"
	"github.com/openshift/syslog-client/src/transport"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "syslog_client"

const (
	errorKindConnection = "connection"
	errorKindSend       = "send"
	errorKindOther      = "other"
)

// EventMetrics counts session events, subscribe Handle to a client.
type EventMetrics struct {
	connects    prometheus.Counter
	disconnects prometheus.Counter
	errors      *prometheus.CounterVec
}

func NewEventMetrics(registerer prometheus.Registerer) (*EventMetrics, error) {
	m := &EventMetrics{
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connects_total",
			Help:      "Connections established to the syslog collector.",
		}),
		disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Connections to the syslog collector that were closed.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Connection and send failures by kind.",
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{m.connects, m.disconnects, m.errors} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register syslog client metrics")
		}
	}
	return m, nil
}

func (m *EventMetrics) Handle(ev events.Event) {
	switch ev.Type {
	case events.EventConnect:
		m.connects.Inc()
	case events.EventDisconnect:
		m.disconnects.Inc()
	case events.EventError:
		m.errors.WithLabelValues(errorKind(ev.Err)).Inc()
	}
}

func errorKind(err error) string {
	var connErr *transport.ConnectionError
	var sendErr *transport.SendError
	switch {
	case errors.As(err, &connErr):
		return errorKindConnection
	case errors.As(err, &sendErr):
		return errorKindSend
	default:
		return errorKindOther
	}
}

package obs

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-heroes-auth"
)

// MetricsSink counts activity events by type and failure reason
type MetricsSink struct {
	mEvents *prometheus.CounterVec
}

var _ auth.ActivitySink = (*MetricsSink)(nil)

// NewMetricsSink registers its counters on reg, or on the default registry
// when reg is nil.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &MetricsSink{
		mEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "heroes",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication activity events",
		}, []string{"event", "reason"}),
	}
}

func (m *MetricsSink) Record(_ context.Context, event auth.ActivityEvent) error {
	m.mEvents.WithLabelValues(string(event.EventType), event.Reason).Inc()
	return nil
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpdatesPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livedesk",
		Name:      "updates_pushed_total",
		Help:      "Updates accepted into an event feed, by update type.",
	}, []string{"type"})

	PushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livedesk",
		Name:      "push_failures_total",
		Help:      "Update pushes that failed at the store or guard.",
	})

	SnapshotsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livedesk",
		Name:      "snapshots_delivered_total",
		Help:      "Full feed snapshots delivered to subscribers.",
	})

	SnapshotsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livedesk",
		Name:      "snapshots_dropped_total",
		Help:      "Snapshots superseded before a slow subscriber drained them.",
	})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "livedesk",
		Name:      "active_subscriptions",
		Help:      "Currently registered feed subscriptions.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "restoadmin",
			Name:      "reservation_created_total",
			Help:      "Count of reservations admitted.",
		},
	)

	reservationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoadmin",
			Name:      "reservation_rejected_total",
			Help:      "Count of reservation attempts rejected by reason.",
		},
		[]string{"reason"},
	)

	reservationStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoadmin",
			Name:      "reservation_status_changed_total",
			Help:      "Count of reservation status changes by target status.",
		},
		[]string{"status"},
	)

	snapshotDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "restoadmin",
			Name:      "floor_snapshot_partial_total",
			Help:      "Count of floor snapshots served with at least one zone missing.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "restoadmin",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route and status class.",
		},
		[]string{"route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationRejected, reservationStatus, snapshotDegraded, httpRequests)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

// IncReservationRejected counts a rejected create; reason is one of
// validation, conflict, capacity, not_found or error.
func IncReservationRejected(reason string) {
	reservationRejected.WithLabelValues(reason).Inc()
}

func IncStatusChanged(status string) {
	reservationStatus.WithLabelValues(status).Inc()
}

func IncSnapshotDegraded() {
	snapshotDegraded.Inc()
}

func ObserveRequest(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

package persistence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	remoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bikeship",
		Subsystem: "persistence",
		Name:      "remote_failures_total",
		Help:      "Remote backend calls that failed and were retried against the local store.",
	}, []string{"backend", "operation"})

	localOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bikeship",
		Subsystem: "persistence",
		Name:      "local_operations_total",
		Help:      "Operations served by the local store, by outcome.",
	}, []string{"operation", "outcome"})
)

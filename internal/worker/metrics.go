package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	remoteUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bikeship",
		Subsystem: "persistence",
		Name:      "remote_up",
		Help:      "1 when the last probe reached the remote backend, 0 otherwise.",
	}, []string{"backend"})

	remoteTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bikeship",
		Subsystem: "persistence",
		Name:      "remote_state_transitions_total",
		Help:      "Remote backend state changes observed by the connection monitor.",
	}, []string{"backend", "state"})
)

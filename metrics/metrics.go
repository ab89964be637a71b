package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "chatrelay", Name: "gateway_calls_total", Help: "Conversation provider calls by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	BatchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "chatrelay", Name: "participant_batch_items_total", Help: "Batch participant additions by outcome."},
		[]string{"outcome"},
	)
	MirrorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "chatrelay", Name: "mirror_write_failures_total", Help: "Local mirror writes that failed after the provider call succeeded."},
		[]string{"operation"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GatewayCalls)
	reg.MustRegister(BatchItems)
	reg.MustRegister(MirrorFailures)
}

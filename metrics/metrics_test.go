package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	GatewayCalls.WithLabelValues("create_conversation", "ok").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(GatewayCalls.WithLabelValues("create_conversation", "ok")))

	// registering twice on the same registry is a programming error
	assert.Panics(t, func() { RegisterCollectors(reg) })
}

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
	require.NoError(t, Register(nil))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(turnsTotal.WithLabelValues("greeting", "greet"))
	ObserveTurn("greeting", "greet")
	assert.Equal(t, before+1, testutil.ToFloat64(turnsTotal.WithLabelValues("greeting", "greet")))

	before = testutil.ToFloat64(leadsSubmittedTotal)
	LeadSubmitted()
	assert.Equal(t, before+1, testutil.ToFloat64(leadsSubmittedTotal))

	before = testutil.ToFloat64(degradedTotal.WithLabelValues("retrieval"))
	Degraded("retrieval")
	assert.Equal(t, before+1, testutil.ToFloat64(degradedTotal.WithLabelValues("retrieval")))

	ObserveClassifier("rule", 3*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(classifierLatency))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/quicfoundry/connid/logging"
)

func TestTracerCountsLifecycleEvents(t *testing.T) {
	tracer := NewConnectionTracerWithRegisterer(prometheus.NewPedanticRegistry())

	connID := logging.ConnectionID{1, 2, 3, 4}
	tracer.IssuedConnectionID(0, connID)
	tracer.IssuedConnectionID(1, connID)
	tracer.RetiredConnectionID(1, connID)
	tracer.RemovedConnectionID(1, connID)

	require.Equal(t, 2.0, testutil.ToFloat64(connIDsIssued))
	require.Equal(t, 1.0, testutil.ToFloat64(connIDsRetired))
	require.Equal(t, 1.0, testutil.ToFloat64(connIDsRemoved))
	require.Equal(t, 1.0, testutil.ToFloat64(connIDsTracked))
}

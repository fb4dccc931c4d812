package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRegistry(reg)
	require.NoError(t, err)

	m.ObserverConnected()
	m.ObserverConnected()
	m.ObserverDisconnected()
	m.BroadcastSent("coordinateUpdate")
	m.BroadcastSent("coordinateUpdate")
	m.BroadcastSent("trafficLightUpdate")
	m.SignalsNotified(3)
	m.ProtocolViolation()

	require.Equal(t, 1.0, testutil.ToFloat64(m.connectedObservers))
	require.Equal(t, 2.0, testutil.ToFloat64(m.broadcasts.WithLabelValues("coordinateUpdate")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.broadcasts.WithLabelValues("trafficLightUpdate")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.signalsNotified))
	require.Equal(t, 1.0, testutil.ToFloat64(m.protocolViolations))
}

func TestRegistryReusesExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewRegistry(reg)
	require.NoError(t, err)

	// registering twice on the same registerer must hand back the same
	// collectors instead of failing
	second, err := NewRegistry(reg)
	require.NoError(t, err)

	first.ObserverConnected()
	require.Equal(t, 1.0, testutil.ToFloat64(second.connectedObservers))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m io_prometheus_client.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func getGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m io_prometheus_client.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestNewRegistersDistinctCollectorsPerRegistry(t *testing.T) {
	regA := prometheus.NewRegistry()
	regB := prometheus.NewRegistry()

	a := New(regA)
	b := New(regB)

	a.PatchesEmitted.Add(3)
	b.PatchesEmitted.Add(7)

	assert.Equal(t, float64(3), getCounterValue(t, a.PatchesEmitted))
	assert.Equal(t, float64(7), getCounterValue(t, b.PatchesEmitted))
}

func TestConnectedClientsGaugeTracksUpDown(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ConnectedClients.Inc()
	m.ConnectedClients.Inc()
	m.ConnectedClients.Dec()

	assert.Equal(t, float64(1), getGaugeValue(t, m.ConnectedClients))
}

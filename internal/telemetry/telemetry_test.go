package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled)

	p.RecordAnalysis(context.Background(), "achievable", "scored", 80)
	p.RecordRequest(context.Background(), "/api/analyze", 200, 1.5)
	p.Shutdown(context.Background())
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *Provider
	p.RecordAnalysis(context.Background(), "delusional", "hard_flag", 15)
	p.RecordRequest(context.Background(), "/api/analyze", 200, 1.5)
	p.Shutdown(context.Background())
}

func TestUnsupportedProtocol(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, Endpoint: "x:1", Protocol: "udp"}, nil)
	require.Error(t, err)
}

func TestRecordAnalysisCounts(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	p := NewWithMeterProvider(mp)

	ctx := context.Background()
	p.RecordAnalysis(ctx, "optimistic", "scored", 53)
	p.RecordAnalysis(ctx, "optimistic", "scored", 60)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "resocheck_analyses_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}

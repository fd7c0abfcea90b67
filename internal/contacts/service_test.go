package contacts

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/contact-bridge/internal/observability/metrics"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

func lookupCount(t *testing.T, reg *prometheus.Registry, endpoint, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "contact_bridge_lookup_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["endpoint"] == endpoint && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestServiceRecordsLookupOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBridgeMetrics(reg)
	svc := NewService(seededStore(t), "contacts", logging.New("error"), m)
	ctx := context.Background()

	_, err := svc.CallContext(ctx, "555-123-4567")
	require.NoError(t, err)
	_, err = svc.CallContext(ctx, "555-000-0000")
	require.NoError(t, err)
	_, err = svc.CallContext(ctx, "12")
	require.NoError(t, err)

	summary, err := svc.Find(ctx, "+1 (555) 123-4567")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "Dana Reyes", summary.Name)

	assert.Equal(t, 1.0, lookupCount(t, reg, "call_context", metrics.LookupFound))
	assert.Equal(t, 1.0, lookupCount(t, reg, "call_context", metrics.LookupNotFound))
	assert.Equal(t, 1.0, lookupCount(t, reg, "call_context", metrics.LookupInvalidPhone))
	assert.Equal(t, 1.0, lookupCount(t, reg, "lookup", metrics.LookupFound))
}

func TestServiceFindMissingAndInvalid(t *testing.T) {
	svc := NewService(seededStore(t), "contacts", logging.New("error"), nil)
	ctx := context.Background()

	summary, err := svc.Find(ctx, "555-999-0000")
	require.NoError(t, err)
	assert.Nil(t, summary)

	summary, err = svc.Find(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestServiceCallContextErrorMasksPhone(t *testing.T) {
	svc := NewService(failingStore{err: errors.New("timeout")}, "contacts", logging.New("error"), nil)

	resp, err := svc.CallContext(context.Background(), "5551234567")
	require.Error(t, err)
	assert.True(t, resp.Error)
	assert.NotContains(t, err.Error(), "5551234567")
	assert.Contains(t, err.Error(), "4567")
}

func TestNewServicePanicsOnMissingDependencies(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, "contacts", nil, nil) })
	assert.Panics(t, func() { NewService(seededStore(t), "", nil, nil) })
}

package metrics

import (
	"fmt"
	"testing"

	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestOrderMetricsExportsCountersAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)

	metrics.ObserveCreated(5300)
	metrics.ObserveCreated(1200)
	metrics.ObserveTransition(enums.OrderStatusNew, enums.OrderStatusProcessing)
	metrics.SetStatusCount(enums.OrderStatusProcessing, 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got := counterValue(t, mfs, "orders_created_total", nil); got != 2 {
		t.Fatalf("expected created=2, got %f", got)
	}
	if got := counterValue(t, mfs, "orders_revenue_rub_total", nil); got != 6500 {
		t.Fatalf("expected revenue=6500, got %f", got)
	}
	if got := counterValue(t, mfs, "order_status_transitions_total", map[string]string{"from": "new", "to": "processing"}); got != 1 {
		t.Fatalf("expected transition=1, got %f", got)
	}
	if got := gaugeValue(t, mfs, "orders_by_status", map[string]string{"status": "processing"}); got != 3 {
		t.Fatalf("expected gauge=3, got %f", got)
	}
}

func TestOrderMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *OrderMetrics
	metrics.ObserveCreated(100)
	metrics.ObserveTransition(enums.OrderStatusNew, enums.OrderStatusCancelled)
	metrics.SetStatusCount(enums.OrderStatusNew, 1)

	empty := NewOrderMetrics(nil)
	empty.ObserveCreated(100)
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	metric, err := findMetric(mfs, name, labels)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	metric, err := findMetric(mfs, name, labels)
	if err != nil {
		t.Fatalf("fetch %s: %v", name, err)
	}
	return metric.GetGauge().GetValue()
}

func findMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric, nil
			}
		}
	}
	return nil, fmt.Errorf("metric %q with labels %v not found", name, labels)
}

func matchesLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	for name, value := range labels {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

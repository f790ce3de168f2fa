package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/admin/store/product/", 200, 120*time.Millisecond)
	metrics.Observe("GET", "/admin/store/product/", 200, 80*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/admin/store/product/"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAdminMetricsCountsActionsAndRows(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAdminMetrics(reg)
	metrics.ObserveAction("product", "clear_inventory", 3)
	metrics.ObserveAction("product", "clear_inventory", 2)
	metrics.IncActionFailure("product", "delete_selected")
	metrics.IncChange("collection", "deletion")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "admin_actions_total", "action", "clear_inventory"); err != nil {
		t.Fatalf("fetch actions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected actions=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "admin_action_rows_total", "action", "clear_inventory"); err != nil {
		t.Fatalf("fetch rows: %v", err)
	} else if got != 5 {
		t.Fatalf("expected rows=5, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "admin_action_failures_total", "action", "delete_selected"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "admin_object_changes_total", "flag", "deletion"); err != nil {
		t.Fatalf("fetch changes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected changes=1, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewHTTPMetrics(nil).Observe("GET", "", 200, time.Millisecond)
	NewAdminMetrics(nil).ObserveAction("product", "clear_inventory", 1)

	var nilMetrics *AdminMetrics
	nilMetrics.IncChange("product", "addition")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

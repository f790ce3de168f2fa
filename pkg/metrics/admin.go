package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AdminMetrics records bulk actions and object changes made through the admin.
type AdminMetrics struct {
	actions  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	failures *prometheus.CounterVec
	changes  *prometheus.CounterVec
}

// NewAdminMetrics registers the admin metrics on the provided registerer.
func NewAdminMetrics(reg prometheus.Registerer) *AdminMetrics {
	if reg == nil {
		return &AdminMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_actions_total",
		Help: "Bulk actions executed from a changelist.",
	}, []string{"model", "action"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_action_rows_total",
		Help: "Rows affected by bulk actions.",
	}, []string{"model", "action"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_action_failures_total",
		Help: "Bulk actions that returned an error.",
	}, []string{"model", "action"})
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_object_changes_total",
		Help: "Objects added, changed or deleted through the admin.",
	}, []string{"model", "flag"})
	reg.MustRegister(actions, rows, failures, changes)
	return &AdminMetrics{
		actions:  actions,
		rows:     rows,
		failures: failures,
		changes:  changes,
	}
}

// ObserveAction records a successful bulk action and the rows it touched.
func (a *AdminMetrics) ObserveAction(model, action string, affected int64) {
	if a == nil || a.actions == nil {
		return
	}
	model, action = normalizeLabel(model), normalizeLabel(action)
	a.actions.WithLabelValues(model, action).Inc()
	if affected > 0 {
		a.rows.WithLabelValues(model, action).Add(float64(affected))
	}
}

// IncActionFailure increments the failure counter for a bulk action.
func (a *AdminMetrics) IncActionFailure(model, action string) {
	if a == nil || a.failures == nil {
		return
	}
	a.failures.WithLabelValues(normalizeLabel(model), normalizeLabel(action)).Inc()
}

// IncChange counts one logged add, change or deletion.
func (a *AdminMetrics) IncChange(model, flag string) {
	if a == nil || a.changes == nil {
		return
	}
	a.changes.WithLabelValues(normalizeLabel(model), normalizeLabel(flag)).Inc()
}

package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/metrics"
)

// Metrics records request counts and latencies labelled by the matched chi route.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.Observe(r.Method, routePattern(r), rec.Status(), time.Since(start))
		})
	}
}

package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("decode log line %q: %v", sc.Text(), err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestLoggingRecordsRouteStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/admin/store/product/{id}/", func(w http.ResponseWriter, r *http.Request) {
		logg.Info(r.Context(), "handler")
		_, _ = w.Write([]byte("hello"))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/store/product/7/", nil))

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("expected start, handler and complete lines, got %d", len(lines))
	}
	if lines[1]["path"] != "/admin/store/product/7/" {
		t.Fatalf("handler log missing request path: %v", lines[1])
	}
	done := lines[2]
	if done["message"] != "request.complete" || done["level"] != "info" {
		t.Fatalf("unexpected completion line %v", done)
	}
	if done["route"] != "/admin/store/product/{id}/" || done["status"] != float64(200) || done["bytes"] != float64(5) {
		t.Fatalf("unexpected completion fields %v", done)
	}
}

func TestLoggingWarnsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	lines := decodeLines(t, &buf)
	done := lines[len(lines)-1]
	if done["level"] != "warn" || done["status"] != float64(503) || done["route"] != "unmatched" {
		t.Fatalf("unexpected completion line %v", done)
	}
}

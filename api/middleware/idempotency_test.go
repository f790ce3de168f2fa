package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "fake:" + scope + ":" + id
}

func countingHandler(status int, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"data":{"affected":2}}`))
	})
}

func postWithKey(path, key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	return req.WithContext(WithStaffID(req.Context(), 4))
}

func TestReplayable(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/admin/store/product/", true},
		{http.MethodPost, "/admin/store/order/actions/", true},
		{http.MethodPost, "/admin/store/promotion/", false},
		{http.MethodPost, "/admin/store/product/7/", false},
		{http.MethodPut, "/admin/store/product/", false},
		{http.MethodPost, "/admin/login/", false},
	}
	for _, tc := range cases {
		if got := replayable(tc.method, tc.path); got != tc.want {
			t.Fatalf("replayable(%s %s) = %v, want %v", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeStore(), nil)(countingHandler(http.StatusOK, &calls))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), postWithKey("/admin/store/product/actions/", "", `{}`))
	}
	if calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", calls)
	}
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	calls := 0
	store := newFakeStore()
	handler := Idempotency(store, nil)(countingHandler(http.StatusOK, &calls))
	body := `{"action":"clear_inventory","ids":[1,2]}`

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postWithKey("/admin/store/product/actions/", "k1", body))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postWithKey("/admin/store/product/actions/", "k1", body))

	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}
	if second.Code != http.StatusOK || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed response, got %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get(replayedHeader) != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected stored content type, got %q", second.Header().Get("Content-Type"))
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeStore(), nil)(countingHandler(http.StatusCreated, &calls))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("/admin/store/collection/", "k2", `{"title":"Bakery"}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postWithKey("/admin/store/collection/", "k2", `{"title":"Dairy"}`))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	calls := 0
	store := newFakeStore()
	handler := Idempotency(store, nil)(countingHandler(http.StatusOK, &calls))

	req := postWithKey("/admin/store/order/actions/", "k3", `{}`)
	store.data[store.IdempotencyKey(idempotencyScope(req), "k3")] = inFlightMarker

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict || calls != 0 {
		t.Fatalf("expected 409 without handler call, got %d (calls=%d)", rec.Code, calls)
	}
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	calls := 0
	store := newFakeStore()
	handler := Idempotency(store, nil)(countingHandler(http.StatusBadRequest, &calls))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), postWithKey("/admin/store/customer/", "k4", `{}`))
	}
	if calls != 2 {
		t.Fatalf("expected failed request to be retried, got %d calls", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("expected no stored records, got %v", store.data)
	}
}

func TestIdempotencyScopesByStaff(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeStore(), nil)(countingHandler(http.StatusOK, &calls))

	handler.ServeHTTP(httptest.NewRecorder(), postWithKey("/admin/store/product/", "shared", `{}`))

	other := httptest.NewRequest(http.MethodPost, "/admin/store/product/", strings.NewReader(`{}`))
	other.Header.Set(idempotencyHeader, "shared")
	other = other.WithContext(WithStaffID(other.Context(), 5))
	handler.ServeHTTP(httptest.NewRecorder(), other)

	if calls != 2 {
		t.Fatalf("expected separate staff members not to share replays, got %d calls", calls)
	}
}

func TestIdempotencyDisabledWithoutStore(t *testing.T) {
	calls := 0
	handler := Idempotency(nil, nil)(countingHandler(http.StatusOK, &calls))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), postWithKey("/admin/store/product/", "k5", `{}`))
	}
	if calls != 2 {
		t.Fatalf("expected pass-through without redis, got %d calls", calls)
	}
}

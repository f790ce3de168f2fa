package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42")
	id, err := ParseIDParam(req, "id")
	if err != nil || id != 42 {
		t.Fatalf("expected 42 got %d (%v)", id, err)
	}

	for _, raw := range []string{"", "0", "-1", "abc"} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		if _, err := ParseIDParam(req, "id"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found for %q got %v", raw, err)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&bad=x&big=99", nil)

	if v, err := ParseQueryInt(req, "page", 1, 1, 10); err != nil || v != 3 {
		t.Fatalf("expected 3 got %d (%v)", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 1, 1, 10); err != nil || v != 1 {
		t.Fatalf("expected default 1 got %d (%v)", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
	if _, err := ParseQueryInt(req, "big", 1, 1, 10); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected range error got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-02-29 ", "birth_date")
	if err != nil || got == nil || got.Day() != 29 {
		t.Fatalf("expected leap day got %v (%v)", got, err)
	}
	if got, err := ParseDate("", "birth_date"); err != nil || got != nil {
		t.Fatalf("expected nil for blank input got %v (%v)", got, err)
	}
	if _, err := ParseDate("2023-02-29", "birth_date"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

type loginBody struct {
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"omitempty,min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	var dest loginBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ops@example.com","count":2}`))
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "ops@example.com" || dest.Count != 2 {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var dest loginBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ops@example.com","role":"admin"}`))
	if err := DecodeJSONBody(req, &dest); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	var dest loginBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details got %T", typed.Details())
	}
	if _, ok := details["email"]; !ok {
		t.Fatalf("expected email key in details got %v", details)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  héllo wörld ", 5); got != "héllo" {
		t.Fatalf("expected rune-safe truncation got %q", got)
	}
	if got := SanitizeString(" keep ", 0); got != "keep" {
		t.Fatalf("expected trimmed input got %q", got)
	}
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"trailing": `{"email":"ops@example.com"} {"email":"x@example.com"}`,
		"syntax":   `{"email":`,
		"type":     `{"email":"ops@example.com","count":"two"}`,
		"oversize": `{"email":"ops@example.com","pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var dest loginBody
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			if err := DecodeJSONBody(req, &dest); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error got %v", err)
			}
		})
	}
}

func TestDecodeJSONBodyNamesBadFields(t *testing.T) {
	var dest loginBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ops@example.com","count":"two"}`))
	details, _ := pkgerrors.As(DecodeJSONBody(req, &dest)).Details().(map[string]string)
	if details["count"] == "" {
		t.Fatalf("expected count detail got %v", details)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ops@example.com","role":"admin"}`))
	details, _ = pkgerrors.As(DecodeJSONBody(req, &dest)).Details().(map[string]string)
	if details["role"] != "is not allowed" {
		t.Fatalf("expected role detail got %v", details)
	}
}

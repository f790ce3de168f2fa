package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-admin/internal/staff"
	"github.com/angelmondragon/storefront-admin/pkg/auth"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

var testJWTConfig = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWTConfig, stubStaffChecker{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/store/product/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWTConfig, stubStaffChecker{}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/store/product/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	token := mintTestToken(t, 7, true)

	var staffID uint
	var superuser bool
	handler := Auth(testJWTConfig, stubStaffChecker{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID = StaffIDFromContext(r.Context())
		superuser = IsSuperuserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/store/product/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if staffID != 7 || !superuser {
		t.Fatalf("unexpected identity staff=%d superuser=%v", staffID, superuser)
	}
}

func TestAuthRejectsInactiveStaff(t *testing.T) {
	token := mintTestToken(t, 9, false)
	checker := stubStaffChecker{inactive: map[uint]bool{9: true}}
	handler := Auth(testJWTConfig, checker, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/store/product/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "inactive") {
		t.Fatalf("expected inactive message, got %s", resp.Body.String())
	}
}

func mintTestToken(t *testing.T, staffID uint, superuser bool) string {
	t.Helper()
	token, _, err := auth.MintAccessToken(testJWTConfig, time.Now(), auth.AccessTokenPayload{
		StaffID:     staffID,
		Email:       "ops@example.com",
		IsSuperuser: superuser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubStaffChecker struct {
	inactive map[uint]bool
}

func (s stubStaffChecker) Active(_ context.Context, id uint) (*staff.StaffDTO, error) {
	if s.inactive[id] {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff member is inactive")
	}
	return &staff.StaffDTO{ID: id}, nil
}

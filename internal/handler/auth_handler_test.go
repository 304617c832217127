package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meal-labels/internal/domain"
)

func TestAuthHandler_ValidateToken(t *testing.T) {
	h := NewAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil)
	user := &domain.SupabaseUser{ID: "user-1", Email: "cook@example.com"}
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, user))
	rr := httptest.NewRecorder()

	h.ValidateToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"id":"user-1","email":"cook@example.com"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestAuthHandler_ValidateTokenWithoutUser(t *testing.T) {
	rr := httptest.NewRecorder()
	NewAuthHandler().ValidateToken(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/validate", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

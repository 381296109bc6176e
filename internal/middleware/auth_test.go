package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ilgi/internal/auth"
	"ilgi/internal/logger"
	"ilgi/internal/models"
	"ilgi/internal/store"
)

type stubUsers struct {
	getFn func(ctx context.Context, externalID string) (models.User, error)
}

func (s stubUsers) GetByExternalID(ctx context.Context, externalID string) (models.User, error) {
	if s.getFn == nil {
		return models.User{ID: 1, ExternalID: externalID, Username: "alice"}, nil
	}
	return s.getFn(ctx, externalID)
}

func TestAuthenticateMissingHeaderIsAnonymous(t *testing.T) {
	called := false
	handler := Authenticate("secret", stubUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if CallerFromContext(r.Context()).Authenticated() {
			t.Fatalf("expected anonymous caller")
		}
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatalf("handler should be called")
	}
}

func TestAuthenticateInvalidHeader(t *testing.T) {
	handler := Authenticate("secret", stubUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	handler := Authenticate("secret", stubUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAuthenticateRefreshTokenRejected(t *testing.T) {
	token, err := auth.GenerateRefreshToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	handler := Authenticate("secret", stubUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	token, _ := auth.GenerateToken("secret", "user-1", time.Minute)
	users := stubUsers{getFn: func(context.Context, string) (models.User, error) {
		return models.User{}, store.ErrNotFound
	}}
	handler := Authenticate("secret", users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestAuthenticateLookupFailure(t *testing.T) {
	token, _ := auth.GenerateToken("secret", "user-1", time.Minute)
	users := stubUsers{getFn: func(context.Context, string) (models.User, error) {
		return models.User{}, errors.New("db down")
	}}
	handler := Authenticate("secret", users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	handler := Authenticate("secret", stubUsers{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if caller.ID != 1 || caller.ExternalID != "user-1" || caller.Username != "alice" {
			t.Fatalf("unexpected caller: %#v", caller)
		}
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "info"})
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/goals/", nil))
	out := buf.String()
	if !strings.Contains(out, "/api/v1/goals/") || !strings.Contains(out, "status=418") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

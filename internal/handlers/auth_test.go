package handlers

import (
	"context"
	"net/http"
	"testing"

	"ilgi/internal/auth"
	"ilgi/internal/models"
	"ilgi/internal/store"

	"github.com/lib/pq"
)

func TestRegisterSuccess(t *testing.T) {
	var audits []auditCall
	var createdEmail string
	stores := newTestStores()
	stores.Audit = stubAuditStore{calls: &audits}
	stores.Users = stubUserStore{
		createFn: func(_ context.Context, _ store.Getter, username, email, passwordHash string) (models.User, error) {
			createdEmail = email
			if !auth.CheckPassword(passwordHash, "pass1234") {
				t.Errorf("password stored without a matching hash")
			}
			return models.User{ID: 3, ExternalID: "u-3", Username: username, Email: email}, nil
		},
	}
	h := newTestHandler(fakeTxRunner{}, stores)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/register", `{"username":"carol","email":" Carol@Example.com ","password":"pass1234"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeJSON[map[string]string](t, rr.Body.String())
	claims, err := auth.ParseToken(testSecret, payload["access"])
	if err != nil || claims.UserID != "u-3" {
		t.Fatalf("unexpected access token: %v", err)
	}
	if _, err := auth.ParseRefreshToken(testSecret, payload["refresh"]); err != nil {
		t.Fatalf("unexpected refresh token: %v", err)
	}
	if createdEmail != "carol@example.com" {
		t.Fatalf("expected normalized email, got %q", createdEmail)
	}
	if len(audits) != 1 || audits[0].action != "register" || audits[0].actorID != 3 {
		t.Fatalf("unexpected audit calls: %+v", audits)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := newTestHandler(fakeTxRunner{}, newTestStores())

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/register", `{"username":"c","email":"nope","password":"short"}`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	payload := decodeJSON[map[string][]string](t, rr.Body.String())
	for _, field := range []string{"username", "email", "password"} {
		if len(payload[field]) != 1 {
			t.Fatalf("expected an error on %s, got %v", field, payload)
		}
	}
}

func TestRegisterDuplicateUser(t *testing.T) {
	stores := newTestStores()
	stores.Users = stubUserStore{
		createFn: func(context.Context, store.Getter, string, string, string) (models.User, error) {
			return models.User{}, &pq.Error{Code: "23505"}
		},
	}
	h := newTestHandler(fakeTxRunner{}, stores)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/register", `{"username":"alice","email":"alice@example.com","password":"pass1234"}`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestTokenExchange(t *testing.T) {
	hash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	var audits []auditCall
	stores := newTestStores()
	stores.Audit = stubAuditStore{calls: &audits}
	stores.Users = stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			if email != alice.Email {
				return models.User{}, store.ErrNotFound
			}
			user := alice
			user.PasswordHash = hash
			return user, nil
		},
	}
	h := newTestHandler(fakeTxRunner{}, stores)

	rr := serve(t, h, http.MethodPost, "/api/v1/auth/token", `{"email":"alice@example.com","password":"pass1234"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	payload := decodeJSON[map[string]string](t, rr.Body.String())
	if payload["access"] == "" || payload["refresh"] == "" {
		t.Fatalf("expected both tokens, got %v", payload)
	}
	if len(audits) != 1 || audits[0].action != "login" || audits[0].actorID != alice.ID {
		t.Fatalf("unexpected audit calls: %+v", audits)
	}

	for _, body := range []string{
		`{"email":"alice@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"pass1234"}`,
	} {
		if rr := serve(t, h, http.MethodPost, "/api/v1/auth/token", body, nil); rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for %s, got %d", body, rr.Code)
		}
	}

	rr = serve(t, h, http.MethodPost, "/api/v1/auth/token/refresh", `{"refresh":"`+payload["refresh"]+`"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on refresh, got %d", rr.Code)
	}
	refreshed := decodeJSON[map[string]string](t, rr.Body.String())
	if _, err := auth.ParseToken(testSecret, refreshed["access"]); err != nil {
		t.Fatalf("refreshed token invalid: %v", err)
	}

	rr = serve(t, h, http.MethodPost, "/api/v1/auth/token/refresh", `{"refresh":"`+payload["access"]+`"}`, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when refreshing with an access token, got %d", rr.Code)
	}
}

func TestMe(t *testing.T) {
	h := newTestHandler(fakeTxRunner{}, newTestStores())

	rr := serve(t, h, http.MethodGet, "/api/v1/users/me", "", &alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	payload := decodeJSON[map[string]string](t, rr.Body.String())
	if payload["id"] != alice.ExternalID || payload["username"] != "alice" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	if rr := serve(t, h, http.MethodGet, "/api/v1/users/me", "", nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous, got %d", rr.Code)
	}
}

func TestInvalidBearerTokenIsRefused(t *testing.T) {
	h := newTestHandler(fakeTxRunner{}, newTestStores())
	ghost := models.User{ExternalID: "deleted-user"}

	if rr := serve(t, h, http.MethodGet, "/api/v1/users/me", "", &ghost); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown user, got %d", rr.Code)
	}
}

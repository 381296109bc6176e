package handlers

import (
	"context"
	"net/http"
	"testing"

	"ilgi/internal/models"
	"ilgi/internal/store"

	"github.com/shopspring/decimal"
)

func TestHealth(t *testing.T) {
	h := newTestHandler(fakeTxRunner{}, newTestStores())

	rr := serve(t, h, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestEventsRequireToken(t *testing.T) {
	h := newTestHandler(fakeTxRunner{}, newTestStores())

	for _, path := range []string{"/ws/events", "/ws/events?token=garbage"} {
		if rr := serve(t, h, http.MethodGet, path, "", nil); rr.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, rr.Code)
		}
	}
}

func TestSelfCheck(t *testing.T) {
	stores := newTestStores()
	stores.Finance = stubFinanceStore{
		selfCheckFn: func(_ context.Context, ownerID int64) ([]store.AccountBalanceSummary, error) {
			if ownerID != alice.ID {
				t.Errorf("expected owner %d, got %d", alice.ID, ownerID)
			}
			return []store.AccountBalanceSummary{{
				ID:                "acc",
				Name:              "Wallet",
				StoredBalance:     decimal.RequireFromString("10.00"),
				CalculatedBalance: decimal.RequireFromString("7.50"),
				Difference:        decimal.RequireFromString("2.50"),
			}}, nil
		},
	}
	h := newTestHandler(fakeTxRunner{}, stores)

	if rr := serve(t, h, http.MethodGet, "/api/v1/finance/accounts/self-check", "", nil); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous, got %d", rr.Code)
	}
	rr := serve(t, h, http.MethodGet, "/api/v1/finance/accounts/self-check", "", &alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rows := decodeJSON[[]map[string]any](t, rr.Body.String())
	if len(rows) != 1 || rows[0]["difference"] != "2.5" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestAuditLogs(t *testing.T) {
	stores := newTestStores()
	stores.Audit = stubAuditStore{
		listFn: func(_ context.Context, actorID int64, limit, offset int) ([]models.AuditLog, int, error) {
			if actorID != bob.ID {
				t.Errorf("expected actor %d, got %d", bob.ID, actorID)
			}
			return []models.AuditLog{{ID: "log-1", Action: "create", Resource: "goals", Data: []byte(`{"label":"x"}`)}}, 1, nil
		},
	}
	h := newTestHandler(fakeTxRunner{}, stores)

	rr := serve(t, h, http.MethodGet, "/api/v1/audit-logs", "", &bob)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	page := decodeJSON[pageResponse[map[string]any]](t, rr.Body.String())
	if page.Count != 1 || page.Results[0]["action"] != "create" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"ilgi/internal/models"
)

func TestAuditStoreLog(t *testing.T) {
	ctx := context.Background()
	execer := stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO audit_logs") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[0] != int64(1) || args[1] != "create" || args[4] != "{}" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAuditStore(stubDB{})
	if err := store.Log(ctx, execer, 1, "create", "habits", "record-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditStoreListByActor(t *testing.T) {
	ctx := context.Background()
	store := NewAuditStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COUNT(*)") || args[0] != int64(2) {
				t.Fatalf("unexpected count query: %s %#v", query, args)
			}
			*dest.(*int) = 1
			return nil
		},
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE actor_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[1] != 10 || args[2] != 5 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.AuditLog) = []models.AuditLog{{ID: "log-1"}}
			return nil
		},
	})
	rows, count, err := store.ListByActor(ctx, 2, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(rows) != 1 || rows[0].ID != "log-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

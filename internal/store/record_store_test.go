package store

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"testing"

	"ilgi/internal/models"

	"github.com/google/uuid"
)

const habitLogID = "5b0f6f4e-5e0c-4a8a-9f59-3f3f2f3e6c11"

func TestRecordStoreListScopesToOwnerAndLiveRows(t *testing.T) {
	ctx := context.Background()
	var countQuery string
	store := NewRecordStore[models.HabitLog](stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			countQuery = query
			if len(args) != 2 || args[0] != int64(7) || args[1] != `%run\_fast%` {
				t.Fatalf("unexpected count args: %#v", args)
			}
			*dest.(*int) = 3
			return nil
		},
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			for _, fragment := range []string{
				"t.deleted = FALSE",
				"t.owner_id = $1",
				`t.remarks ILIKE $2 ESCAPE '\'`,
				"JOIN habits p ON p.id = t.habit_id AND p.deleted = FALSE",
				"ORDER BY t.created_at DESC, t.id DESC",
				"LIMIT $3 OFFSET $4",
			} {
				if !strings.Contains(query, fragment) {
					t.Fatalf("query missing %q: %s", fragment, query)
				}
			}
			if len(args) != 4 || args[2] != 2 || args[3] != 1 {
				t.Fatalf("unexpected args: %#v", args)
			}
			rows := dest.(*[]models.HabitLog)
			*rows = []models.HabitLog{{Base: models.Base{ExternalID: habitLogID}}}
			return nil
		},
	}, HabitLogs)

	conds, ok := HabitLogs.Conditions(url.Values{"remarks__icontains": {"run_fast"}, "unknown": {"x"}})
	if !ok || len(conds) != 1 {
		t.Fatalf("unexpected conditions: %#v %v", conds, ok)
	}
	rows, count, err := store.List(ctx, 7, conds, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 || len(rows) != 1 || rows[0].ExternalID != habitLogID {
		t.Fatalf("unexpected result: %d %#v", count, rows)
	}
	if !strings.Contains(countQuery, "SELECT COUNT(*)") {
		t.Fatalf("unexpected count query: %s", countQuery)
	}
}

func TestRecordStoreGetMalformedIDIsNotFound(t *testing.T) {
	store := NewRecordStore[models.Habit](stubDB{
		getFn: func(context.Context, any, string, ...any) error {
			t.Fatalf("store should not be queried")
			return nil
		},
	}, Habits)
	if _, err := store.Get(context.Background(), 1, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordStoreGetScopes(t *testing.T) {
	ctx := context.Background()
	var queries []string
	store := NewRecordStore[models.Habit](stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			queries = append(queries, query)
			return sql.ErrNoRows
		},
	}, Habits)

	if _, err := store.Get(ctx, 0, habitLogID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.GetAny(ctx, 4, habitLogID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if strings.Contains(queries[0], "t.owner_id = ") || !strings.Contains(queries[0], "t.deleted = FALSE") {
		t.Fatalf("unexpected unscoped query: %s", queries[0])
	}
	if !strings.Contains(queries[1], "t.owner_id = $1") || strings.Contains(queries[1], "t.deleted = FALSE") {
		t.Fatalf("unexpected owner query: %s", queries[1])
	}
}

func TestRecordStoreInsert(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore[models.CoffeeLog](stubDB{}, CoffeeLogs)
	tx := stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			want := `INSERT INTO coffee_logs (external_id, owner_id, "coffee_type_id", "quantity", "timestamp") VALUES ($1, $2, $3, $4, $5) RETURNING id`
			if query != want {
				t.Fatalf("unexpected query: %s", query)
			}
			if _, err := uuid.Parse(args[0].(string)); err != nil {
				t.Fatalf("expected a generated uuid, got %v", args[0])
			}
			if args[1] != int64(9) || args[2] != int64(12) {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int64) = 44
			return nil
		},
	}
	id, err := store.Insert(ctx, tx, 9, map[string]any{
		"timestamp":      "2024-01-01T00:00:00Z",
		"quantity":       "0.5",
		"coffee_type_id": int64(12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 44 {
		t.Fatalf("unexpected id: %d", id)
	}
}

func TestRecordStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore[models.Habit](stubDB{}, Habits)
	execer := stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			want := `UPDATE habits SET "discontinued_on" = COALESCE(discontinued_on, NOW()), "label" = $1, updated_at = NOW() WHERE id = $2`
			if query != want {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "Stretch" || args[1] != int64(3) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	err := store.Update(ctx, execer, 3, map[string]any{
		"label":           "Stretch",
		"discontinued_on": Expr("COALESCE(discontinued_on, NOW())"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordStoreSoftDelete(t *testing.T) {
	store := NewRecordStore[models.Goal](stubDB{}, Goals)
	execer := stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE goals SET deleted = TRUE, updated_at = NOW()") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	if err := store.SoftDelete(context.Background(), execer, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConditionsMalformedUUIDMatchesNothing(t *testing.T) {
	conds, ok := MilestoneRoutineRequirements.Conditions(url.Values{"completed_by_activity__exact": {"nope"}})
	if ok || len(conds) != 0 {
		t.Fatalf("expected an impossible filter, got %#v %v", conds, ok)
	}
	conds, ok = MilestoneRoutineRequirements.Conditions(url.Values{"completed_by_activity__exact": {habitLogID}})
	if !ok || len(conds) != 1 || conds[0].Filter.Expr != "l.external_id" {
		t.Fatalf("unexpected conditions: %#v %v", conds, ok)
	}
}

func TestContainsPatternEscapes(t *testing.T) {
	if got := containsPattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Fatalf("unexpected pattern: %s", got)
	}
}

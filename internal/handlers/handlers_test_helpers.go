package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ilgi/internal/auth"
	"ilgi/internal/config"
	"ilgi/internal/db"
	"ilgi/internal/logger"
	"ilgi/internal/models"
	"ilgi/internal/store"
	"ilgi/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const testSecret = "secret"

var (
	alice = models.User{ID: 1, ExternalID: "5b0e3a4c-8f1d-4c39-9a57-0d6c2f3e1a01", Username: "alice", Email: "alice@example.com"}
	bob   = models.User{ID: 2, ExternalID: "5b0e3a4c-8f1d-4c39-9a57-0d6c2f3e1a02", Username: "bob", Email: "bob@example.com"}
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Getter, username, email, passwordHash string) (models.User, error)
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Getter, username, email, passwordHash string) (models.User, error) {
	if s.createFn == nil {
		return models.User{}, nil
	}
	return s.createFn(ctx, tx, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, store.ErrNotFound
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByExternalID(_ context.Context, externalID string) (models.User, error) {
	for _, user := range []models.User{alice, bob} {
		if user.ExternalID == externalID {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

type auditCall struct {
	actorID  int64
	action   string
	resource string
	recordID string
	data     string
}

type stubAuditStore struct {
	calls  *[]auditCall
	listFn func(ctx context.Context, actorID int64, limit, offset int) ([]models.AuditLog, int, error)
}

func (s stubAuditStore) Log(_ context.Context, _ store.Execer, actorID int64, action, resource, recordID string, data []byte) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, auditCall{actorID: actorID, action: action, resource: resource, recordID: recordID, data: string(data)})
	}
	return nil
}

func (s stubAuditStore) ListByActor(ctx context.Context, actorID int64, limit, offset int) ([]models.AuditLog, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, actorID, limit, offset)
}

type stubCoffeeStore struct {
	quantitiesFn func(ctx context.Context, typeIDs []int64) (map[int64][]decimal.Decimal, error)
}

func (s stubCoffeeStore) Quantities(ctx context.Context, typeIDs []int64) (map[int64][]decimal.Decimal, error) {
	if s.quantitiesFn == nil {
		return map[int64][]decimal.Decimal{}, nil
	}
	return s.quantitiesFn(ctx, typeIDs)
}

type stubFinanceStore struct {
	selfCheckFn func(ctx context.Context, ownerID int64) ([]store.AccountBalanceSummary, error)
}

func (s stubFinanceStore) SelfCheck(ctx context.Context, ownerID int64) ([]store.AccountBalanceSummary, error) {
	if s.selfCheckFn == nil {
		return []store.AccountBalanceSummary{}, nil
	}
	return s.selfCheckFn(ctx, ownerID)
}

type stubReferences struct {
	resolveFn      func(ctx context.Context, table string, ownerID int64, externalID string) (int64, error)
	resolveChildFn func(ctx context.Context, table, parentColumn string, parentID, ownerID int64, externalID string) (int64, error)
}

func (s stubReferences) Resolve(ctx context.Context, _ store.Getter, table string, ownerID int64, externalID string) (int64, error) {
	if s.resolveFn == nil {
		return 0, store.ErrNotFound
	}
	return s.resolveFn(ctx, table, ownerID, externalID)
}

func (s stubReferences) ResolveChild(ctx context.Context, _ store.Getter, table, parentColumn string, parentID, ownerID int64, externalID string) (int64, error) {
	if s.resolveChildFn == nil {
		return 0, store.ErrNotFound
	}
	return s.resolveChildFn(ctx, table, parentColumn, parentID, ownerID, externalID)
}

type stubRecordStore[T models.Record] struct {
	table        store.Table
	listFn       func(ctx context.Context, ownerID int64, conds []store.Condition, limit, offset int) ([]T, int, error)
	getFn        func(ctx context.Context, ownerID int64, externalID string) (T, error)
	getAnyFn     func(ctx context.Context, ownerID int64, externalID string) (T, error)
	getByIDFn    func(ctx context.Context, id int64) (T, error)
	insertFn     func(ctx context.Context, ownerID int64, values map[string]any) (int64, error)
	updateFn     func(ctx context.Context, id int64, values map[string]any) error
	softDeleteFn func(ctx context.Context, id int64) error
}

func (s stubRecordStore[T]) Table() store.Table {
	return s.table
}

func (s stubRecordStore[T]) List(ctx context.Context, ownerID int64, conds []store.Condition, limit, offset int) ([]T, int, error) {
	if s.listFn == nil {
		return nil, 0, nil
	}
	return s.listFn(ctx, ownerID, conds, limit, offset)
}

func (s stubRecordStore[T]) Get(ctx context.Context, ownerID int64, externalID string) (T, error) {
	if s.getFn == nil {
		var zero T
		return zero, store.ErrNotFound
	}
	return s.getFn(ctx, ownerID, externalID)
}

func (s stubRecordStore[T]) GetAny(ctx context.Context, ownerID int64, externalID string) (T, error) {
	if s.getAnyFn == nil {
		return s.Get(ctx, ownerID, externalID)
	}
	return s.getAnyFn(ctx, ownerID, externalID)
}

func (s stubRecordStore[T]) GetByID(ctx context.Context, _ store.Getter, id int64) (T, error) {
	if s.getByIDFn == nil {
		var zero T
		return zero, store.ErrNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s stubRecordStore[T]) Insert(ctx context.Context, _ store.Getter, ownerID int64, values map[string]any) (int64, error) {
	if s.insertFn == nil {
		return 1, nil
	}
	return s.insertFn(ctx, ownerID, values)
}

func (s stubRecordStore[T]) Update(ctx context.Context, _ store.Execer, id int64, values map[string]any) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, id, values)
}

func (s stubRecordStore[T]) SoftDelete(ctx context.Context, _ store.Execer, id int64) error {
	if s.softDeleteFn == nil {
		return nil
	}
	return s.softDeleteFn(ctx, id)
}

func newTestStores() Stores {
	return Stores{
		Users:      stubUserStore{},
		Audit:      stubAuditStore{},
		Coffee:     stubCoffeeStore{},
		Finance:    stubFinanceStore{},
		References: stubReferences{},
	}
}

func newTestHandler(txRunner db.TxRunner, stores Stores) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      testSecret,
		TokenTTL:       time.Minute,
		RefreshTTL:     time.Hour,
		AllowedOrigins: "*",
		PageSize:       2,
		MaxPageSize:    10,
	}
	return New(txRunner, cfg, logger.Discard(), stores, websocket.NewHub())
}

// serve runs a request through the full router, authenticated as user when
// one is given.
func serve(t *testing.T, h *Handler, method, path, body string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := auth.GenerateToken(testSecret, user.ExternalID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}

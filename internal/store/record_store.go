package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"ilgi/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

// Expr is written into an UPDATE verbatim instead of being bound as a value.
type Expr string

// RecordStore runs the scoped queries shared by every journal resource.
// An ownerID of zero leaves a lookup unscoped; deleted rows are excluded
// unless a method says otherwise.
type RecordStore[T models.Record] struct {
	db    DB
	table Table
}

func NewRecordStore[T models.Record](db DB, table Table) *RecordStore[T] {
	return &RecordStore[T]{db: db, table: table}
}

func (s *RecordStore[T]) Table() Table {
	return s.table
}

type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) next() string {
	return "$" + strconv.Itoa(len(w.args)+1)
}

func (w *where) String() string {
	return strings.Join(w.clauses, " AND ")
}

func (s *RecordStore[T]) scope(ownerID int64, includeDeleted bool) *where {
	w := &where{}
	if !includeDeleted {
		w.raw("t.deleted = FALSE")
	}
	if ownerID != 0 {
		w.add("t.owner_id = ?", ownerID)
	}
	if len(w.clauses) == 0 {
		w.raw("TRUE")
	}
	return w
}

func (s *RecordStore[T]) List(ctx context.Context, ownerID int64, conds []Condition, limit, offset int) ([]T, int, error) {
	w := s.scope(ownerID, false)
	for _, c := range conds {
		switch c.Filter.Op {
		case Contains:
			w.add(c.Filter.Expr+` ILIKE ? ESCAPE '\'`, containsPattern(c.Value))
		case Exact:
			w.add(c.Filter.Expr+" = ?", c.Value)
		}
	}

	var count int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, s.table.from(), w)
	if err := s.db.GetContext(ctx, &count, countQuery, w.args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.table.Name, err)
	}

	limitParam := w.next()
	args := append(slices.Clone(w.args), limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT %s OFFSET $%d
	`, s.table.selectList(), s.table.from(), w, limitParam, len(args))
	rows := []T{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", s.table.Name, err)
	}
	return rows, count, nil
}

// Get loads a live record by external id.
func (s *RecordStore[T]) Get(ctx context.Context, ownerID int64, externalID string) (T, error) {
	return s.getByExternalID(ctx, ownerID, externalID, false)
}

// GetAny is Get including soft-deleted rows, so deletes can be repeated.
func (s *RecordStore[T]) GetAny(ctx context.Context, ownerID int64, externalID string) (T, error) {
	return s.getByExternalID(ctx, ownerID, externalID, true)
}

func (s *RecordStore[T]) getByExternalID(ctx context.Context, ownerID int64, externalID string, includeDeleted bool) (T, error) {
	var row T
	if _, err := uuid.Parse(externalID); err != nil {
		return row, ErrNotFound
	}
	w := s.scope(ownerID, includeDeleted)
	w.add("t.external_id = ?", externalID)
	return s.get(ctx, s.db, w)
}

// GetByID reads a record through q, typically the transaction that wrote it.
func (s *RecordStore[T]) GetByID(ctx context.Context, q Getter, id int64) (T, error) {
	w := &where{}
	w.add("t.id = ?", id)
	return s.get(ctx, q, w)
}

func (s *RecordStore[T]) get(ctx context.Context, q Getter, w *where) (T, error) {
	var row T
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, s.table.selectList(), s.table.from(), w)
	if err := q.GetContext(ctx, &row, query, w.args...); err != nil {
		return row, notFound(err)
	}
	return row, nil
}

func (s *RecordStore[T]) Insert(ctx context.Context, tx Getter, ownerID int64, values map[string]any) (int64, error) {
	keys := lo.Keys(values)
	slices.Sort(keys)

	columns := []string{"external_id", "owner_id"}
	args := []any{uuid.NewString(), ownerID}
	for _, key := range keys {
		columns = append(columns, pq.QuoteIdentifier(key))
		args = append(args, values[key])
	}
	placeholders := lo.Times(len(args), func(i int) string {
		return "$" + strconv.Itoa(i+1)
	})

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		s.table.Name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", s.table.Name, err)
	}
	return id, nil
}

// Update writes the given columns and refreshes updated_at.
func (s *RecordStore[T]) Update(ctx context.Context, tx Execer, id int64, values map[string]any) error {
	keys := lo.Keys(values)
	slices.Sort(keys)

	var (
		sets []string
		args []any
	)
	for _, key := range keys {
		if expr, ok := values[key].(Expr); ok {
			sets = append(sets, pq.QuoteIdentifier(key)+" = "+string(expr))
			continue
		}
		args = append(args, values[key])
		sets = append(sets, pq.QuoteIdentifier(key)+" = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`, s.table.Name, strings.Join(sets, ", "), len(args))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", s.table.Name, err)
	}
	return nil
}

func (s *RecordStore[T]) SoftDelete(ctx context.Context, tx Execer, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE`, s.table.Name)
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.table.Name, err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ResolveReference finds the internal id of a live record the owner holds.
func ResolveReference(ctx context.Context, q Getter, table string, ownerID int64, externalID string) (int64, error) {
	if _, err := uuid.Parse(externalID); err != nil {
		return 0, ErrNotFound
	}
	var id int64
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE external_id = $1 AND owner_id = $2 AND deleted = FALSE
	`, pq.QuoteIdentifier(table))
	if err := q.GetContext(ctx, &id, query, externalID, ownerID); err != nil {
		return 0, notFound(err)
	}
	return id, nil
}

// ResolveChild is ResolveReference restricted to rows whose parentColumn
// points at parentID.
func ResolveChild(ctx context.Context, q Getter, table, parentColumn string, parentID, ownerID int64, externalID string) (int64, error) {
	if _, err := uuid.Parse(externalID); err != nil {
		return 0, ErrNotFound
	}
	var id int64
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE external_id = $1 AND owner_id = $2 AND deleted = FALSE AND %s = $3
	`, pq.QuoteIdentifier(table), pq.QuoteIdentifier(parentColumn))
	if err := q.GetContext(ctx, &id, query, externalID, ownerID, parentID); err != nil {
		return 0, notFound(err)
	}
	return id, nil
}

// ReferenceStore exposes the resolvers behind an interface handlers can stub.
type ReferenceStore struct{}

func (ReferenceStore) Resolve(ctx context.Context, q Getter, table string, ownerID int64, externalID string) (int64, error) {
	return ResolveReference(ctx, q, table, ownerID, externalID)
}

func (ReferenceStore) ResolveChild(ctx context.Context, q Getter, table, parentColumn string, parentID, ownerID int64, externalID string) (int64, error) {
	return ResolveChild(ctx, q, table, parentColumn, parentID, ownerID, externalID)
}

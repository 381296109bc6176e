package store

import (
	"context"

	"ilgi/internal/models"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID int64, action, resource, recordID string, data []byte) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (actor_id, action, resource, record_id, data)
		VALUES ($1, $2, $3, $4, $5)
	`, actorID, action, resource, recordID, string(data))
	return err
}

func (s *AuditStore) ListByActor(ctx context.Context, actorID int64, limit, offset int) ([]models.AuditLog, int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM audit_logs WHERE actor_id = $1`, actorID); err != nil {
		return nil, 0, err
	}
	rows := []models.AuditLog{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT external_id, action, resource, record_id, data, created_at
		FROM audit_logs
		WHERE actor_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, actorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

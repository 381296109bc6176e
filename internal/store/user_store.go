package store

import (
	"context"

	"ilgi/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

const userColumnList = `id, external_id, username, email, password_hash, created_at`

func (s *UserStore) Create(ctx context.Context, tx Getter, username, email, passwordHash string) (models.User, error) {
	var user models.User
	err := tx.GetContext(ctx, &user, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumnList, username, email, passwordHash)
	return user, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumnList+` FROM users WHERE email = $1`, email)
	return user, notFound(err)
}

func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumnList+` FROM users WHERE external_id::text = $1`, externalID)
	return user, notFound(err)
}

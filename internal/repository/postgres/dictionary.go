package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DictionaryRepository looks up blocked-password digests. Entries are
// SHA-256 hex digests so plaintext never reaches the database.
type DictionaryRepository interface {
	Contains(ctx context.Context, digest string) (bool, error)
}

type dictionaryRepository struct {
	db *sqlx.DB
}

func NewDictionaryRepository(db *sqlx.DB) DictionaryRepository {
	return &dictionaryRepository{db: db}
}

func (r *dictionaryRepository) Contains(ctx context.Context, digest string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM blocked_passwords WHERE digest = $1)`
	if err := r.db.GetContext(ctx, &exists, query, digest); err != nil {
		return false, fmt.Errorf("failed to query blocked passwords: %w", err)
	}
	return exists, nil
}

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (DictionaryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDictionaryRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestDictionaryRepositoryContains(t *testing.T) {
	ctx := context.Background()
	digest := "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

	t.Run("present digest", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM blocked_passwords WHERE digest = \$1\)`).
			WithArgs(digest).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		found, err := repo.Contains(ctx, digest)
		require.NoError(t, err)
		assert.True(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent digest", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(digest).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		found, err := repo.Contains(ctx, digest)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(digest).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Contains(ctx, digest)
		assert.Error(t, err)
	})
}

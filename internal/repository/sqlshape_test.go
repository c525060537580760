package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The sqlite-backed tests prove behavior; these prove the exact statements
// sent to Postgres, where the conflict-target syntax matters.

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestFollowInsertUsesConflictTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectExec(`INSERT INTO follows \(follower_id, followee_id, created_at\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(follower_id, followee_id\) DO NOTHING`).
		WithArgs(1, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Follow(context.Background(), 1, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeInsertUsesConflictTarget(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`INSERT INTO likes \(user_id, post_id, created_at\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(user_id, post_id\) DO NOTHING`).
		WithArgs(7, 9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Like(context.Background(), 7, 9))
	require.NoError(t, mock.ExpectationsWereMet())
}

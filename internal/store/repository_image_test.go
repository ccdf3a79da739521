package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:     db,
		logger: logger.Nop(),
	}
}

func newTestImageRepo(t *testing.T, db *sql.DB) ImageRepository {
	t.Helper()
	return NewImageRepository(newDBFromSQL(db), logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var imageColumns = []string{"id", "data", "timestamp"}

func TestImageRepository_Add(t *testing.T) {
	img := models.Image{ID: "abc123", Data: "data:image/jpeg;base64,xyz", Timestamp: 1700000000000}

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT OR IGNORE INTO images")).
			WithArgs(img.ID, img.Data, img.Timestamp).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		id, err := repo.Add(testContext(), img)
		require.NoError(t, err)
		assert.Equal(t, img.ID, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate content is ignored but still succeeds", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT OR IGNORE INTO images")).
			WithArgs(img.ID, img.Data, img.Timestamp).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		id, err := repo.Add(testContext(), img)
		require.NoError(t, err)
		assert.Equal(t, img.ID, id)
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin().WillReturnError(errors.New("db closed"))

		_, err := repo.Add(testContext(), img)
		require.ErrorIs(t, err, ErrBeginningTransaction)
	})

	t.Run("exec error rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT OR IGNORE INTO images")).
			WithArgs(img.ID, img.Data, img.Timestamp).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := repo.Add(testContext(), img)
		require.ErrorIs(t, err, ErrExecutingStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT OR IGNORE INTO images")).
			WithArgs(img.ID, img.Data, img.Timestamp).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := repo.Add(testContext(), img)
		require.ErrorIs(t, err, ErrCommitingTransaction)
	})
}

func TestImageRepository_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM images")).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows(imageColumns).
				AddRow("abc123", "data:image/jpeg;base64,xyz", int64(1700000000000)))

		img, err := repo.Get(testContext(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", img.ID)
		assert.Equal(t, "data:image/jpeg;base64,xyz", img.Data)
		assert.Equal(t, int64(1700000000000), img.Timestamp)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM images")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(imageColumns))

		_, err := repo.Get(testContext(), "missing")
		require.ErrorIs(t, err, ErrImageNotFound)
	})

	t.Run("scan error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM images")).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows(imageColumns).
				AddRow("abc123", "payload", "not-a-number"))

		_, err := repo.Get(testContext(), "abc123")
		require.ErrorIs(t, err, ErrScanningRow)
	})
}

func TestImageRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM images")).
			WithArgs("abc123").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.Delete(testContext(), "abc123")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("no row matched", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM images")).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		deleted, err := repo.Delete(testContext(), "missing")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("exec error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestImageRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM images")).
			WithArgs("abc123").
			WillReturnError(errors.New("locked"))
		mock.ExpectRollback()

		_, err := repo.Delete(testContext(), "abc123")
		require.ErrorIs(t, err, ErrExecutingStatement)
	})
}

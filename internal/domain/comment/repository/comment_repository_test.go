package repository

import (
	"context"
	"testing"

	"blog_api/internal/domain/comment/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestCommentRepository_DeleteSubtree(t *testing.T) {
	t.Run("deletes whole subtree", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`WITH RECURSIVE subtree AS .+ DELETE FROM comments WHERE id IN \(SELECT id FROM subtree\)`).
			WithArgs("c1").
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := NewCommentRepository(db).DeleteSubtree(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing comment", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`WITH RECURSIVE subtree`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := NewCommentRepository(db).DeleteSubtree(context.Background(), "nope")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestCommentRepository_ListApprovedRoots(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE post_id = .+ AND parent_id IS NULL AND status = .+ ORDER BY created_at desc`).
		WithArgs("p1", model.StatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "status"}).
			AddRow("c2", "p1", "APPROVED").
			AddRow("c1", "p1", "APPROVED"))

	roots, err := NewCommentRepository(db).ListApprovedRoots(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "c2", roots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListApprovedReplies(t *testing.T) {
	t.Run("batched lookup", func(t *testing.T) {
		db, mock := newMockDB(t)
		parentID := "c1"
		mock.ExpectQuery(`SELECT \* FROM "comments" WHERE parent_id IN \(.+,.+\) AND status = .+ ORDER BY created_at asc`).
			WithArgs("c1", "c2", model.StatusApproved).
			WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id"}).AddRow("r1", parentID))

		replies, err := NewCommentRepository(db).ListApprovedReplies(context.Background(), []string{"c1", "c2"})
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, &parentID, replies[0].ParentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no parents no query", func(t *testing.T) {
		db, mock := newMockDB(t)
		replies, err := NewCommentRepository(db).ListApprovedReplies(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, replies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_PostExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE id = .+`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := NewCommentRepository(db).PostExists(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommentRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	status := model.StatusRejected

	mock.ExpectExec(`UPDATE "comments" SET "status"=.+,"updated_at"=.+ WHERE id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := NewCommentRepository(db).Update(context.Background(), "c1", &model.CommentPatch{Status: &status})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

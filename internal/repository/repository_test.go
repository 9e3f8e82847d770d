package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database.Wrap(sqlDB, zerolog.Nop()), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func existsRows(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

var articleCols = []string{"article_id", "title", "body", "author", "topic", "created_at", "votes", "comment_count"}
var commentCols = []string{"comment_id", "article_id", "author", "body", "votes", "created_at"}

func TestSortColumns_OrderBy(t *testing.T) {
	tests := []struct {
		name    string
		cols    sortColumns
		page    models.Page
		want    string
		wantErr error
	}{
		{
			name: "default article order adds tie break",
			cols: articleSort,
			page: models.DefaultPageOptions(),
			want: "ORDER BY a.created_at DESC, a.article_id ASC",
		},
		{
			name: "sorting by the tie key adds nothing",
			cols: articleSort,
			page: models.Page{SortBy: "article_id", Order: models.OrderAsc},
			want: "ORDER BY a.article_id ASC",
		},
		{
			name: "comment_count uses the aggregate alias",
			cols: articleSort,
			page: models.Page{SortBy: "comment_count", Order: models.OrderDesc},
			want: "ORDER BY comment_count DESC, a.article_id ASC",
		},
		{
			name: "comment votes",
			cols: commentSort,
			page: models.Page{SortBy: "votes", Order: models.OrderAsc},
			want: "ORDER BY c.votes ASC, c.comment_id ASC",
		},
		{
			name:    "unknown column",
			cols:    articleSort,
			page:    models.Page{SortBy: "title; DROP TABLE articles", Order: models.OrderAsc},
			wantErr: models.ErrInvalidSortBy,
		},
		{
			name:    "comments have no title",
			cols:    commentSort,
			page:    models.Page{SortBy: "title", Order: models.OrderAsc},
			wantErr: models.ErrInvalidSortBy,
		},
		{
			name:    "order is case sensitive",
			cols:    articleSort,
			page:    models.Page{SortBy: "votes", Order: "DESC"},
			wantErr: models.ErrInvalidOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cols.orderBy(tt.page)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryBuilder(t *testing.T) {
	var b queryBuilder
	b.where("a.author", "")
	assert.Empty(t, b.whereClause())

	b.where("a.author", "rogersop")
	b.where("a.topic", "cats")
	assert.Equal(t, "WHERE a.author = $1 AND a.topic = $2", b.whereClause())

	limit := b.paginate(models.Page{Limit: 10, Offset: 20})
	assert.Equal(t, "LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []interface{}{"rogersop", "cats", 10, 20}, b.args)
}

func TestArticleRepo_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepo(db)

	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)")).
		WithArgs("butter_bridge").WillReturnRows(existsRows(true))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM topics WHERE slug = $1)")).
		WithArgs("mitch").WillReturnRows(existsRows(true))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM articles a WHERE a.author = $1 AND a.topic = $2")).
		WithArgs("butter_bridge", "mitch").WillReturnRows(countRows(3))
	mock.ExpectQuery(`ORDER BY a\.votes ASC, a\.article_id ASC\s+LIMIT \$3 OFFSET \$4`).
		WithArgs("butter_bridge", "mitch", 2, 2).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(int64(9), "They're not exactly dogs, are they?", "Well?", "butter_bridge", "mitch", fixtureTime, int64(0), 2))

	query := models.ArticleQuery{
		Page:   models.Page{SortBy: "votes", Order: models.OrderAsc, Limit: 2, Offset: 2},
		Author: "butter_bridge",
		Topic:  "mitch",
	}
	articles, total, err := repo.List(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, articles, 1)
	assert.Equal(t, int64(9), articles[0].ID)
	assert.Equal(t, 2, articles[0].CommentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_List_NoFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepo(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM articles a")).
		WillReturnRows(countRows(0))
	mock.ExpectQuery(`LEFT JOIN comments c ON c\.article_id = a\.article_id\s+GROUP BY a\.article_id\s+ORDER BY a\.created_at DESC, a\.article_id ASC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(articleCols))

	articles, total, err := repo.List(context.Background(), models.ArticleQuery{Page: models.DefaultPageOptions()})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_List_UnknownFilters(t *testing.T) {
	t.Run("author", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("FROM users")).WithArgs("jimbo").WillReturnRows(existsRows(false))

		_, _, err := NewArticleRepo(db).List(context.Background(), models.ArticleQuery{
			Page:   models.DefaultPageOptions(),
			Author: "jimbo",
		})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("topic", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("FROM topics")).WithArgs("bananas").WillReturnRows(existsRows(false))

		_, _, err := NewArticleRepo(db).List(context.Background(), models.ArticleQuery{
			Page:  models.DefaultPageOptions(),
			Topic: "bananas",
		})
		assert.ErrorIs(t, err, models.ErrTopicNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArticleRepo_List_FilterCheckFails(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM topics WHERE slug = $1)")).
		WithArgs("mitch").WillReturnError(errors.New("connection reset"))

	_, _, err := NewArticleRepo(db).List(context.Background(), models.ArticleQuery{
		Page:  models.DefaultPageOptions(),
		Topic: "mitch",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check filter value")
	assert.Zero(t, models.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM topics WHERE slug = $1)")).
		WithArgs("cats").WillReturnRows(existsRows(true))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)")).
		WithArgs("jimbo").WillReturnRows(existsRows(false))
	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM articles WHERE article_id = $1)")).
		WithArgs(int64(3000000000)).WillReturnRows(existsRows(false))

	ok, err := NewTopicRepo(db).Exists(ctx, "cats")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewUserRepo(db).Exists(ctx, "jimbo")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewArticleRepo(db).Exists(ctx, 3000000000)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepo(db)

	mock.ExpectQuery(q("WHERE a.article_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(int64(1), "Living in the shadow of a great man", "I find this existence challenging",
				"butter_bridge", "mitch", fixtureTime, int64(100), 13))
	mock.ExpectQuery(q("WHERE a.article_id = $1")).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(articleCols))

	article, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), article.Votes)
	assert.Equal(t, 13, article.CommentCount)

	_, err = repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrArticleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_UpdateVotes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepo(db)

	mock.ExpectQuery(q("UPDATE articles SET votes = votes + $1")).
		WithArgs(int64(-50), int64(1)).
		WillReturnRows(sqlmock.NewRows(articleCols).
			AddRow(int64(1), "Living in the shadow of a great man", "I find this existence challenging",
				"butter_bridge", "mitch", fixtureTime, int64(50), 13))
	mock.ExpectQuery(q("UPDATE articles SET votes = votes + $1")).
		WithArgs(int64(1), int64(999)).
		WillReturnRows(sqlmock.NewRows(articleCols))

	article, err := repo.UpdateVotes(context.Background(), 1, -50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), article.Votes)

	_, err = repo.UpdateVotes(context.Background(), 999, 1)
	assert.ErrorIs(t, err, models.ErrArticleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_BatchInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArticleRepo(db)

	articles := []*models.Article{
		{ID: 1, Title: "one", Body: "b", Author: "butter_bridge", Topic: "mitch", CreatedAt: fixtureTime, Votes: 100},
		{ID: 2, Title: "two", Body: "b", Author: "icellusedkars", Topic: "mitch", CreatedAt: fixtureTime},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`COPY "articles"`)
	for _, a := range articles {
		prep.ExpectExec().
			WithArgs(a.ID, a.Title, a.Body, a.Votes, a.Topic, a.Author, a.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("SELECT setval(pg_get_serial_sequence('articles', 'article_id')")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, err := repo.BatchInsert(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_ListByArticle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectQuery(q("SELECT EXISTS(SELECT 1 FROM articles WHERE article_id = $1)")).
		WithArgs(int64(1)).WillReturnRows(existsRows(true))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM comments c WHERE c.article_id = $1")).
		WithArgs(int64(1)).WillReturnRows(countRows(13))
	mock.ExpectQuery(q("ORDER BY c.created_at DESC, c.comment_id ASC LIMIT $2 OFFSET $3")).
		WithArgs(int64(1), 10, 10).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(int64(12), int64(1), "icellusedkars", "Massive intercranial brain haemorrhage", int64(0), fixtureTime).
			AddRow(int64(13), int64(1), "icellusedkars", "Fruit pastilles", int64(0), fixtureTime).
			AddRow(int64(14), int64(1), "butter_bridge", "What do you see? I have no idea", int64(16), fixtureTime))

	comments, total, err := repo.ListByArticle(context.Background(), models.CommentQuery{
		Page:      models.Page{SortBy: "created_at", Order: models.OrderDesc, Limit: 10, Offset: 10},
		ArticleID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	assert.Len(t, comments, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_ListByArticle_Missing(t *testing.T) {
	t.Run("article", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("FROM articles")).WithArgs(int64(999)).WillReturnRows(existsRows(false))

		_, _, err := NewCommentRepo(db).ListByArticle(context.Background(), models.CommentQuery{
			Page:      models.DefaultPageOptions(),
			ArticleID: 999,
		})
		assert.ErrorIs(t, err, models.ErrArticleNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("author", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("FROM articles")).WithArgs(int64(1)).WillReturnRows(existsRows(true))
		mock.ExpectQuery(q("FROM users")).WithArgs("jimbo").WillReturnRows(existsRows(false))

		_, _, err := NewCommentRepo(db).ListByArticle(context.Background(), models.CommentQuery{
			Page:      models.DefaultPageOptions(),
			ArticleID: 1,
			Author:    "jimbo",
		})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectQuery(q("INSERT INTO comments (article_id, author, body)")).
		WithArgs(int64(1), "butter_bridge", "first!").
		WillReturnRows(sqlmock.NewRows([]string{"comment_id", "votes", "created_at"}).
			AddRow(int64(19), int64(0), fixtureTime))

	comment := &models.Comment{ArticleID: 1, Author: "butter_bridge", Body: "first!"}
	require.NoError(t, repo.Create(context.Background(), comment))
	assert.Equal(t, int64(19), comment.ID)
	assert.Equal(t, fixtureTime, comment.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_Create_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"unknown author", "comments_author_fkey", models.ErrUnprocessable},
		{"unknown article", "comments_article_id_fkey", models.ErrArticleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(q("INSERT INTO comments")).
				WillReturnError(&pq.Error{Code: "23503", Constraint: tt.constraint})

			err := NewCommentRepo(db).Create(context.Background(), &models.Comment{ArticleID: 1, Author: "Thanh", Body: "x"})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCommentRepo_UpdateVotes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectQuery(q("UPDATE comments c SET votes = c.votes + $1")).
		WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(int64(1), int64(9), "butter_bridge", "Oh, I've got compassion running out of my nose", int64(17), fixtureTime))
	mock.ExpectQuery(q("UPDATE comments c SET votes = c.votes + $1")).
		WithArgs(int64(1), int64(999)).
		WillReturnRows(sqlmock.NewRows(commentCols))

	comment, err := repo.UpdateVotes(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(17), comment.Votes)

	_, err = repo.UpdateVotes(context.Background(), 999, 1)
	assert.ErrorIs(t, err, models.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectExec(q("DELETE FROM comments WHERE comment_id = $1")).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM comments WHERE comment_id = $1")).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1), models.ErrCommentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(q("FROM users WHERE username = $1")).
		WithArgs("lurker").
		WillReturnRows(sqlmock.NewRows([]string{"username", "name", "avatar_url"}).
			AddRow("lurker", "do_nothing", "https://example.com/lurker.png"))
	mock.ExpectQuery(q("FROM users WHERE username = $1")).
		WithArgs("jimbo").
		WillReturnRows(sqlmock.NewRows([]string{"username", "name", "avatar_url"}))

	user, err := repo.GetByUsername(context.Background(), "lurker")
	require.NoError(t, err)
	assert.Equal(t, "do_nothing", user.Name)

	_, err = repo.GetByUsername(context.Background(), "jimbo")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepo_List(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("SELECT slug, description FROM topics ORDER BY slug")).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "description"}).
			AddRow("cats", "Not dogs").
			AddRow("mitch", "The man, the Mitch, the legend"))

	topics, err := NewTopicRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "cats", topics[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, translateError(plain))

	unique := &pq.Error{Code: "23505"}
	assert.Same(t, error(unique), translateError(unique))

	assert.Equal(t, models.KindForeignKeyViolation, models.KindOf(translateError(&pq.Error{Code: "23503"})))
}

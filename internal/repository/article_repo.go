package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

// articleColumns selects an article with its comment count; callers supply
// the LEFT JOIN on comments and GROUP BY a.article_id
const articleColumns = `
	a.article_id, a.title, a.body, a.author, a.topic, a.created_at, a.votes,
	COUNT(c.comment_id)::INT AS comment_count`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db     *database.DB
	users  UserRepository
	topics TopicRepository
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db, users: NewUserRepo(db), topics: NewTopicRepo(db)}
}

// List returns the requested page of articles matching the author and topic
// filters, along with the number of matching articles before pagination.
// An unknown author or topic is reported as not found rather than an empty page.
func (r *articleRepo) List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error) {
	if q.Author != "" {
		if err := requireExists(ctx, r.users.Exists, q.Author, models.ErrUserNotFound); err != nil {
			return nil, 0, err
		}
	}
	if q.Topic != "" {
		if err := requireExists(ctx, r.topics.Exists, q.Topic, models.ErrTopicNotFound); err != nil {
			return nil, 0, err
		}
	}

	orderBy, err := articleSort.orderBy(q.Page)
	if err != nil {
		return nil, 0, err
	}

	var b queryBuilder
	b.where("a.author", q.Author)
	b.where("a.topic", q.Topic)
	where := b.whereClause()

	// Count total matching records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM articles a %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	// Query with pagination
	limit := b.paginate(q.Page)
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		%s
		GROUP BY a.article_id
		%s
		%s`,
		articleColumns, where, orderBy, limit)

	rows, err := r.db.QueryContext(ctx, selectQuery, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, total, nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		WHERE a.article_id = $1
		GROUP BY a.article_id`, articleColumns)

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// UpdateVotes adds delta to the article's votes in a single statement and
// returns the updated article
func (r *articleRepo) UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Article, error) {
	query := `
		WITH updated AS (
			UPDATE articles SET votes = votes + $1
			WHERE article_id = $2
			RETURNING article_id, title, body, author, topic, created_at, votes
		)
		SELECT u.article_id, u.title, u.body, u.author, u.topic, u.created_at, u.votes,
			(SELECT COUNT(*)::INT FROM comments c WHERE c.article_id = u.article_id) AS comment_count
		FROM updated u`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, delta, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update article votes: %w", err)
	}
	return article, nil
}

// Exists checks if an article with the given ID exists
func (r *articleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE article_id = $1)", id).Scan(&exists)
	return exists, err
}

// BatchInsert inserts multiple articles using PostgreSQL COPY, keeping their
// IDs, then moves the id sequence past the highest inserted ID
func (r *articleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles",
		"article_id", "title", "body", "votes", "topic", "author", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, article := range articles {
		_, err := stmt.ExecContext(ctx,
			article.ID, article.Title, article.Body, article.Votes,
			article.Topic, article.Author, article.CreatedAt,
		)
		if err != nil {
			continue
		}
		inserted++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, translateError(err)
	}

	if _, err := tx.ExecContext(ctx,
		"SELECT setval(pg_get_serial_sequence('articles', 'article_id'), GREATEST(MAX(article_id), 1)) FROM articles",
	); err != nil {
		return 0, fmt.Errorf("failed to sync article id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// requireExists runs an existence check and returns notFound when it is false
func requireExists[K any](ctx context.Context, exists func(context.Context, K) (bool, error), key K, notFound error) error {
	ok, err := exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check filter value: %w", err)
	}
	if !ok {
		return notFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID, &article.Title, &article.Body, &article.Author, &article.Topic,
		&article.CreatedAt, &article.Votes, &article.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

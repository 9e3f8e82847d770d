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

const commentColumns = "c.comment_id, c.article_id, c.author, c.body, c.votes, c.created_at"

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db       *database.DB
	articles ArticleRepository
	users    UserRepository
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db, articles: NewArticleRepo(db), users: NewUserRepo(db)}
}

// ListByArticle returns the requested page of an article's comments and the
// number of matching comments before pagination. A missing article or an
// unknown author filter is reported as not found.
func (r *commentRepo) ListByArticle(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error) {
	if err := requireExists(ctx, r.articles.Exists, q.ArticleID, models.ErrArticleNotFound); err != nil {
		return nil, 0, err
	}
	if q.Author != "" {
		if err := requireExists(ctx, r.users.Exists, q.Author, models.ErrUserNotFound); err != nil {
			return nil, 0, err
		}
	}

	orderBy, err := commentSort.orderBy(q.Page)
	if err != nil {
		return nil, 0, err
	}

	var b queryBuilder
	b.where("c.article_id", q.ArticleID)
	b.where("c.author", q.Author)
	where := b.whereClause()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM comments c %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	limit := b.paginate(q.Page)
	selectQuery := fmt.Sprintf("SELECT %s FROM comments c %s %s %s", commentColumns, where, orderBy, limit)

	rows, err := r.db.QueryContext(ctx, selectQuery, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, total, nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM comments c WHERE c.comment_id = $1", commentColumns)

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// Create inserts a new comment and fills in its generated ID, votes and timestamp
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING comment_id, votes, created_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.ArticleID, comment.Author, comment.Body).
		Scan(&comment.ID, &comment.Votes, &comment.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateVotes adds delta to the comment's votes in a single statement and
// returns the updated comment
func (r *commentRepo) UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Comment, error) {
	query := `
		UPDATE comments c SET votes = c.votes + $1
		WHERE c.comment_id = $2
		RETURNING ` + commentColumns

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, delta, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment votes: %w", err)
	}
	return comment, nil
}

// Delete removes a comment
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE comment_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if affected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

// BatchInsert inserts multiple comments using PostgreSQL COPY, keeping their
// IDs, then moves the id sequence past the highest inserted ID
func (r *commentRepo) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	if len(comments) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("comments",
		"comment_id", "article_id", "author", "body", "votes", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, comment := range comments {
		_, err := stmt.ExecContext(ctx,
			comment.ID, comment.ArticleID, comment.Author, comment.Body,
			comment.Votes, comment.CreatedAt,
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
		"SELECT setval(pg_get_serial_sequence('comments', 'comment_id'), GREATEST(MAX(comment_id), 1)) FROM comments",
	); err != nil {
		return 0, fmt.Errorf("failed to sync comment id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.ArticleID, &comment.Author, &comment.Body,
		&comment.Votes, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

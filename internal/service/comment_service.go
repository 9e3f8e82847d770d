package service

import (
	"context"
	"fmt"

	"github.com/nc-news-api/internal/metrics"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func newCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, m *metrics.Metrics, log zerolog.Logger) *commentService {
	return &commentService{
		comments: comments,
		articles: articles,
		metrics:  m,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// List returns a page of an article's comments. A missing article is an
// error rather than an empty page.
func (s *commentService) List(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error) {
	return s.comments.ListByArticle(ctx, q)
}

// Get returns a single comment
func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// Create posts a comment on an article. The payload is validated first,
// then the article is looked up; an unknown author surfaces from the
// insert as ErrUnprocessable.
func (s *commentService) Create(ctx context.Context, articleID int64, in models.NewComment) (*models.Comment, error) {
	if err := validation.ValidateNewComment(in); err != nil {
		return nil, err
	}

	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check article: %w", err)
	}
	if !exists {
		return nil, models.ErrArticleNotFound
	}

	comment := &models.Comment{
		ArticleID: articleID,
		Author:    in.Username,
		Body:      in.Body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.metrics.RecordCommentCreated()
	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("article_id", articleID).
		Str("author", comment.Author).
		Msg("Comment created")

	return comment, nil
}

// UpdateVotes increments the comment's votes in the database. Without a
// delta the current state is re-read and returned.
func (s *commentService) UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Comment, error) {
	if delta == nil {
		return s.comments.GetByID(ctx, id)
	}

	comment, err := s.comments.UpdateVotes(ctx, id, *delta)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordVote("comment")
	return comment, nil
}

// Delete removes a comment
func (s *commentService) Delete(ctx context.Context, id int64) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordCommentDeleted()
	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}

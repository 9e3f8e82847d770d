package service

import (
	"context"

	"github.com/nc-news-api/internal/metrics"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func newArticleService(articles repository.ArticleRepository, m *metrics.Metrics, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		metrics:  m,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// List returns a page of articles and the total number matching the filters
func (s *articleService) List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error) {
	return s.articles.List(ctx, q)
}

// Get returns a single article with its comment count
func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// UpdateVotes increments the article's votes in the database. Without a
// delta the current state is re-read and returned.
func (s *articleService) UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Article, error) {
	if delta == nil {
		return s.articles.GetByID(ctx, id)
	}

	article, err := s.articles.UpdateVotes(ctx, id, *delta)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordVote("article")
	s.log.Debug().
		Int64("article_id", id).
		Int64("delta", *delta).
		Int64("votes", article.Votes).
		Msg("Article votes updated")

	return article, nil
}

package service

import (
	"context"

	"github.com/nc-news-api/internal/metrics"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/rs/zerolog"
)

// TopicService defines the interface for topic operations
type TopicService interface {
	List(ctx context.Context) ([]*models.Topic, error)
}

// UserService defines the interface for user operations
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
}

// ArticleService defines the interface for article operations
type ArticleService interface {
	List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	// UpdateVotes applies delta to the article's votes; a nil delta returns
	// the article unchanged
	UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Article, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	List(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, articleID int64, in models.NewComment) (*models.Comment, error)
	UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// Services holds all service interfaces
type Services struct {
	Topic   TopicService
	User    UserService
	Article ArticleService
	Comment CommentService
}

// NewServices creates all services. m may be nil when metrics are disabled.
func NewServices(repos *repository.Repositories, m *metrics.Metrics, log zerolog.Logger) *Services {
	return &Services{
		Topic:   newTopicService(repos.Topic),
		User:    newUserService(repos.User),
		Article: newArticleService(repos.Article, m, log),
		Comment: newCommentService(repos.Comment, repos.Article, m, log),
	}
}

package repository

import (
	"context"

	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	List(ctx context.Context) ([]*models.Topic, error)
	Exists(ctx context.Context, slug string) (bool, error)
	BatchInsert(ctx context.Context, topics []*models.Topic) (int, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	BatchInsert(ctx context.Context, users []*models.User) (int, error)
	Count(ctx context.Context) (int, error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// List returns one page of articles and the size of the filtered set
	List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Article, error)
	Exists(ctx context.Context, id int64) (bool, error)
	BatchInsert(ctx context.Context, articles []*models.Article) (int, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// ListByArticle returns one page of an article's comments and the size of the filtered set
	ListByArticle(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	BatchInsert(ctx context.Context, comments []*models.Comment) (int, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Topic   TopicRepository
	User    UserRepository
	Article ArticleRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Topic:   NewTopicRepo(db),
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Comment: NewCommentRepo(db),
	}
}

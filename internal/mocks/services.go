package mocks

import (
	"context"

	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
)

// Verify interface compliance
var (
	_ service.TopicService   = (*MockTopicService)(nil)
	_ service.UserService    = (*MockUserService)(nil)
	_ service.ArticleService = (*MockArticleService)(nil)
	_ service.CommentService = (*MockCommentService)(nil)
)

// MockTopicService is a mock implementation of TopicService
type MockTopicService struct {
	ListFunc func(ctx context.Context) ([]*models.Topic, error)
}

func (m *MockTopicService) List(ctx context.Context) ([]*models.Topic, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Topic{}, nil
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	ListFunc func(ctx context.Context) ([]*models.User, error)
	GetFunc  func(ctx context.Context, username string) (*models.User, error)
}

func (m *MockUserService) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) Get(ctx context.Context, username string) (*models.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, username)
	}
	return nil, models.ErrUserNotFound
}

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	ListFunc        func(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error)
	GetFunc         func(ctx context.Context, id int64) (*models.Article, error)
	UpdateVotesFunc func(ctx context.Context, id int64, delta *int64) (*models.Article, error)
	ListQueries     []models.ArticleQuery
}

func (m *MockArticleService) List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error) {
	m.ListQueries = append(m.ListQueries, q)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return []*models.Article{}, 0, nil
}

func (m *MockArticleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrArticleNotFound
}

func (m *MockArticleService) UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Article, error) {
	if m.UpdateVotesFunc != nil {
		return m.UpdateVotesFunc(ctx, id, delta)
	}
	return nil, models.ErrArticleNotFound
}

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	ListFunc        func(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error)
	GetFunc         func(ctx context.Context, id int64) (*models.Comment, error)
	CreateFunc      func(ctx context.Context, articleID int64, in models.NewComment) (*models.Comment, error)
	UpdateVotesFunc func(ctx context.Context, id int64, delta *int64) (*models.Comment, error)
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *MockCommentService) List(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return []*models.Comment{}, 0, nil
}

func (m *MockCommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrCommentNotFound
}

func (m *MockCommentService) Create(ctx context.Context, articleID int64, in models.NewComment) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, articleID, in)
	}
	return nil, models.ErrArticleNotFound
}

func (m *MockCommentService) UpdateVotes(ctx context.Context, id int64, delta *int64) (*models.Comment, error) {
	if m.UpdateVotesFunc != nil {
		return m.UpdateVotesFunc(ctx, id, delta)
	}
	return nil, models.ErrCommentNotFound
}

func (m *MockCommentService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.ErrCommentNotFound
}

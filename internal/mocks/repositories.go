package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.TopicRepository   = (*MockTopicRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)

// MockTopicRepository is an in-memory TopicRepository
type MockTopicRepository struct {
	mu          sync.Mutex
	Topics      map[string]*models.Topic
	InsertError error
}

func NewMockTopicRepository() *MockTopicRepository {
	return &MockTopicRepository{Topics: make(map[string]*models.Topic)}
}

func (m *MockTopicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]*models.Topic, 0, len(m.Topics))
	for _, t := range m.Topics {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
	return topics, nil
}

func (m *MockTopicRepository) Exists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Topics[slug]
	return ok, nil
}

func (m *MockTopicRepository) BatchInsert(ctx context.Context, topics []*models.Topic) (int, error) {
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range topics {
		m.Topics[t.Slug] = t
	}
	return len(topics), nil
}

func (m *MockTopicRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Topics), nil
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu               sync.Mutex
	Users            map[string]*models.User
	InsertError      error
	BatchInsertCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Users[username]
	return ok, nil
}

func (m *MockUserRepository) BatchInsert(ctx context.Context, users []*models.User) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchInsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, u := range users {
		m.Users[u.Username] = u
	}
	return len(users), nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockArticleRepository is an in-memory ArticleRepository. List filters by
// author and topic and pages in article_id order; set ListFunc to override.
type MockArticleRepository struct {
	mu               sync.Mutex
	Articles         map[int64]*models.Article
	ListFunc         func(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error)
	ListCalls        []models.ArticleQuery
	InsertError      error
	BatchInsertCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int64]*models.Article)}
}

func (m *MockArticleRepository) List(ctx context.Context, q models.ArticleQuery) ([]*models.Article, int, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, q)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if (q.Author == "" || a.Author == q.Author) && (q.Topic == "" || a.Topic == q.Topic) {
			matched = append(matched, copyArticle(a))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, q.Page), len(matched), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return nil, models.ErrArticleNotFound
	}
	return copyArticle(a), nil
}

func (m *MockArticleRepository) UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return nil, models.ErrArticleNotFound
	}
	a.Votes += delta
	return copyArticle(a), nil
}

func (m *MockArticleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Articles[id]
	return ok, nil
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchInsertCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, a := range articles {
		m.Articles[a.ID] = a
	}
	return len(articles), nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), nil
}

// MockCommentRepository is an in-memory CommentRepository. Create assigns
// increasing IDs and rejects authors missing from Users when Users is set.
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[int64]*models.Comment
	Articles    *MockArticleRepository
	Users       *MockUserRepository
	CreateError error
	InsertError error
	nextID      int64
}

func NewMockCommentRepository(articles *MockArticleRepository, users *MockUserRepository) *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		Articles: articles,
		Users:    users,
	}
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, q models.CommentQuery) ([]*models.Comment, int, error) {
	if m.Articles != nil {
		if ok, _ := m.Articles.Exists(ctx, q.ArticleID); !ok {
			return nil, 0, models.ErrArticleNotFound
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.ArticleID == q.ArticleID && (q.Author == "" || c.Author == q.Author) {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, q.Page), len(matched), nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil, models.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.Users != nil {
		if ok, _ := m.Users.Exists(ctx, comment.Author); !ok {
			return models.ErrUnprocessable
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = m.maxID() + 1
	comment.ID = m.nextID
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) UpdateVotes(ctx context.Context, id int64, delta int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil, models.ErrCommentNotFound
	}
	c.Votes += delta
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[id]; !ok {
		return models.ErrCommentNotFound
	}
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) BatchInsert(ctx context.Context, comments []*models.Comment) (int, error) {
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range comments {
		m.Comments[c.ID] = c
	}
	return len(comments), nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

func (m *MockCommentRepository) maxID() int64 {
	max := m.nextID
	for id := range m.Comments {
		if id > max {
			max = id
		}
	}
	return max
}

// NewMockRepositories wires a set of in-memory repositories together
func NewMockRepositories() (*repository.Repositories, *MockStore) {
	store := &MockStore{
		Topics:   NewMockTopicRepository(),
		Users:    NewMockUserRepository(),
		Articles: NewMockArticleRepository(),
	}
	store.Comments = NewMockCommentRepository(store.Articles, store.Users)
	return &repository.Repositories{
		Topic:   store.Topics,
		User:    store.Users,
		Article: store.Articles,
		Comment: store.Comments,
	}, store
}

// MockStore exposes the concrete mocks behind NewMockRepositories
type MockStore struct {
	Topics   *MockTopicRepository
	Users    *MockUserRepository
	Articles *MockArticleRepository
	Comments *MockCommentRepository
}

func copyArticle(a *models.Article) *models.Article {
	copied := *a
	return &copied
}

func paginate[T any](items []T, page models.Page) []T {
	if page.Offset >= len(items) {
		return items[:0]
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

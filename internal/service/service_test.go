package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nc-news-api/internal/metrics"
	"github.com/nc-news-api/internal/mocks"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func newTestServices(t *testing.T) (*service.Services, *mocks.MockStore, *metrics.Metrics) {
	t.Helper()
	repos, store := mocks.NewMockRepositories()
	ctx := context.Background()

	store.Topics.BatchInsert(ctx, []*models.Topic{
		{Slug: "mitch", Description: "The man, the Mitch, the legend"},
		{Slug: "cats", Description: "Not dogs"},
	})
	store.Users.BatchInsert(ctx, []*models.User{
		{Username: "butter_bridge", Name: "jonny"},
		{Username: "icellusedkars", Name: "sam"},
	})
	store.Articles.BatchInsert(ctx, []*models.Article{
		{ID: 1, Title: "Living in the shadow of a great man", Author: "butter_bridge", Topic: "mitch", Votes: 100, CreatedAt: time.Now()},
		{ID: 2, Title: "Sony Vaio; or, The Laptop", Author: "icellusedkars", Topic: "mitch", CreatedAt: time.Now()},
	})
	store.Comments.BatchInsert(ctx, []*models.Comment{
		{ID: 1, ArticleID: 1, Author: "butter_bridge", Body: "first", Votes: 16},
		{ID: 2, ArticleID: 1, Author: "icellusedkars", Body: "second", Votes: 14},
	})

	m := metrics.New()
	return service.NewServices(repos, m, zerolog.Nop()), store, m
}

func int64Ptr(n int64) *int64 { return &n }

func TestArticleService_UpdateVotes_RoundTrip(t *testing.T) {
	svcs, _, m := newTestServices(t)
	ctx := context.Background()

	up, err := svcs.Article.UpdateVotes(ctx, 1, int64Ptr(50))
	if err != nil {
		t.Fatalf("UpdateVotes failed: %v", err)
	}
	if up.Votes != 150 {
		t.Errorf("Expected 150 votes, got %d", up.Votes)
	}

	down, err := svcs.Article.UpdateVotes(ctx, 1, int64Ptr(-50))
	if err != nil {
		t.Fatalf("UpdateVotes failed: %v", err)
	}
	if down.Votes != 100 {
		t.Errorf("Expected votes back at 100, got %d", down.Votes)
	}

	if got := testutil.ToFloat64(m.VotesApplied.WithLabelValues("article")); got != 2 {
		t.Errorf("Expected 2 recorded votes, got %v", got)
	}
}

func TestArticleService_UpdateVotes_NoDelta(t *testing.T) {
	svcs, _, m := newTestServices(t)

	article, err := svcs.Article.UpdateVotes(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("UpdateVotes failed: %v", err)
	}
	if article.Votes != 100 {
		t.Errorf("Expected votes unchanged at 100, got %d", article.Votes)
	}
	if got := testutil.ToFloat64(m.VotesApplied.WithLabelValues("article")); got != 0 {
		t.Errorf("Expected no recorded votes, got %v", got)
	}
}

func TestArticleService_UpdateVotes_NotFound(t *testing.T) {
	svcs, _, _ := newTestServices(t)

	for _, delta := range []*int64{nil, int64Ptr(1)} {
		_, err := svcs.Article.UpdateVotes(context.Background(), 999, delta)
		if !errors.Is(err, models.ErrArticleNotFound) {
			t.Errorf("Expected ErrArticleNotFound, got %v", err)
		}
	}
}

func TestArticleService_ConcurrentVotes(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svcs.Article.UpdateVotes(ctx, 2, int64Ptr(1)); err != nil {
				t.Errorf("UpdateVotes failed: %v", err)
			}
		}()
	}
	wg.Wait()

	article, err := svcs.Article.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if article.Votes != workers {
		t.Errorf("Expected %d votes, got %d", workers, article.Votes)
	}
}

func TestArticleService_List(t *testing.T) {
	svcs, _, _ := newTestServices(t)

	articles, total, err := svcs.Article.List(context.Background(), models.ArticleQuery{
		Page:   models.Page{SortBy: "created_at", Order: "desc", Limit: 1},
		Author: "icellusedkars",
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(articles) != 1 || articles[0].ID != 2 {
		t.Errorf("Expected article 2 only, got total=%d articles=%v", total, articles)
	}
}

func TestCommentService_Create(t *testing.T) {
	svcs, _, m := newTestServices(t)

	comment, err := svcs.Comment.Create(context.Background(), 1, models.NewComment{
		Username: "butter_bridge",
		Body:     "This is a new comment",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if comment.ID == 0 {
		t.Error("Expected a generated comment_id")
	}
	if comment.CreatedAt.IsZero() {
		t.Error("Expected a created_at timestamp")
	}
	if comment.ArticleID != 1 || comment.Author != "butter_bridge" || comment.Votes != 0 {
		t.Errorf("Unexpected comment: %+v", comment)
	}
	if got := testutil.ToFloat64(m.CommentsCreated); got != 1 {
		t.Errorf("Expected 1 recorded comment, got %v", got)
	}
}

func TestCommentService_Create_Errors(t *testing.T) {
	tests := []struct {
		name      string
		articleID int64
		in        models.NewComment
		want      error
	}{
		{"empty body", 1, models.NewComment{Username: "butter_bridge"}, models.ErrEmptyComment},
		{"missing username", 1, models.NewComment{Body: "x"}, models.ErrMissingUsername},
		{"unknown article", 999, models.NewComment{Username: "butter_bridge", Body: "x"}, models.ErrArticleNotFound},
		{"unknown user", 1, models.NewComment{Username: "Thanh", Body: "x"}, models.ErrUnprocessable},
		{"validation runs before lookup", 999, models.NewComment{}, models.ErrEmptyComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs, store, _ := newTestServices(t)
			before, _ := store.Comments.Count(context.Background())

			_, err := svcs.Comment.Create(context.Background(), tt.articleID, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}

			after, _ := store.Comments.Count(context.Background())
			if after != before {
				t.Errorf("Expected no comment stored, count went from %d to %d", before, after)
			}
		})
	}
}

func TestCommentService_DeleteThenLookup(t *testing.T) {
	svcs, _, m := newTestServices(t)
	ctx := context.Background()

	if err := svcs.Comment.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svcs.Comment.Get(ctx, 1); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("Get after delete: expected ErrCommentNotFound, got %v", err)
	}
	if _, err := svcs.Comment.UpdateVotes(ctx, 1, int64Ptr(1)); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("UpdateVotes after delete: expected ErrCommentNotFound, got %v", err)
	}
	if err := svcs.Comment.Delete(ctx, 1); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("Second delete: expected ErrCommentNotFound, got %v", err)
	}
	if got := testutil.ToFloat64(m.CommentsDeleted); got != 1 {
		t.Errorf("Expected 1 recorded delete, got %v", got)
	}
}

func TestCommentService_UpdateVotes(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	comment, err := svcs.Comment.UpdateVotes(ctx, 1, int64Ptr(-20))
	if err != nil {
		t.Fatalf("UpdateVotes failed: %v", err)
	}
	if comment.Votes != -4 {
		t.Errorf("Expected -4 votes, got %d", comment.Votes)
	}

	unchanged, err := svcs.Comment.UpdateVotes(ctx, 1, nil)
	if err != nil {
		t.Fatalf("UpdateVotes failed: %v", err)
	}
	if unchanged.Votes != -4 {
		t.Errorf("Expected votes unchanged at -4, got %d", unchanged.Votes)
	}
}

func TestCommentService_List(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	comments, total, err := svcs.Comment.List(ctx, models.CommentQuery{
		Page:      models.DefaultPageOptions(),
		ArticleID: 1,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(comments) != 2 {
		t.Errorf("Expected 2 comments, got total=%d len=%d", total, len(comments))
	}

	// An article without comments yields an empty page, a missing one an error
	comments, _, err = svcs.Comment.List(ctx, models.CommentQuery{Page: models.DefaultPageOptions(), ArticleID: 2})
	if err != nil || len(comments) != 0 {
		t.Errorf("Expected empty page for article 2, got %v, %v", comments, err)
	}
	if _, _, err := svcs.Comment.List(ctx, models.CommentQuery{Page: models.DefaultPageOptions(), ArticleID: 999}); !errors.Is(err, models.ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}

func TestTopicAndUserServices(t *testing.T) {
	svcs, _, _ := newTestServices(t)
	ctx := context.Background()

	topics, err := svcs.Topic.List(ctx)
	if err != nil {
		t.Fatalf("List topics failed: %v", err)
	}
	if len(topics) != 2 || topics[0].Slug != "cats" {
		t.Errorf("Expected topics ordered by slug, got %v", topics)
	}

	user, err := svcs.User.Get(ctx, "butter_bridge")
	if err != nil || user.Name != "jonny" {
		t.Errorf("Get user: got %v, %v", user, err)
	}
	if _, err := svcs.User.Get(ctx, "jimbo"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestNewServices_NilMetrics(t *testing.T) {
	repos, store := mocks.NewMockRepositories()
	store.Articles.BatchInsert(context.Background(), []*models.Article{{ID: 1}})

	svcs := service.NewServices(repos, nil, zerolog.Nop())
	if _, err := svcs.Article.UpdateVotes(context.Background(), 1, int64Ptr(1)); err != nil {
		t.Errorf("UpdateVotes with nil metrics failed: %v", err)
	}
}

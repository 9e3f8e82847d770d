package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// ListArticles handles GET /api/articles
// Query: author, topic, sort_by, order, limit, p
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	q, err := validation.ParseArticleQuery(c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	articles, total, err := h.services.Article.List(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":    articles,
		"total_count": total,
	})
}

// GetArticle handles GET /api/articles/:article_id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := validation.ParseID(c.Param("article_id"), models.ErrInvalidArticleID)
	if err != nil {
		c.Error(err)
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// PatchArticleVotes handles PATCH /api/articles/:article_id
// Body: {"inc_votes": n}; a missing inc_votes returns the article unchanged
func (h *ArticleHandler) PatchArticleVotes(c *gin.Context) {
	id, err := validation.ParseID(c.Param("article_id"), models.ErrInvalidArticleID)
	if err != nil {
		c.Error(err)
		return
	}

	var body votesBody
	if err := decodeBody(c, &body); err != nil {
		h.log.Debug().Err(err).Int64("article_id", id).Msg("Rejected vote body")
		c.Error(err)
		return
	}
	delta, err := validation.ParseVoteDelta(body.IncVotes, models.ErrInvalidArticleVotes)
	if err != nil {
		c.Error(err)
		return
	}

	article, err := h.services.Article.UpdateVotes(c.Request.Context(), id, delta)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

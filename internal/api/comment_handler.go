package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListArticleComments handles GET /api/articles/:article_id/comments
// Query: author, sort_by, order, limit, p
func (h *CommentHandler) ListArticleComments(c *gin.Context) {
	articleID, err := validation.ParseID(c.Param("article_id"), models.ErrInvalidArticleID)
	if err != nil {
		c.Error(err)
		return
	}

	q, err := validation.ParseCommentQuery(articleID, c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	comments, total, err := h.services.Comment.List(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    comments,
		"total_count": total,
	})
}

// PostComment handles POST /api/articles/:article_id/comments
// Body: {"username": "...", "body": "..."}
func (h *CommentHandler) PostComment(c *gin.Context) {
	articleID, err := validation.ParseID(c.Param("article_id"), models.ErrInvalidCommentArticleID)
	if err != nil {
		c.Error(err)
		return
	}

	var in models.NewComment
	if err := decodeBody(c, &in); err != nil {
		h.log.Debug().Err(err).Int64("article_id", articleID).Msg("Rejected comment body")
		c.Error(err)
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), articleID, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetComment handles GET /api/comments/:comment_id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, err := validation.ParseID(c.Param("comment_id"), models.ErrInvalidCommentID)
	if err != nil {
		c.Error(err)
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// PatchCommentVotes handles PATCH /api/comments/:comment_id
func (h *CommentHandler) PatchCommentVotes(c *gin.Context) {
	id, err := validation.ParseID(c.Param("comment_id"), models.ErrInvalidCommentID)
	if err != nil {
		c.Error(err)
		return
	}

	var body votesBody
	if err := decodeBody(c, &body); err != nil {
		h.log.Debug().Err(err).Int64("comment_id", id).Msg("Rejected vote body")
		c.Error(err)
		return
	}
	delta, err := validation.ParseVoteDelta(body.IncVotes, models.ErrInvalidCommentVotes)
	if err != nil {
		c.Error(err)
		return
	}

	comment, err := h.services.Comment.UpdateVotes(c.Request.Context(), id, delta)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /api/comments/:comment_id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := validation.ParseID(c.Param("comment_id"), models.ErrInvalidCommentID)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

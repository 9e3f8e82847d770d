package repository

import (
	"errors"

	"github.com/lib/pq"
	"github.com/nc-news-api/internal/models"
)

// commentArticleFK is the constraint tying comments to their article
const commentArticleFK = "comments_article_id_fkey"

// translateError converts PostgreSQL failures into classified errors so that
// callers above the repository never inspect driver codes
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Name() {
	case "foreign_key_violation":
		if pqErr.Constraint == commentArticleFK {
			return models.ErrArticleNotFound
		}
		return models.ErrUnprocessable
	}
	return err
}

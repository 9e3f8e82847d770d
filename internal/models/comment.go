package models

import (
	"time"
)

// Comment represents a comment on an article
type Comment struct {
	ID        int64     `json:"comment_id" db:"comment_id"`
	ArticleID int64     `json:"article_id" db:"article_id"`
	Author    string    `json:"author" db:"author"`
	Body      string    `json:"body" db:"body"`
	Votes     int64     `json:"votes" db:"votes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentSortColumns lists the columns a comment listing may be sorted by.
// Kept apart from ArticleSortColumns: comments have no title, topic or count.
var CommentSortColumns = []string{
	"author",
	"votes",
	"created_at",
}

// CommentQuery is the normalized form of the comment listing query string
type CommentQuery struct {
	Page
	ArticleID int64
	Author    string
}

// NewComment is the payload for posting a comment on an article
type NewComment struct {
	Body     string `json:"body" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// CommentNDJSON represents a comment record from the NDJSON seed files
type CommentNDJSON struct {
	ID        int64  `json:"comment_id"`
	ArticleID int64  `json:"article_id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	Votes     int64  `json:"votes"`
	CreatedAt string `json:"created_at"`
}

package models

import (
	"time"
)

// Article represents an article in the system
type Article struct {
	ID           int64     `json:"article_id" db:"article_id"`
	Title        string    `json:"title" db:"title"`
	Body         string    `json:"body" db:"body"`
	Author       string    `json:"author" db:"author"`
	Topic        string    `json:"topic" db:"topic"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Votes        int64     `json:"votes" db:"votes"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
}

// ArticleSortColumns lists the columns an article listing may be sorted by
var ArticleSortColumns = []string{
	"author",
	"title",
	"article_id",
	"topic",
	"created_at",
	"votes",
	"comment_count",
}

// ArticleQuery is the normalized form of the article listing query string
type ArticleQuery struct {
	Page
	Author string
	Topic  string
}

// ArticleNDJSON represents an article record from the NDJSON seed files
type ArticleNDJSON struct {
	ID        int64  `json:"article_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Topic     string `json:"topic"`
	Votes     int64  `json:"votes"`
	CreatedAt string `json:"created_at"`
}

package repository

import (
	"fmt"
	"strings"

	"github.com/nc-news-api/internal/models"
)

// queryBuilder accumulates equality filters and their positional arguments
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

// where adds "column = $n" for a non-empty value
func (b *queryBuilder) where(column string, value interface{}) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *queryBuilder) whereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// paginate appends limit and offset arguments and returns the matching clause.
// Call it after any query that shares the filter arguments has been built.
func (b *queryBuilder) paginate(page models.Page) string {
	b.args = append(b.args, page.Limit, page.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(b.args)-1, len(b.args))
}

// sortColumns maps whitelisted sort keys to SQL expressions
type sortColumns struct {
	columns map[string]string
	// tieKey is the sort key of the unique column used to break ties
	tieKey string
}

// orderBy renders the ORDER BY clause for a page. Sort keys never reach the
// query text directly; only expressions from the columns map do.
func (s sortColumns) orderBy(page models.Page) (string, error) {
	expr, ok := s.columns[page.SortBy]
	if !ok {
		return "", models.ErrInvalidSortBy
	}

	var dir string
	switch page.Order {
	case models.OrderAsc:
		dir = "ASC"
	case models.OrderDesc:
		dir = "DESC"
	default:
		return "", models.ErrInvalidOrder
	}

	clause := fmt.Sprintf("ORDER BY %s %s", expr, dir)
	if page.SortBy != s.tieKey {
		clause += fmt.Sprintf(", %s ASC", s.columns[s.tieKey])
	}
	return clause, nil
}

var articleSort = sortColumns{
	columns: map[string]string{
		"author":        "a.author",
		"title":         "a.title",
		"article_id":    "a.article_id",
		"topic":         "a.topic",
		"created_at":    "a.created_at",
		"votes":         "a.votes",
		"comment_count": "comment_count",
	},
	tieKey: "article_id",
}

var commentSort = sortColumns{
	columns: map[string]string{
		"author":     "c.author",
		"votes":      "c.votes",
		"created_at": "c.created_at",
		"comment_id": "c.comment_id",
	},
	tieKey: "comment_id",
}

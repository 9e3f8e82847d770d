package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nc-news-api/internal/models"
)

// Query string keys accepted by list endpoints
const (
	ParamSortBy = "sort_by"
	ParamOrder  = "order"
	ParamLimit  = "limit"
	ParamPage   = "p"
	ParamAuthor = "author"
	ParamTopic  = "topic"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	articleSortRule = "oneof=" + strings.Join(models.ArticleSortColumns, " ")
	commentSortRule = "oneof=" + strings.Join(models.CommentSortColumns, " ")
	orderRule       = "oneof=" + models.OrderAsc + " " + models.OrderDesc
)

// ParseArticleQuery validates the article listing query string and
// normalizes it, applying defaults for missing parameters
func ParseArticleQuery(values url.Values) (models.ArticleQuery, error) {
	page, err := parsePage(values, articleSortRule)
	if err != nil {
		return models.ArticleQuery{}, err
	}
	return models.ArticleQuery{
		Page:   page,
		Author: values.Get(ParamAuthor),
		Topic:  values.Get(ParamTopic),
	}, nil
}

// ParseCommentQuery validates the comment listing query string for an article
func ParseCommentQuery(articleID int64, values url.Values) (models.CommentQuery, error) {
	page, err := parsePage(values, commentSortRule)
	if err != nil {
		return models.CommentQuery{}, err
	}
	return models.CommentQuery{
		Page:      page,
		ArticleID: articleID,
		Author:    values.Get(ParamAuthor),
	}, nil
}

// parsePage checks sort_by, order, limit and p in that order, so the first
// invalid parameter decides the error. A page whose offset overflows int is
// rejected as an invalid page.
func parsePage(values url.Values, sortRule string) (models.Page, error) {
	page := models.DefaultPageOptions()

	if v, ok := lookup(values, ParamSortBy); ok {
		if validate.Var(v, sortRule) != nil {
			return models.Page{}, models.ErrInvalidSortBy
		}
		page.SortBy = v
	}

	if v, ok := lookup(values, ParamOrder); ok {
		if validate.Var(v, orderRule) != nil {
			return models.Page{}, models.ErrInvalidOrder
		}
		page.Order = v
	}

	if v, ok := lookup(values, ParamLimit); ok {
		n, err := parsePositive(v)
		if err != nil {
			return models.Page{}, models.ErrInvalidLimit
		}
		page.Limit = n
	}

	number := models.DefaultPage
	if v, ok := lookup(values, ParamPage); ok {
		n, err := parsePositive(v)
		if err != nil {
			return models.Page{}, models.ErrInvalidPage
		}
		number = n
	}
	if number-1 > math.MaxInt/page.Limit {
		return models.Page{}, models.ErrInvalidPage
	}
	page.Offset = (number - 1) * page.Limit

	return page, nil
}

// lookup reports a parameter only when it is present and non-empty
func lookup(values url.Values, key string) (string, bool) {
	v := values.Get(key)
	return v, v != ""
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if err := validate.Var(n, "gt=0"); err != nil {
		return 0, err
	}
	return n, nil
}

// ParseID parses a path identifier, returning invalid unless it is a
// positive integer
func ParseID(raw string, invalid error) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

// ParseVoteDelta decodes an inc_votes value. An absent or null value means no
// change and yields nil; anything that is not a JSON integer yields invalid.
func ParseVoteDelta(raw json.RawMessage, invalid error) (*int64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var delta int64
	if err := json.Unmarshal(trimmed, &delta); err != nil {
		return nil, invalid
	}
	return &delta, nil
}

// ValidateNewComment checks a comment payload. The body is checked before the
// username, so a payload missing both reports the empty body.
func ValidateNewComment(c models.NewComment) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.ErrInvalidBody
	}

	switch fieldErrs[0].Field() {
	case "Body":
		return models.ErrEmptyComment
	case "Username":
		return models.ErrMissingUsername
	default:
		return models.ErrInvalidBody
	}
}

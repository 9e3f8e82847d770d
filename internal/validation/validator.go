package validation

import (
	"regexp"
	"time"

	"github.com/nc-news-api/internal/models"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ValidationError represents a single validation error in a seed record
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks seed records, tracking the keys seen so far for
// duplicate detection and reference checks
type Validator struct {
	topicCache   map[string]bool
	userCache    map[string]bool
	articleCache map[int64]bool
	commentCache map[int64]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		topicCache:   make(map[string]bool),
		userCache:    make(map[string]bool),
		articleCache: make(map[int64]bool),
		commentCache: make(map[int64]bool),
	}
}

// AddTopic records a topic slug as existing
func (v *Validator) AddTopic(slug string) {
	v.topicCache[slug] = true
}

// AddUser records a username as existing
func (v *Validator) AddUser(username string) {
	v.userCache[username] = true
}

// AddArticle records an article ID as existing
func (v *Validator) AddArticle(id int64) {
	v.articleCache[id] = true
}

// AddComment records a comment ID as existing
func (v *Validator) AddComment(id int64) {
	v.commentCache[id] = true
}

// ValidateTopic validates a topic record
func (v *Validator) ValidateTopic(topic *models.Topic) []ValidationError {
	var errors []ValidationError

	if topic.Slug == "" {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug is required"})
	} else if !slugRegex.MatchString(topic.Slug) {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug must be lowercase letters, numbers, hyphens or underscores", Value: topic.Slug})
	} else if v.topicCache[topic.Slug] {
		errors = append(errors, ValidationError{Field: "slug", Message: "duplicate slug", Value: topic.Slug})
	}

	if topic.Description == "" {
		errors = append(errors, ValidationError{Field: "description", Message: "description is required"})
	}

	return errors
}

// ValidateUser validates a user record
func (v *Validator) ValidateUser(user *models.UserCSV) []ValidationError {
	var errors []ValidationError

	if user.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if v.userCache[user.Username] {
		errors = append(errors, ValidationError{Field: "username", Message: "duplicate username", Value: user.Username})
	}

	if user.Name == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	// Avatar is optional but must be an absolute URL when given
	if err := validate.Var(user.AvatarURL, "omitempty,url"); err != nil {
		errors = append(errors, ValidationError{Field: "avatar_url", Message: "invalid URL", Value: user.AvatarURL})
	}

	return errors
}

// ValidateArticle validates an article record
func (v *Validator) ValidateArticle(article *models.ArticleNDJSON) []ValidationError {
	var errors []ValidationError

	if article.ID <= 0 {
		errors = append(errors, ValidationError{Field: "article_id", Message: "article_id must be a positive integer", Value: article.ID})
	} else if v.articleCache[article.ID] {
		errors = append(errors, ValidationError{Field: "article_id", Message: "duplicate article_id", Value: article.ID})
	}

	if article.Title == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}

	if article.Body == "" {
		errors = append(errors, ValidationError{Field: "body", Message: "body is required"})
	}

	// Validate author (FK)
	if article.Author == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	} else if len(v.userCache) > 0 && !v.userCache[article.Author] {
		errors = append(errors, ValidationError{Field: "author", Message: "referenced user does not exist", Value: article.Author})
	}

	// Validate topic (FK)
	if article.Topic == "" {
		errors = append(errors, ValidationError{Field: "topic", Message: "topic is required"})
	} else if len(v.topicCache) > 0 && !v.topicCache[article.Topic] {
		errors = append(errors, ValidationError{Field: "topic", Message: "referenced topic does not exist", Value: article.Topic})
	}

	errors = append(errors, validateTimestamp(article.CreatedAt)...)

	return errors
}

// ValidateComment validates a comment record
func (v *Validator) ValidateComment(comment *models.CommentNDJSON) []ValidationError {
	var errors []ValidationError

	if comment.ID <= 0 {
		errors = append(errors, ValidationError{Field: "comment_id", Message: "comment_id must be a positive integer", Value: comment.ID})
	} else if v.commentCache[comment.ID] {
		errors = append(errors, ValidationError{Field: "comment_id", Message: "duplicate comment_id", Value: comment.ID})
	}

	// Validate article_id (FK)
	if comment.ArticleID <= 0 {
		errors = append(errors, ValidationError{Field: "article_id", Message: "article_id is required"})
	} else if len(v.articleCache) > 0 && !v.articleCache[comment.ArticleID] {
		errors = append(errors, ValidationError{Field: "article_id", Message: "referenced article does not exist", Value: comment.ArticleID})
	}

	// Validate author (FK)
	if comment.Author == "" {
		errors = append(errors, ValidationError{Field: "author", Message: "author is required"})
	} else if len(v.userCache) > 0 && !v.userCache[comment.Author] {
		errors = append(errors, ValidationError{Field: "author", Message: "referenced user does not exist", Value: comment.Author})
	}

	if comment.Body == "" {
		errors = append(errors, ValidationError{Field: "body", Message: "body is required"})
	}

	errors = append(errors, validateTimestamp(comment.CreatedAt)...)

	return errors
}

func validateTimestamp(value string) []ValidationError {
	if value == "" {
		return []ValidationError{{Field: "created_at", Message: "created_at is required"}}
	}
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return []ValidationError{{Field: "created_at", Message: "invalid ISO 8601 date format", Value: value}}
	}
	return nil
}

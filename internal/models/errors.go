package models

import (
	"errors"
)

// Kind classifies an Error for the HTTP layer
type Kind int

const (
	// KindValidation marks malformed client input
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing referenced entity
	KindNotFound
	// KindForeignKeyViolation marks an insert referencing a row that does not exist
	KindForeignKeyViolation
	// KindMethodNotAllowed marks an unsupported verb on a known route
	KindMethodNotAllowed
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "unknown"
	}
}

// Error is a classified failure carrying the message shown to clients.
// Values are compared by identity, so errors.Is works against the
// variables declared below.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation failure with the given message
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFoundError creates a not-found failure with the given message
func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Query string errors
var (
	ErrInvalidSortBy = NewValidationError("Invalid query parameter")
	ErrInvalidOrder  = NewValidationError("Invalid order query")
	ErrInvalidLimit  = NewValidationError("Invalid limit query")
	ErrInvalidPage   = NewValidationError("Invalid page query")
)

// Path and body errors
var (
	ErrInvalidArticleID        = NewValidationError("Invalid article id")
	ErrInvalidCommentArticleID = NewValidationError("Invalid article_id")
	ErrInvalidCommentID        = NewValidationError("Invalid comment_id")
	ErrInvalidArticleVotes     = NewValidationError("inc_votes must be a number")
	ErrInvalidCommentVotes     = NewValidationError("Invalid body parameter inc_votes")
	ErrEmptyComment            = NewValidationError("You can't post an empty comment!")
	ErrMissingUsername         = NewValidationError("You can't post a comment without a username!")
	ErrInvalidBody             = NewValidationError("Invalid request body")
)

// Lookup errors
var (
	ErrArticleNotFound = NewNotFoundError("Article not found")
	ErrCommentNotFound = NewNotFoundError("Comment not found")
	ErrUserNotFound    = NewNotFoundError("User not found")
	ErrTopicNotFound   = NewNotFoundError("Topic not found")
	ErrRouteNotFound   = NewNotFoundError("Route not found")
)

var (
	// ErrUnprocessable is returned when an insert references an unknown row
	ErrUnprocessable = &Error{Kind: KindForeignKeyViolation, Message: "Unprocessable entity"}

	// ErrInvalidMethod is returned for an unsupported verb on a known route
	ErrInvalidMethod = &Error{Kind: KindMethodNotAllowed, Message: "Invalid method"}
)

// KindOf reports the kind of err, or zero when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal server error"

// statusFor maps an error kind to its HTTP status
func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindForeignKeyViolation:
		return http.StatusUnprocessableEntity
	case models.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// errorMiddleware renders the last error attached by a handler as
// {"msg": ...}. Unclassified errors are logged and hidden behind a 500.
func errorMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var classified *models.Error
		if !errors.As(err, &classified) {
			log.Error().
				Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.GetString(requestIDKey)).
				Msg("Unhandled error")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": internalErrorMessage})
			return
		}

		c.JSON(statusFor(classified.Kind), gin.H{"msg": classified.Message})
	}
}

package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/models"
)

//go:embed endpoints.json
var endpoints []byte

// getEndpoints handles GET /api
func getEndpoints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"api": json.RawMessage(endpoints)})
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// untouched, which handlers treat like {}.
func decodeBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidBody, err)
	}
	return nil
}

// votesBody is the PATCH payload shared by articles and comments. inc_votes
// stays raw so each resource can reject a bad value with its own message.
type votesBody struct {
	IncVotes json.RawMessage `json:"inc_votes"`
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var errMissingID = errors.New("missing id")

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// idParam reads an opaque string id from the path.
func idParam(c *gin.Context, key string) (string, error) {
	id := strings.TrimSpace(c.Param(key))
	if id == "" {
		return "", errMissingID
	}
	return id, nil
}

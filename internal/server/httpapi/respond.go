package httpapi

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// respond writes the success envelope. extra adds top-level fields next to data.
func respond(c *gin.Context, status int, data any, message string, extra gin.H) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// failErr maps store errors; anything unexpected is a 500 without details.
func (h *Handler) failErr(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, memstore.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, memstore.ErrConflict):
		fail(c, http.StatusConflict, "Record already exists")
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func paginate[T any](items []T, q url.Values) ([]T, *models.Pagination) {
	page := max(atoi(q.Get("page"), 1), 1)
	limit := min(max(atoi(q.Get("limit"), defaultPageSize), 1), maxPageSize)

	total := len(items)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return items[start:end], &models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

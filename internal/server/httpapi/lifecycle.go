package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
)

// fields exposes the columns the shared handlers work with.
type fields struct {
	Name      *string
	Status    *string
	Deleted   *bool
	UpdatedAt *time.Time
	// Also lists further text matched by the search parameter.
	Also []string
}

// lifecycle serves list, get, soft delete, restore, permanent delete and
// toggle-status for one soft-deletable table.
type lifecycle[T any] struct {
	singular string
	table    *memstore.Table[T]
	fields   func(*T) fields
	// filter narrows list results by extra query parameters.
	filter func(T, url.Values) bool
	// extra adds top-level fields to list responses.
	extra func() gin.H
	now   func() time.Time
}

func (l *lifecycle[T]) notFound() string { return l.singular + " not found" }

func (l *lifecycle[T]) matches(v T, q url.Values) bool {
	f := l.fields(&v)
	if *f.Deleted != (q.Get("showDeleted") == "true") {
		return false
	}
	if s := q.Get("status"); s != "" && *f.Status != s {
		return false
	}
	if s := strings.TrimSpace(q.Get("search")); s != "" && !searchHit(s, *f.Name, f.Also...) {
		return false
	}
	return l.filter == nil || l.filter(v, q)
}

func searchHit(q, name string, also ...string) bool {
	if containsFold(name, q) {
		return true
	}
	for _, s := range also {
		if containsFold(s, q) {
			return true
		}
	}
	return false
}

func (l *lifecycle[T]) list() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		items, p := paginate(l.table.Filter(func(v T) bool { return l.matches(v, q) }), q)
		extra := gin.H{"pagination": p}
		if l.extra != nil {
			for k, v := range l.extra() {
				extra[k] = v
			}
		}
		respond(c, http.StatusOK, items, "", extra)
	}
}

func (l *lifecycle[T]) get(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := l.table.Get(c.Param("id"))
		if err != nil {
			h.failErr(c, err, l.notFound())
			return
		}
		respond(c, http.StatusOK, v, "", nil)
	}
}

var errWrongState = errors.New("record is not in the expected state")

// change edits a record that is live (inTrash false) or trashed (inTrash true).
// A non-zero status is the HTTP failure to report.
func (l *lifecycle[T]) change(id string, inTrash bool, fn func(fields)) (T, int, string) {
	v, err := l.table.Update(id, func(v *T) error {
		f := l.fields(v)
		if *f.Deleted != inTrash {
			return errWrongState
		}
		fn(f)
		*f.UpdatedAt = l.now()
		return nil
	})
	switch {
	case err == nil:
		return v, 0, ""
	case errors.Is(err, errWrongState) && inTrash:
		return v, http.StatusBadRequest, l.singular + " is not in trash"
	default:
		return v, http.StatusNotFound, l.notFound()
	}
}

func (l *lifecycle[T]) softDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, status, msg := l.change(c.Param("id"), false, func(f fields) { *f.Deleted = true })
		if status != 0 {
			fail(c, status, msg)
			return
		}
		respond(c, http.StatusOK, nil, l.singular+" moved to trash", nil)
	}
}

func (l *lifecycle[T]) restore() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, status, msg := l.change(c.Param("id"), true, func(f fields) { *f.Deleted = false })
		if status != 0 {
			fail(c, status, msg)
			return
		}
		respond(c, http.StatusOK, v, l.singular+" restored successfully", nil)
	}
}

func (l *lifecycle[T]) permanentDelete(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		v, err := l.table.Get(id)
		if err != nil {
			h.failErr(c, err, l.notFound())
			return
		}
		if !*l.fields(&v).Deleted {
			fail(c, http.StatusBadRequest, l.singular+" must be moved to trash before permanent deletion")
			return
		}
		if err := l.table.Delete(id); err != nil {
			h.failErr(c, err, l.notFound())
			return
		}
		respond(c, http.StatusOK, nil, l.singular+" permanently deleted", nil)
	}
}

// toggleStatus flips active/inactive, or applies {"status": ...} when sent.
func (l *lifecycle[T]) toggleStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.StatusInput
		raw, err := c.GetRawData()
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				fail(c, http.StatusBadRequest, "Invalid request body")
				return
			}
		}
		if body.Status != "" && body.Status != models.StatusActive && body.Status != models.StatusInactive {
			fail(c, http.StatusBadRequest, "Status must be active or inactive")
			return
		}

		v, status, msg := l.change(c.Param("id"), false, func(f fields) {
			switch {
			case body.Status != "":
				*f.Status = body.Status
			case *f.Status == models.StatusActive:
				*f.Status = models.StatusInactive
			default:
				*f.Status = models.StatusActive
			}
		})
		if status != 0 {
			fail(c, status, msg)
			return
		}
		respond(c, http.StatusOK, v, l.singular+" status updated", nil)
	}
}

func (l *lifecycle[T]) mount(h *Handler, g *gin.RouterGroup) {
	g.GET("", l.list())
	g.GET("/:id", l.get(h))
	g.DELETE("/:id", l.softDelete())
	g.PATCH("/:id/restore", l.restore())
	g.DELETE("/:id/permanent", l.permanentDelete(h))
	g.PATCH("/:id/toggle-status", l.toggleStatus())
}

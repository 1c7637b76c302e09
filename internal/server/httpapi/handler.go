// Package httpapi is the gin router of the mock backend. It serves the REST
// contract consumed by the console under a configurable base path.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/accounts"
	"github.com/dmitrijs2005/buildhub/internal/server/images"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UploadsPath is where in-memory images are served.
const UploadsPath = "/uploads"

type Handler struct {
	db       *memstore.Database
	accounts *accounts.Service
	images   images.Store
	log      logging.Logger
	logins   *ipLimiter
	now      func() time.Time
}

type Option func(*Handler)

// WithLoginRate limits sign-in attempts per client IP.
func WithLoginRate(r rate.Limit, burst int) Option {
	return func(h *Handler) { h.logins = newIPLimiter(r, burst) }
}

func NewHandler(db *memstore.Database, acc *accounts.Service, img images.Store, log logging.Logger, opts ...Option) *Handler {
	h := &Handler{
		db:       db,
		accounts: acc,
		images:   img,
		log:      log,
		logins:   newIPLimiter(rate.Every(time.Second), 10),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Router builds the engine with every route mounted under basePath.
func (h *Handler) Router(basePath string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), h.logRequests())

	if mem, ok := h.images.(*images.MemoryStore); ok {
		r.GET(UploadsPath+"/*key", serveImage(mem))
	}

	api := r.Group("/" + strings.Trim(basePath, "/"))
	api.GET("/health", func(c *gin.Context) { respond(c, http.StatusOK, gin.H{"status": "ok"}, "", nil) })

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.logins.middleware(), h.login)
	authGroup.POST("/forgot-password", h.forgotPassword)
	authGroup.POST("/reset-password", h.resetPassword)

	private := api.Group("")
	private.Use(h.requireAdmin())
	{
		private.GET("/auth/profile", h.profile)
		private.PUT("/auth/change-password", h.changePassword)

		h.mountCategories(private.Group("/categories"))
		h.mountSubCategories(private.Group("/sub-categories"))
		h.mountMaterials(private.Group("/materials"))
		h.mountVendors(private.Group("/vendors"))
		h.mountUsers(private.Group("/users"))
		h.mountBookings(private.Group("/bookings"))
		h.mountTransactions(private.Group("/transactions"))
	}

	return r
}

func serveImage(mem *images.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, contentType, err := mem.Get(strings.TrimPrefix(c.Param("key"), "/"))
		if err != nil {
			fail(c, http.StatusNotFound, "Image not found")
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func ref(id, name string) models.Ref { return models.Ref{ID: id, Name: name} }

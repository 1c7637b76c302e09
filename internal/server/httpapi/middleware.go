package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	adminKey        = "admin"
	RequestIDHeader = "X-Request-ID"
)

// requestID keeps the caller's X-Request-ID, or issues one, and puts it on
// the request context and the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info(c.Request.Context(), "request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"latency", time.Since(start),
		)
	}
}

// requireAdmin accepts "Authorization: Bearer <jwt>" and stores the operator
// under adminKey.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			fail(c, http.StatusUnauthorized, "Invalid token format")
			return
		}

		admin, err := h.accounts.Authenticate(token)
		if err != nil {
			msg := "Not authorized, token failed"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Session expired, please log in again"
			}
			fail(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(adminKey, admin)
		c.Next()
	}
}

func currentAdmin(c *gin.Context) models.Admin {
	return c.MustGet(adminKey).(models.Admin)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP. Buckets idle for more than
// idleTTL are dropped on the next request.
type ipLimiter struct {
	mu       sync.Mutex
	r        rate.Limit
	burst    int
	visitors map[string]*visitor
	idleTTL  time.Duration
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{r: r, burst: burst, visitors: make(map[string]*visitor), idleTTL: 10 * time.Minute}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.r, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			fail(c, http.StatusTooManyRequests, "Too many login attempts, please try again later")
			return
		}
		c.Next()
	}
}

package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
)

var (
	bookingStatuses = []string{
		models.BookingPending, models.BookingConfirmed, models.BookingDelivered, models.BookingCancelled,
	}
	transactionStatuses = []string{
		models.TransactionPending, models.TransactionSuccess, models.TransactionFailed, models.TransactionRefunded,
	}
)

func userFields(v *models.User) fields {
	return fields{
		Name:      &v.Name,
		Status:    &v.Status,
		Deleted:   &v.IsDeleted,
		UpdatedAt: &v.UpdatedAt,
		Also:      []string{v.Email, v.Mobile},
	}
}

func (h *Handler) mountUsers(g *gin.RouterGroup) {
	l := &lifecycle[models.User]{
		singular: "User",
		table:    h.db.Users,
		fields:   userFields,
		extra:    func() gin.H { return gin.H{"stats": h.userStats()} },
		now:      h.now,
	}
	g.GET("/stats", func(c *gin.Context) { respond(c, http.StatusOK, h.userStats(), "", nil) })
	g.PUT("/:id", h.updateUser)
	g.PATCH("/:id/block", h.setBlocked(true))
	g.PATCH("/:id/unblock", h.setBlocked(false))
	l.mount(h, g)
}

func (h *Handler) userStats() models.UserStats {
	var s models.UserStats
	for _, u := range h.db.Users.Filter(nil) {
		if u.IsDeleted {
			s.Deleted++
			continue
		}
		s.Total++
		if u.IsBlocked {
			s.Blocked++
		}
		if u.Status == models.StatusActive {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s
}

func (h *Handler) updateUser(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Status != "" && in.Status != models.StatusActive && in.Status != models.StatusInactive {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	v, err := h.db.Users.Update(c.Param("id"), func(v *models.User) error {
		setIf(&v.Name, strings.TrimSpace(in.Name))
		setIf(&v.Email, strings.ToLower(strings.TrimSpace(in.Email)))
		setIf(&v.Mobile, in.Mobile)
		setIf(&v.Status, in.Status)
		v.UpdatedAt = h.now()
		return nil
	})
	if err != nil {
		h.failErr(c, err, "User not found")
		return
	}
	respond(c, http.StatusOK, v, "User updated successfully", nil)
}

func (h *Handler) setBlocked(blocked bool) gin.HandlerFunc {
	msg := "User unblocked successfully"
	if blocked {
		msg = "User blocked successfully"
	}
	return func(c *gin.Context) {
		v, err := h.db.Users.Update(c.Param("id"), func(v *models.User) error {
			v.IsBlocked = blocked
			v.UpdatedAt = h.now()
			return nil
		})
		if err != nil {
			h.failErr(c, err, "User not found")
			return
		}
		respond(c, http.StatusOK, v, msg, nil)
	}
}

// getOne serves GET /:id for tables without a trash.
func getOne[T any](h *Handler, table *memstore.Table[T], notFound string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := table.Get(c.Param("id"))
		if err != nil {
			h.failErr(c, err, notFound)
			return
		}
		respond(c, http.StatusOK, v, "", nil)
	}
}

// setStatus serves PATCH /:id/status with {"status": ...} checked against allowed.
func setStatus[T any](h *Handler, table *memstore.Table[T], allowed []string, status func(*T) (*string, *time.Time), singular string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.StatusInput
		if err := c.ShouldBindJSON(&body); err != nil || !slices.Contains(allowed, body.Status) {
			fail(c, http.StatusBadRequest, "Status must be one of: "+strings.Join(allowed, ", "))
			return
		}
		v, err := table.Update(c.Param("id"), func(v *T) error {
			s, updated := status(v)
			*s = body.Status
			*updated = h.now()
			return nil
		})
		if err != nil {
			h.failErr(c, err, singular+" not found")
			return
		}
		respond(c, http.StatusOK, v, singular+" status updated successfully", nil)
	}
}

func (h *Handler) mountBookings(g *gin.RouterGroup) {
	g.GET("", func(c *gin.Context) {
		q := c.Request.URL.Query()
		status, search := q.Get("status"), strings.TrimSpace(q.Get("search"))
		items, p := paginate(h.db.Bookings.Filter(func(b models.Booking) bool {
			return (status == "" || b.Status == status) &&
				(q.Get("vendor") == "" || b.Vendor.ID == q.Get("vendor")) &&
				(search == "" || searchHit(search, b.Number, b.User.Name, b.Vendor.Name, b.Material.Name))
		}), q)
		respond(c, http.StatusOK, items, "", gin.H{"pagination": p})
	})
	g.GET("/:id", getOne(h, h.db.Bookings, "Booking not found"))
	g.PATCH("/:id/status", setStatus(h, h.db.Bookings, bookingStatuses, func(b *models.Booking) (*string, *time.Time) {
		return &b.Status, &b.UpdatedAt
	}, "Booking"))
	g.DELETE("/:id", func(c *gin.Context) {
		if err := h.db.Bookings.Delete(c.Param("id")); err != nil {
			h.failErr(c, err, "Booking not found")
			return
		}
		respond(c, http.StatusOK, nil, "Booking deleted successfully", nil)
	})
}

func (h *Handler) mountTransactions(g *gin.RouterGroup) {
	g.GET("", func(c *gin.Context) {
		q := c.Request.URL.Query()
		status, search := q.Get("status"), strings.TrimSpace(q.Get("search"))
		items, p := paginate(h.db.Transactions.Filter(func(t models.Transaction) bool {
			return (status == "" || t.Status == status) &&
				(q.Get("paymentMethod") == "" || t.PaymentMethod == q.Get("paymentMethod")) &&
				(search == "" || searchHit(search, t.Number, t.User.Name))
		}), q)
		respond(c, http.StatusOK, items, "", gin.H{"pagination": p})
	})
	g.GET("/:id", getOne(h, h.db.Transactions, "Transaction not found"))
	g.PATCH("/:id/status", setStatus(h, h.db.Transactions, transactionStatuses, func(t *models.Transaction) (*string, *time.Time) {
		return &t.Status, &t.UpdatedAt
	}, "Transaction"))
}

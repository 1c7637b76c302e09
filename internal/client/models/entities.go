package models

import "time"

// Status values of the active/inactive flag flipped by toggle-status.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Pagination is the cursor block of a list envelope.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Status      string    `json:"status"`
	IsDeleted   bool      `json:"isDeleted,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c Category) Key() Key { return ID(c.ID) }

type SubCategory struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Category    Ref       `json:"category"`
	Status      string    `json:"status"`
	IsDeleted   bool      `json:"isDeleted,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s SubCategory) Key() Key { return ID(s.ID) }

type Material struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Category    Ref       `json:"category"`
	SubCategory Ref       `json:"subCategory"`
	Unit        string    `json:"unit"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock,omitempty"`
	Status      string    `json:"status"`
	IsDeleted   bool      `json:"isDeleted,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (m Material) Key() Key { return ID(m.ID) }

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

type Vendor struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName,omitempty"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	GSTNumber    string    `json:"gstNumber,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	Status       string    `json:"status"`
	IsDeleted    bool      `json:"isDeleted,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (v Vendor) Key() Key { return ID(v.ID) }

// VendorMaterial is a vendor's offer for one catalog material. It is addressed
// by (vendor, material), not by its own record id.
type VendorMaterial struct {
	ID          string  `json:"_id"`
	Vendor      Ref     `json:"vendor"`
	Material    Ref     `json:"material"`
	Price       float64 `json:"price"`
	MinOrderQty int     `json:"minOrderQty"`
	MaxOrderQty *int    `json:"maxOrderQty,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
	Specs       string  `json:"specs,omitempty"`
}

func (vm VendorMaterial) Key() Key { return Key{Parent: vm.Vendor.ID, ID: vm.Material.ID} }

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile,omitempty"`
	Status    string    `json:"status"`
	IsBlocked bool      `json:"isBlocked"`
	IsDeleted bool      `json:"isDeleted,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Key() Key { return ID(u.ID) }

type UserStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Blocked  int `json:"blocked"`
	Deleted  int `json:"deleted"`
}

// Booking statuses accepted by PATCH /bookings/{id}/status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingDelivered = "delivered"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID          string    `json:"_id"`
	Number      string    `json:"bookingId,omitempty"`
	User        Ref       `json:"user"`
	Vendor      Ref       `json:"vendor"`
	Material    Ref       `json:"material"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b Booking) Key() Key { return ID(b.ID) }

// Transaction statuses accepted by PATCH /transactions/{id}/status.
const (
	TransactionPending  = "pending"
	TransactionSuccess  = "success"
	TransactionFailed   = "failed"
	TransactionRefunded = "refunded"
)

type Transaction struct {
	ID            string    `json:"_id"`
	Number        string    `json:"transactionId,omitempty"`
	Booking       Ref       `json:"booking"`
	User          Ref       `json:"user"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (t Transaction) Key() Key { return ID(t.ID) }

// Admin is the authenticated operator (the session principal).
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// LoginResult is the data block of a successful POST /auth/login.
type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

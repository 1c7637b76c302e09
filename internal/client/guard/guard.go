// Package guard holds the console's route table and the two navigation
// guards. Guards are pure functions of a session Snapshot.
package guard

import "strings"

const (
	PathLogin          = "/login"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password/:token"
	PathDashboard      = "/dashboard"
	PathUsers          = "/users"
	PathVendors        = "/vendors"
	PathVendorMaterial = "/vendors/:vendorId/materials"
	PathCategories     = "/categories"
	PathSubCategories  = "/sub-categories"
	PathMaterials      = "/materials"
	PathBookings       = "/bookings"
	PathTransactions   = "/transactions"
	PathCMS            = "/cms"
)

// Snapshot is what the guards know about the session.
type Snapshot struct {
	Authenticated bool
	Token         string
	// StoredToken is the token found in local storage, checked as a fallback.
	StoredToken string
}

// Decision is the outcome of a guard.
type Decision struct {
	Allowed  bool
	Redirect string
}

// AuthGuard admits a protected view when the session is authenticated
// by flag, by in-memory token or by a stored token.
func AuthGuard(s Snapshot) Decision {
	if s.Authenticated || s.StoredToken != "" || s.Token != "" {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: PathLogin}
}

// GuestGuard admits a public-only view (login, forgot/reset password) only
// when nobody is signed in.
func GuestGuard(s Snapshot) Decision {
	if s.Authenticated || s.StoredToken != "" {
		return Decision{Redirect: PathDashboard}
	}
	return Decision{Allowed: true}
}

type Access int

const (
	Public Access = iota
	Private
)

type Route struct {
	Pattern string
	Access  Access
}

// Routes is the route table in match order.
var Routes = []Route{
	{PathLogin, Public},
	{PathForgotPassword, Public},
	{PathResetPassword, Public},
	{PathDashboard, Private},
	{PathUsers, Private},
	{PathVendors, Private},
	{PathVendorMaterial, Private},
	{PathCategories, Private},
	{PathSubCategories, Private},
	{PathMaterials, Private},
	{PathBookings, Private},
	{PathTransactions, Private},
	{PathCMS, Private},
}

// Match is a resolved route with its path parameters.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

func split(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func match(pattern, path string) (map[string]string, bool) {
	want, got := split(pattern), split(path)
	if len(want) != len(got) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

// Lookup finds the route for path. "/" and unknown paths report false.
func Lookup(path string) (Match, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, r := range Routes {
		if params, ok := match(r.Pattern, path); ok {
			return Match{Route: r, Path: path, Params: params}, true
		}
	}
	return Match{}, false
}

// Resolve follows redirects from path until a guard admits a view. "/" and
// unknown paths go to the dashboard.
func Resolve(path string, s Snapshot) Match {
	for range 4 {
		m, ok := Lookup(path)
		if !ok {
			path = PathDashboard
			continue
		}
		d := AuthGuard(s)
		if m.Route.Access == Public {
			d = GuestGuard(s)
		}
		if d.Allowed {
			return m
		}
		path = d.Redirect
	}
	m, _ := Lookup(PathLogin)
	return m
}

package store

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
)

// Messages are the default notification strings of a collection, used when
// the server does not send its own.
type Messages struct {
	ListFailed        string
	ListTrashedFailed string
	GetFailed         string
	Created           string
	CreateFailed      string
	Updated           string
	UpdateFailed      string
	Deleted           string
	DeleteFailed      string
	Restored          string
	RestoreFailed     string
	Purged            string
	PurgeFailed       string
	Toggled           string
	ToggleFailed      string
}

// DefaultMessages builds the conventional strings, e.g. for ("Category",
// "categories"): "Category created successfully.", "Failed to fetch categories.".
func DefaultMessages(singular, plural string) Messages {
	lower := strings.ToLower(singular)
	return Messages{
		ListFailed:        "Failed to fetch " + plural + ".",
		ListTrashedFailed: "Failed to fetch deleted " + plural + ".",
		GetFailed:         "Failed to fetch " + lower + ".",
		Created:           singular + " created successfully.",
		CreateFailed:      "Failed to create " + lower + ".",
		Updated:           singular + " updated successfully.",
		UpdateFailed:      "Failed to update " + lower + ".",
		Deleted:           singular + " deleted successfully.",
		DeleteFailed:      "Failed to delete " + lower + ".",
		Restored:          singular + " restored successfully.",
		RestoreFailed:     "Failed to restore " + lower + ".",
		Purged:            singular + " permanently deleted.",
		PurgeFailed:       "Failed to permanently delete " + lower + ".",
		Toggled:           singular + " status updated.",
		ToggleFailed:      "Failed to update " + lower + " status.",
	}
}

// Definition describes one REST collection.
type Definition struct {
	// Name is used in logs, e.g. "categories".
	Name string
	// Path returns the collection path for a parent key. Top-level
	// collections ignore the parent.
	Path func(parent string) string
	// ToggleAction is the last path segment of the toggle endpoint.
	ToggleAction string
	Messages     Messages
	// OnList runs after a successful, applied List with the raw response.
	OnList func(resp *api.Response)
}

// Static returns a Path func for a fixed collection path.
func Static(path string) func(string) string {
	return func(string) string { return path }
}

func (d Definition) itemPath(key models.Key, action ...string) string {
	parts := append([]string{d.Path(key.Parent), url.PathEscape(key.ID)}, action...)
	return strings.Join(parts, "/")
}

package store

import (
	"slices"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
)

// Entity is a record addressable by Key.
type Entity interface {
	Key() models.Key
}

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is a point-in-time copy of a collection.
type State[T Entity] struct {
	Items       []T
	Trashed     []T
	Selected    *T
	Status      Status
	LastError   string
	LastMessage string
	Page        models.Pagination
	TrashedPage models.Pagination
	// Scope is the parent key of the last list, for scoped collections.
	Scope string
}

func (s State[T]) clone() State[T] {
	out := s
	out.Items = slices.Clone(s.Items)
	out.Trashed = slices.Clone(s.Trashed)
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	return out
}

func indexOf[T Entity](items []T, key models.Key) int {
	return slices.IndexFunc(items, func(it T) bool { return it.Key() == key })
}

func without[T Entity](items []T, key models.Key) []T {
	return slices.DeleteFunc(items, func(it T) bool { return it.Key() == key })
}

func prepend[T Entity](items []T, v T) []T {
	items = without(items, v.Key())
	return append([]T{v}, items...)
}

// exclude removes from items every key present in other.
func exclude[T Entity](items, other []T) []T {
	if len(other) == 0 {
		return items
	}
	keys := make(map[models.Key]struct{}, len(other))
	for _, o := range other {
		keys[o.Key()] = struct{}{}
	}
	return slices.DeleteFunc(items, func(it T) bool {
		_, ok := keys[it.Key()]
		return ok
	})
}

package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// Collection is the state container of one resource. It is safe for
// concurrent use; operations may overlap and apply their results as they
// arrive.
type Collection[T Entity] struct {
	def    Definition
	client api.Doer
	log    logging.Logger

	mu    sync.RWMutex
	state State[T]

	// issued/applied list sequence numbers, per list kind
	listIssued, listApplied   uint64
	trashIssued, trashApplied uint64
	getIssued                 uint64
}

func NewCollection[T Entity](def Definition, client api.Doer, log logging.Logger) *Collection[T] {
	if log == nil {
		log = logging.Nop()
	}
	return &Collection[T]{
		def:    def,
		client: client,
		log:    log.With("resource", def.Name),
		state:  State[T]{Status: StatusIdle},
	}
}

func (c *Collection[T]) Definition() Definition { return c.def }

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Find returns the loaded record with the given key.
func (c *Collection[T]) Find(key models.Key) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := indexOf(c.state.Items, key); i >= 0 {
		return c.state.Items[i], nil
	}
	if i := indexOf(c.state.Trashed, key); i >= 0 {
		return c.state.Trashed[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%s %s: %w", c.def.Name, key, ErrNotLoaded)
}

func (c *Collection[T]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastError = ""
}

func (c *Collection[T]) ClearMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastMessage = ""
}

func (c *Collection[T]) ClearSelected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = nil
}

// Reset empties the lists and the scope, e.g. when a scoped view is left.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = nil
	c.state.Trashed = nil
	c.state.Scope = ""
	c.state.Page = models.Pagination{}
	c.state.TrashedPage = models.Pagination{}
}

// Mutate applies fn to the state under the write lock.
func (c *Collection[T]) Mutate(fn func(s *State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

func (c *Collection[T]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Status = StatusLoading
	c.state.LastError = ""
}

func (c *Collection[T]) succeed(message, fallback string, apply func(s *State[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeedLocked(message, fallback, apply)
}

func (c *Collection[T]) succeedLocked(message, fallback string, apply func(s *State[T])) {
	c.state.Status = StatusSucceeded
	if message == "" {
		message = fallback
	}
	if message != "" {
		c.state.LastMessage = message
	}
	if apply != nil {
		apply(&c.state)
	}
}

func (c *Collection[T]) fail(ctx context.Context, op string, err error, fallback string) error {
	msg := api.Message(err)
	if msg == "" {
		msg = fallback
	}

	c.mu.Lock()
	c.state.Status = StatusFailed
	c.state.LastError = msg
	c.state.LastMessage = ""
	c.mu.Unlock()

	c.log.Warn(ctx, "operation failed", "op", op, "error", err)
	return fmt.Errorf("%s %s: %w", c.def.Name, op, err)
}

func decodeOne[T Entity](resp *api.Response) (T, error) {
	var v T
	err := resp.Decode(&v)
	return v, err
}

// inScope reports whether a mutation for parent touches the loaded list.
func (c *Collection[T]) inScope(parent string) bool {
	return c.state.Scope == parent
}

// List replaces Items and Page with the collection page matching params.
func (c *Collection[T]) List(ctx context.Context, params url.Values) error {
	return c.ListIn(ctx, "", params)
}

// ListIn lists the collection under parent and makes it the current scope.
func (c *Collection[T]) ListIn(ctx context.Context, parent string, params url.Values) error {
	return c.listFrom(ctx, "list", c.def.Path(parent), parent, params, c.def.Messages.ListFailed)
}

// ListFrom is List against an alternate endpoint, e.g. /materials/category/{id}.
func (c *Collection[T]) ListFrom(ctx context.Context, path string, params url.Values, failMsg string) error {
	if failMsg == "" {
		failMsg = c.def.Messages.ListFailed
	}
	return c.listFrom(ctx, "list", path, "", params, failMsg)
}

func (c *Collection[T]) listFrom(ctx context.Context, op, path, parent string, params url.Values, failMsg string) error {
	c.mu.Lock()
	c.listIssued++
	seq := c.listIssued
	c.mu.Unlock()

	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodGet, Path: path, Query: params})
	var items []T
	if err == nil {
		err = resp.Decode(&items)
	}

	c.mu.Lock()
	if seq < c.listApplied {
		c.mu.Unlock()
		c.log.Debug(ctx, "stale list response dropped", "seq", seq)
		return err
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail(ctx, op, err, failMsg)
	}
	c.listApplied = seq
	c.succeedLocked(resp.Message, "", func(s *State[T]) {
		s.Items = items
		s.Scope = parent
		if resp.Pagination != nil {
			s.Page = *resp.Pagination
		}
		s.Trashed = exclude(s.Trashed, items)
	})
	c.mu.Unlock()

	if c.def.OnList != nil {
		c.def.OnList(resp)
	}
	return nil
}

// ListTrashed replaces Trashed with the soft-deleted subset.
func (c *Collection[T]) ListTrashed(ctx context.Context, params url.Values) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("showDeleted", "true")

	c.mu.Lock()
	c.trashIssued++
	seq := c.trashIssued
	c.mu.Unlock()

	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodGet, Path: c.def.Path(""), Query: q})
	var items []T
	if err == nil {
		err = resp.Decode(&items)
	}

	c.mu.Lock()
	if seq < c.trashApplied {
		c.mu.Unlock()
		c.log.Debug(ctx, "stale trash response dropped", "seq", seq)
		return err
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail(ctx, "listTrashed", err, c.def.Messages.ListTrashedFailed)
	}
	c.trashApplied = seq
	c.succeedLocked(resp.Message, "", func(s *State[T]) {
		s.Trashed = items
		if resp.Pagination != nil {
			s.TrashedPage = *resp.Pagination
		}
		s.Items = exclude(s.Items, items)
	})
	c.mu.Unlock()
	return nil
}

// Get loads one record into Selected. Only the response to the most recent
// Get is applied.
func (c *Collection[T]) Get(ctx context.Context, key models.Key) (T, error) {
	c.mu.Lock()
	c.getIssued++
	seq := c.getIssued
	if c.state.Selected != nil && (*c.state.Selected).Key() != key {
		c.state.Selected = nil
	}
	c.mu.Unlock()

	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodGet, Path: c.def.itemPath(key)})
	var v T
	if err == nil {
		v, err = decodeOne[T](resp)
	}

	c.mu.RLock()
	superseded := seq != c.getIssued
	c.mu.RUnlock()

	if err != nil {
		if superseded {
			return v, err
		}
		return v, c.fail(ctx, "get", err, c.def.Messages.GetFailed)
	}

	c.succeed(resp.Message, "", func(s *State[T]) {
		if !superseded {
			s.Selected = &v
		}
	})
	return v, nil
}

// Create posts body under parent and prepends the created record.
func (c *Collection[T]) Create(ctx context.Context, parent string, body any) (T, error) {
	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodPost, Path: c.def.Path(parent), Body: body})
	var v T
	if err == nil {
		v, err = decodeOne[T](resp)
	}
	if err != nil {
		return v, c.fail(ctx, "create", err, c.def.Messages.CreateFailed)
	}

	c.succeed(resp.Message, c.def.Messages.Created, func(s *State[T]) {
		if c.inScope(parent) {
			s.Items = prepend(s.Items, v)
		}
		s.Trashed = without(s.Trashed, v.Key())
	})
	return v, nil
}

// Update puts body and replaces the record in place. A record that is not
// loaded leaves Items unchanged; the operation still succeeds.
func (c *Collection[T]) Update(ctx context.Context, key models.Key, body any) (T, error) {
	return c.Replace(ctx, "update", api.Request{Method: http.MethodPut, Path: c.def.itemPath(key), Body: body},
		key, c.def.Messages.Updated, c.def.Messages.UpdateFailed)
}

// ToggleStatus patches the toggle endpoint and replaces the record with the
// server's copy. body may be nil or carry an explicit status.
func (c *Collection[T]) ToggleStatus(ctx context.Context, key models.Key, body any) (T, error) {
	action := c.def.ToggleAction
	if action == "" {
		action = "toggle-status"
	}
	return c.Replace(ctx, "toggle", api.Request{Method: http.MethodPatch, Path: c.def.itemPath(key, action), Body: body},
		key, c.def.Messages.Toggled, c.def.Messages.ToggleFailed)
}

// Patch sends a PATCH to an item sub-action (e.g. "block", "status") and
// replaces the record in place.
func (c *Collection[T]) Patch(ctx context.Context, key models.Key, action string, body any, okMsg, failMsg string) (T, error) {
	return c.Replace(ctx, action, api.Request{Method: http.MethodPatch, Path: c.def.itemPath(key, action), Body: body},
		key, okMsg, failMsg)
}

// Replace runs req and swaps the returned record into Items and Selected by
// identity, never by position.
func (c *Collection[T]) Replace(ctx context.Context, op string, req api.Request, key models.Key, okMsg, failMsg string) (T, error) {
	c.begin()
	resp, err := c.client.Do(ctx, req)
	var v T
	if err == nil {
		v, err = decodeOne[T](resp)
	}
	if err != nil {
		return v, c.fail(ctx, op, err, failMsg)
	}

	match := v.Key()
	if match.ID == "" {
		match = key
	}
	c.succeed(resp.Message, okMsg, func(s *State[T]) {
		if c.inScope(key.Parent) {
			if i := indexOf(s.Items, match); i >= 0 {
				s.Items[i] = v
			}
		}
		if s.Selected != nil && (*s.Selected).Key() == match {
			sel := v
			s.Selected = &sel
		}
	})
	return v, nil
}

// SoftDelete removes the record from Items. Trashed is not touched; it is
// refreshed by ListTrashed.
func (c *Collection[T]) SoftDelete(ctx context.Context, key models.Key) error {
	return c.Remove(ctx, "delete", api.Request{Method: http.MethodDelete, Path: c.def.itemPath(key)},
		key, c.def.Messages.Deleted, c.def.Messages.DeleteFailed)
}

// Remove runs req and drops key from Items.
func (c *Collection[T]) Remove(ctx context.Context, op string, req api.Request, key models.Key, okMsg, failMsg string) error {
	c.begin()
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return c.fail(ctx, op, err, failMsg)
	}
	c.succeed(resp.Message, okMsg, func(s *State[T]) {
		if c.inScope(key.Parent) {
			s.Items = without(s.Items, key)
		}
	})
	return nil
}

// Restore moves the record from Trashed to the front of Items.
func (c *Collection[T]) Restore(ctx context.Context, key models.Key) (T, error) {
	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodPatch, Path: c.def.itemPath(key, "restore")})
	var v T
	if err == nil {
		v, err = decodeOne[T](resp)
	}
	if err != nil {
		return v, c.fail(ctx, "restore", err, c.def.Messages.RestoreFailed)
	}

	c.succeed(resp.Message, c.def.Messages.Restored, func(s *State[T]) {
		if v.Key().ID == "" {
			// No record in the body: fall back to the trashed copy. With
			// neither, there is nothing to move and Items stays as loaded.
			i := indexOf(s.Trashed, key)
			if i < 0 {
				return
			}
			v = s.Trashed[i]
		}
		s.Trashed = without(s.Trashed, key)
		s.Items = prepend(s.Items, v)
	})
	return v, nil
}

// PermanentDelete removes a soft-deleted record for good.
func (c *Collection[T]) PermanentDelete(ctx context.Context, key models.Key) error {
	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodDelete, Path: c.def.itemPath(key, "permanent")})
	if err != nil {
		return c.fail(ctx, "purge", err, c.def.Messages.PurgeFailed)
	}
	c.succeed(resp.Message, c.def.Messages.Purged, func(s *State[T]) {
		s.Trashed = without(s.Trashed, key)
	})
	return nil
}

// Lookup runs a side request (units, states, stats) through the collection
// lifecycle and decodes its data into V. Collection lists are not touched.
func Lookup[V any, T Entity](ctx context.Context, c *Collection[T], path string, params url.Values, failMsg string) (V, error) {
	var v V
	c.begin()
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodGet, Path: path, Query: params})
	if err == nil {
		err = resp.Decode(&v)
	}
	if err != nil {
		return v, c.fail(ctx, "lookup", err, failMsg)
	}
	c.succeed(resp.Message, "", nil)
	return v, nil
}


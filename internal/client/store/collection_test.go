package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (i item) Key() models.Key { return models.ID(i.ID) }

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeDoer answers requests from a handler and records them.
type fakeDoer struct {
	mu      sync.Mutex
	calls   []call
	handler func(r api.Request) (*api.Response, error)
}

func (f *fakeDoer) Do(_ context.Context, r api.Request) (*api.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, Path: r.Path, Query: r.Query, Body: r.Body})
	f.mu.Unlock()
	return f.handler(r)
}

func (f *fakeDoer) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func ok(data any, message string) (*api.Response, error) {
	raw, _ := json.Marshal(data)
	return &api.Response{StatusCode: http.StatusOK, Data: raw, Message: message}, nil
}

func failed(status int, message string) (*api.Response, error) {
	return nil, &api.Error{StatusCode: status, Message: message}
}

func newTestCollection(h func(r api.Request) (*api.Response, error)) (*Collection[item], *fakeDoer) {
	f := &fakeDoer{handler: h}
	def := Definition{
		Name:     "categories",
		Path:     Static("/categories"),
		Messages: DefaultMessages("Category", "categories"),
	}
	return NewCollection[item](def, f, nil), f
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func seeded(t *testing.T, h func(r api.Request) (*api.Response, error), loaded ...item) (*Collection[item], *fakeDoer) {
	t.Helper()
	c, f := newTestCollection(h)
	c.Mutate(func(s *State[item]) { s.Items = loaded })
	return c, f
}

func TestCollection_ListReplacesItemsAndPage(t *testing.T) {
	c, f := newTestCollection(func(r api.Request) (*api.Response, error) {
		resp, _ := ok([]item{{ID: "a"}, {ID: "b"}}, "")
		resp.Pagination = &models.Pagination{Page: 1, Limit: 10, Total: 2, TotalPages: 1}
		return resp, nil
	})

	require.NoError(t, c.List(context.Background(), url.Values{"search": {"cem"}, "status": {"active"}}))

	st := c.Snapshot()
	assert.Equal(t, []string{"a", "b"}, ids(st.Items))
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, Total: 2, TotalPages: 1}, st.Page)
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Empty(t, st.LastMessage)

	got := f.last()
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/categories", got.Path)
	assert.Equal(t, "cem", got.Query.Get("search"))
	assert.Equal(t, "active", got.Query.Get("status"))
}

func TestCollection_ListFailureKeepsItems(t *testing.T) {
	c, _ := seeded(t, func(r api.Request) (*api.Response, error) {
		return nil, api.ErrUnavailable
	}, item{ID: "a"})

	err := c.List(context.Background(), nil)
	require.ErrorIs(t, err, api.ErrUnavailable)

	st := c.Snapshot()
	assert.Equal(t, StatusFailed, st.Status)
	assert.Equal(t, "Failed to fetch categories.", st.LastError)
	assert.Equal(t, []string{"a"}, ids(st.Items))
}

func TestCollection_ListKeepsPageWhenAbsent(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) { return ok([]item{}, "") })
	c.Mutate(func(s *State[item]) { s.Page = models.Pagination{Page: 3} })

	require.NoError(t, c.List(context.Background(), nil))
	assert.Equal(t, 3, c.Snapshot().Page.Page)
}

func TestCollection_ServerMessageWinsOverDefault(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		if r.Method == http.MethodPost {
			return ok(item{ID: "n"}, "Created!")
		}
		return failed(http.StatusBadRequest, "Name is required")
	})

	_, err := c.Create(context.Background(), "", map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "Created!", c.Snapshot().LastMessage)

	_, err = c.Update(context.Background(), models.ID("n"), map[string]string{})
	require.Error(t, err)
	st := c.Snapshot()
	assert.Equal(t, "Name is required", st.LastError)
	assert.Empty(t, st.LastMessage, "failure clears the message")
}

func TestCollection_CreatePrepends(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok(item{ID: "new", Name: "Cement & Binders"}, "")
	}, item{ID: "a"}, item{ID: "b"})

	v, err := c.Create(context.Background(), "", map[string]string{"name": "Cement & Binders"})
	require.NoError(t, err)
	assert.Equal(t, "new", v.ID)

	st := c.Snapshot()
	assert.Equal(t, []string{"new", "a", "b"}, ids(st.Items))
	assert.NotContains(t, ids(st.Trashed), "new")
	assert.Equal(t, "Category created successfully.", st.LastMessage)
	assert.Equal(t, http.MethodPost, f.last().Method)
}

func TestCollection_CreateFailureLeavesItems(t *testing.T) {
	c, _ := seeded(t, func(r api.Request) (*api.Response, error) {
		return failed(http.StatusInternalServerError, "")
	}, item{ID: "a"})

	_, err := c.Create(context.Background(), "", nil)
	require.Error(t, err)

	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, ids(st.Items))
	assert.Equal(t, "Failed to create category.", st.LastError)
}

func TestCollection_UpdateReplacesInPlace(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok(item{ID: "b", Name: "renamed"}, "")
	}, item{ID: "a"}, item{ID: "b", Name: "old"}, item{ID: "c"})
	c.Mutate(func(s *State[item]) { s.Selected = &item{ID: "b", Name: "old"} })

	_, err := c.Update(context.Background(), models.ID("b"), map[string]string{"name": "renamed"})
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(st.Items))
	assert.Equal(t, "renamed", st.Items[1].Name)
	assert.Equal(t, "renamed", st.Selected.Name)
	assert.Equal(t, "Category updated successfully.", st.LastMessage)
	assert.Equal(t, http.MethodPut, f.last().Method)
	assert.Equal(t, "/categories/b", f.last().Path)
}

func TestCollection_UpdateNotLoadedIsNoop(t *testing.T) {
	c, _ := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok(item{ID: "z", Name: "elsewhere"}, "")
	}, item{ID: "a"})

	_, err := c.Update(context.Background(), models.ID("z"), nil)
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, ids(st.Items))
	assert.Equal(t, StatusSucceeded, st.Status)
	assert.Equal(t, "Category updated successfully.", st.LastMessage)
}

func TestCollection_SoftDeleteThenListTrashed(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		switch {
		case r.Method == http.MethodDelete:
			return ok(nil, "")
		case r.Query.Get("showDeleted") == "true":
			return ok([]item{{ID: "b"}}, "")
		}
		return nil, errors.New("unexpected")
	}, item{ID: "a"}, item{ID: "b"})

	require.NoError(t, c.SoftDelete(context.Background(), models.ID("b")))
	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, ids(st.Items))
	assert.Empty(t, st.Trashed, "trash is refreshed on demand")
	assert.Equal(t, "Category deleted successfully.", st.LastMessage)

	require.NoError(t, c.ListTrashed(context.Background(), url.Values{"page": {"1"}}))
	st = c.Snapshot()
	assert.Equal(t, []string{"b"}, ids(st.Trashed))
	assert.Equal(t, "1", f.last().Query.Get("page"))
	assert.Equal(t, "/categories", f.last().Path)
}

func TestCollection_ListTrashedFailure(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		return failed(http.StatusInternalServerError, "")
	})
	require.Error(t, c.ListTrashed(context.Background(), nil))
	assert.Equal(t, "Failed to fetch deleted categories.", c.Snapshot().LastError)
}

func TestCollection_ListsStayDisjoint(t *testing.T) {
	c, _ := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok([]item{{ID: "b"}}, "")
	}, item{ID: "a"}, item{ID: "b"})

	require.NoError(t, c.ListTrashed(context.Background(), nil))
	st := c.Snapshot()
	assert.Equal(t, []string{"a"}, ids(st.Items))
	assert.Equal(t, []string{"b"}, ids(st.Trashed))
}

func TestCollection_RestoreMovesToFront(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok(item{ID: "t", Name: "back"}, "")
	}, item{ID: "a"})
	c.Mutate(func(s *State[item]) { s.Trashed = []item{{ID: "t"}, {ID: "u"}} })

	_, err := c.Restore(context.Background(), models.ID("t"))
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, []string{"t", "a"}, ids(st.Items))
	assert.Equal(t, []string{"u"}, ids(st.Trashed))
	assert.Equal(t, "Category restored successfully.", st.LastMessage)
	assert.Equal(t, http.MethodPatch, f.last().Method)
	assert.Equal(t, "/categories/t/restore", f.last().Path)
}

func TestCollection_RestoreWithoutBodyUsesTrashedCopy(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		return &api.Response{StatusCode: http.StatusOK}, nil
	})
	c.Mutate(func(s *State[item]) { s.Trashed = []item{{ID: "t", Name: "kept"}} })

	_, err := c.Restore(context.Background(), models.ID("t"))
	require.NoError(t, err)

	st := c.Snapshot()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "kept", st.Items[0].Name)
	assert.Empty(t, st.Trashed)
}

func TestCollection_RestoreUnknownKeepsItems(t *testing.T) {
	c, _ := seeded(t, func(r api.Request) (*api.Response, error) {
		return &api.Response{StatusCode: http.StatusOK}, nil
	}, item{ID: "a"}, item{ID: "t"})

	_, err := c.Restore(context.Background(), models.ID("t"))
	require.NoError(t, err)

	st := c.Snapshot()
	assert.Equal(t, []string{"a", "t"}, ids(st.Items))
	assert.Equal(t, StatusSucceeded, st.Status)
}

func TestCollection_PermanentDelete(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		return ok(nil, "")
	}, item{ID: "a"})
	c.Mutate(func(s *State[item]) { s.Trashed = []item{{ID: "t"}} })

	require.NoError(t, c.PermanentDelete(context.Background(), models.ID("t")))

	st := c.Snapshot()
	assert.Empty(t, st.Trashed)
	assert.Equal(t, []string{"a"}, ids(st.Items))
	assert.Equal(t, "Category permanently deleted.", st.LastMessage)
	assert.Equal(t, "/categories/t/permanent", f.last().Path)
	assert.Equal(t, http.MethodDelete, f.last().Method)
}

func TestCollection_PermanentDeleteFailure(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		return failed(http.StatusNotFound, "")
	})
	c.Mutate(func(s *State[item]) { s.Trashed = []item{{ID: "t"}} })

	require.Error(t, c.PermanentDelete(context.Background(), models.ID("t")))
	st := c.Snapshot()
	assert.Equal(t, []string{"t"}, ids(st.Trashed))
	assert.Equal(t, "Failed to permanently delete category.", st.LastError)
}

func TestCollection_ToggleTwiceRestoresStatus(t *testing.T) {
	status := models.StatusActive
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		if status == models.StatusActive {
			status = models.StatusInactive
		} else {
			status = models.StatusActive
		}
		return ok(item{ID: "a", Status: status}, "")
	}, item{ID: "z"}, item{ID: "a", Status: models.StatusActive})

	v, err := c.ToggleStatus(context.Background(), models.ID("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, v.Status)
	assert.Equal(t, models.StatusInactive, c.Snapshot().Items[1].Status)
	assert.Equal(t, "/categories/a/toggle-status", f.last().Path)

	v, err = c.ToggleStatus(context.Background(), models.ID("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, v.Status)

	st := c.Snapshot()
	assert.Equal(t, []string{"z", "a"}, ids(st.Items))
	assert.Equal(t, models.StatusActive, st.Items[1].Status)
	assert.Equal(t, "Category status updated.", st.LastMessage)
}

func TestCollection_GetSetsSelected(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		return ok(item{ID: "a", Name: "Cement"}, "")
	})

	v, err := c.Get(context.Background(), models.ID("a"))
	require.NoError(t, err)
	assert.Equal(t, "Cement", v.Name)
	require.NotNil(t, c.Snapshot().Selected)
	assert.Equal(t, "a", c.Snapshot().Selected.ID)

	c.ClearSelected()
	assert.Nil(t, c.Snapshot().Selected)
}

func TestCollection_GetOtherKeyDropsSelectedOnFailure(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		return failed(http.StatusNotFound, "")
	})
	c.Mutate(func(s *State[item]) { s.Selected = &item{ID: "old"} })

	_, err := c.Get(context.Background(), models.ID("new"))
	require.Error(t, err)

	st := c.Snapshot()
	assert.Nil(t, st.Selected)
	assert.Equal(t, "Failed to fetch category.", st.LastError)
}

func TestCollection_StaleListIsDropped(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) {
		if r.Query.Get("page") == "1" {
			<-release
			return ok([]item{{ID: "old"}}, "")
		}
		return ok([]item{{ID: "new"}}, "")
	})

	done := make(chan error, 1)
	go func() { done <- c.List(context.Background(), url.Values{"page": {"1"}}) }()

	// wait until the first request is in flight
	require.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.listIssued == 1
	}, timeoutWait, tick)

	require.NoError(t, c.List(context.Background(), url.Values{"page": {"2"}}))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(c.Snapshot().Items))
}

func TestCollection_ClearErrorAndMessage(t *testing.T) {
	c, _ := newTestCollection(func(r api.Request) (*api.Response, error) { return failed(http.StatusBadRequest, "bad") })
	_, _ = c.Create(context.Background(), "", nil)
	assert.Equal(t, "bad", c.Snapshot().LastError)
	c.ClearError()
	assert.Empty(t, c.Snapshot().LastError)

	c.Mutate(func(s *State[item]) { s.LastMessage = "hi" })
	c.ClearMessage()
	assert.Empty(t, c.Snapshot().LastMessage)
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c, _ := seeded(t, nil, item{ID: "a"})
	st := c.Snapshot()
	st.Items[0].ID = "mutated"
	assert.Equal(t, "a", c.Snapshot().Items[0].ID)
}

func TestCollection_Find(t *testing.T) {
	c, _ := seeded(t, nil, item{ID: "a"})
	v, err := c.Find(models.ID("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v.ID)

	_, err = c.Find(models.ID("missing"))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLookup(t *testing.T) {
	c, f := seeded(t, func(r api.Request) (*api.Response, error) {
		if r.Path == "/materials/units" {
			return ok([]string{"bag", "kg"}, "")
		}
		return failed(http.StatusInternalServerError, "")
	}, item{ID: "a"})

	units, err := Lookup[[]string](context.Background(), c, "/materials/units", nil, "Failed to fetch units.")
	require.NoError(t, err)
	assert.Equal(t, []string{"bag", "kg"}, units)
	assert.Equal(t, "/materials/units", f.last().Path)

	_, err = Lookup[[]string](context.Background(), c, "/materials/other", nil, "Failed to fetch units.")
	require.Error(t, err)
	st := c.Snapshot()
	assert.Equal(t, "Failed to fetch units.", st.LastError)
	assert.Equal(t, []string{"a"}, ids(st.Items))
}

func TestDefaultMessages(t *testing.T) {
	m := DefaultMessages("Sub-category", "sub-categories")
	assert.Equal(t, "Failed to fetch sub-categories.", m.ListFailed)
	assert.Equal(t, "Failed to fetch deleted sub-categories.", m.ListTrashedFailed)
	assert.Equal(t, "Failed to fetch sub-category.", m.GetFailed)
	assert.Equal(t, "Sub-category permanently deleted.", m.Purged)
	assert.Equal(t, "Failed to update sub-category status.", m.ToggleFailed)
}

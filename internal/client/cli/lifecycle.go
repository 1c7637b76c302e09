package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/store"
)

var errCancelled = errors.New("cancelled")

// notice prints and clears the outcome of the last operation on c, like a
// toast that is shown once.
func notice[T store.Entity](a *App, c *store.Collection[T]) {
	s := c.Snapshot()
	if s.LastError != "" {
		a.println("Error:", s.LastError)
	}
	if s.LastMessage != "" {
		a.println(s.LastMessage)
	}
	c.ClearError()
	c.ClearMessage()
}

// params turns "key=value" arguments into query parameters.
func params(args []string) url.Values {
	q := url.Values{}
	for _, arg := range args {
		if k, v, ok := strings.Cut(arg, "="); ok && k != "" {
			q.Set(k, v)
		}
	}
	return q
}

func printPage(a *App, p models.Pagination) {
	if p.TotalPages > 0 {
		a.printf("Page %d of %d (%d total)\n", p.Page, p.TotalPages, p.Total)
	}
}

func printRows[T any](a *App, items []T, render func(T) string) {
	if len(items) == 0 {
		a.println("Nothing to show.")
		return
	}
	for i, it := range items {
		a.printf("%2d. %s\n", i+1, render(it))
	}
}

func (a *App) printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		a.println("Error:", err)
		return
	}
	a.println(string(b))
}

// lifecycle handles the subcommands shared by soft-deletable resources.
// It reports false for a subcommand it does not know.
func lifecycle[T store.Entity](ctx context.Context, a *App, c *store.Collection[T], render func(T) string, sub string, args []string) (bool, error) {
	name := c.Definition().Name
	idArg := func() (models.Key, error) {
		if len(args) < 1 {
			return models.Key{}, usageError(name + " " + sub + " <id>")
		}
		return models.ID(args[0]), nil
	}

	var err error
	switch sub {
	case "", "list":
		err = c.List(ctx, params(args))
		notice(a, c)
		if err == nil {
			s := c.Snapshot()
			printRows(a, s.Items, render)
			printPage(a, s.Page)
		}
	case "trash":
		err = c.ListTrashed(ctx, params(args))
		notice(a, c)
		if err == nil {
			s := c.Snapshot()
			printRows(a, s.Trashed, render)
			printPage(a, s.TrashedPage)
		}
	case "show":
		key, kerr := idArg()
		if kerr != nil {
			return true, kerr
		}
		var v T
		v, err = c.Get(ctx, key)
		notice(a, c)
		if err == nil {
			a.printJSON(v)
		}
	case "delete":
		key, kerr := idArg()
		if kerr != nil {
			return true, kerr
		}
		err = c.SoftDelete(ctx, key)
		notice(a, c)
	case "restore":
		key, kerr := idArg()
		if kerr != nil {
			return true, kerr
		}
		_, err = c.Restore(ctx, key)
		notice(a, c)
	case "purge":
		key, kerr := idArg()
		if kerr != nil {
			return true, kerr
		}
		if !Confirm(a.reader, "Permanently delete "+key.String()+"? This cannot be undone.", a.out) {
			return true, errCancelled
		}
		err = c.PermanentDelete(ctx, key)
		notice(a, c)
	case "toggle":
		key, kerr := idArg()
		if kerr != nil {
			return true, kerr
		}
		var body any
		if len(args) > 1 {
			body = models.StatusInput{Status: args[1]}
		}
		var v T
		v, err = c.ToggleStatus(ctx, key, body)
		notice(a, c)
		if err == nil {
			a.println(render(v))
		}
	default:
		return false, nil
	}
	return true, err
}

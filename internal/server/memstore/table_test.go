package memstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string
	Name string
}

func newRows(t *testing.T, ids ...string) *Table[row] {
	t.Helper()
	tbl := NewTable(func(r row) string { return r.ID })
	for _, id := range ids {
		require.NoError(t, tbl.Insert(row{ID: id, Name: "n-" + id}))
	}
	return tbl
}

func TestTable_InsertGetConflict(t *testing.T) {
	tbl := newRows(t, "a")

	got, err := tbl.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "n-a", got.Name)

	require.ErrorIs(t, tbl.Insert(row{ID: "a"}), ErrConflict)

	_, err = tbl.Get("zzz")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTable_FilterNewestFirst(t *testing.T) {
	tbl := newRows(t, "a", "b", "c")

	var ids []string
	for _, r := range tbl.Filter(nil) {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	only := tbl.Filter(func(r row) bool { return r.ID == "b" })
	assert.Len(t, only, 1)
}

func TestTable_Update(t *testing.T) {
	tbl := newRows(t, "a")

	got, err := tbl.Update("a", func(r *row) error {
		r.Name = "renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	boom := errors.New("boom")
	_, err = tbl.Update("a", func(r *row) error {
		r.Name = "lost"
		return boom
	})
	require.ErrorIs(t, err, boom)
	stored, _ := tbl.Get("a")
	assert.Equal(t, "renamed", stored.Name)

	_, err = tbl.Update("nope", func(*row) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTable_Delete(t *testing.T) {
	tbl := newRows(t, "a", "b")

	require.NoError(t, tbl.Delete("a"))
	require.ErrorIs(t, tbl.Delete("a"), ErrNotFound)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, "b", tbl.Filter(nil)[0].ID)
}

func TestDatabase_SeedDemo(t *testing.T) {
	db := NewDatabase()
	require.NoError(t, db.SeedDemo(time.Now()))

	assert.Equal(t, 2, db.Categories.Len())
	assert.Equal(t, 2, db.Vendors.Len())
	assert.Equal(t, 2, db.VendorMaterials.Len())
	assert.Equal(t, 1, db.Bookings.Len())

	for _, o := range db.VendorMaterials.Filter(nil) {
		_, err := db.Vendors.Get(o.Vendor.ID)
		require.NoError(t, err)
		_, err = db.Materials.Get(o.Material.ID)
		require.NoError(t, err)
	}
}

func TestDatabase_AccountByEmail(t *testing.T) {
	db := NewDatabase()
	require.NoError(t, db.Accounts.Insert(Account{Admin: models.Admin{ID: "1", Email: "Admin@BuildHub.in"}}))

	a, err := db.AccountByEmail("admin@buildhub.in")
	require.NoError(t, err)
	assert.Equal(t, "1", a.Admin.ID)

	_, err = db.AccountByEmail("other@buildhub.in")
	require.ErrorIs(t, err, ErrNotFound)
}

package workqueue

import (
	"path/filepath"
	"testing"

	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *wcdb.DB {
	t.Helper()
	db, err := wcdb.Open(filepath.Join(t.TempDir(), "wc.db"), wcdb.ReadWrite, wcdb.OpenOptions{Create: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	db := openTestDB(t)
	id1, err := Add(db, []byte("one"))
	require.NoError(t, err)
	id2, err := Add(db, []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestFetchReturnsOldestWithoutRemoving(t *testing.T) {
	db := openTestDB(t)
	_, err := Add(db, []byte("one"))
	require.NoError(t, err)
	_, err = Add(db, []byte("two"))
	require.NoError(t, err)

	id, skel, ok, err := Fetch(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, []byte("one"), skel)

	// Fetch again without Completed: still returns the same head.
	id2, _, ok2, err := Fetch(db)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.Equal(t, id, id2)
}

func TestFetchOnEmptyQueueReturnsFalse(t *testing.T) {
	db := openTestDB(t)
	_, _, ok, err := Fetch(db)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompletedRemovesItemAndAdvancesFetch(t *testing.T) {
	db := openTestDB(t)
	id1, err := Add(db, []byte("one"))
	require.NoError(t, err)
	_, err = Add(db, []byte("two"))
	require.NoError(t, err)

	require.NoError(t, Completed(db, id1))

	id, skel, ok, err := Fetch(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, id1, id)
	assert.Equal(t, []byte("two"), skel)
}

func TestCompletedOnMissingIDIsNotAnError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Completed(db, 999))
}

func TestListReturnsAllPendingInFIFOOrder(t *testing.T) {
	db := openTestDB(t)
	for _, s := range []string{"a", "b", "c"} {
		_, err := Add(db, []byte(s))
		require.NoError(t, err)
	}

	items, err := List(db)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []byte("a"), items[0].Skel)
	assert.Equal(t, []byte("b"), items[1].Skel)
	assert.Equal(t, []byte("c"), items[2].Skel)

	// List does not remove anything.
	id, _, ok, err := Fetch(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, items[0].ID, id)
}

func TestListOnEmptyQueueReturnsEmpty(t *testing.T) {
	db := openTestDB(t)
	items, err := List(db)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIDKeyZeroPadsForLexicographicOrder(t *testing.T) {
	assert.True(t, idKey(2) > idKey(1))
	assert.True(t, idKey(10) > idKey(9))
	assert.Len(t, idKey(1), idKeyWidth)
}

package wcdb

import (
	"path/filepath"
	"testing"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wc.db")
}

func TestOpenRejectsMissingWithoutCreate(t *testing.T) {
	path := tempStorePath(t)
	_, err := Open(path, ReadWrite, OpenOptions{})
	require.Error(t, err)
	assert.True(t, wcerr.Is(err, wcerr.NotAWorkingCopy))
}

func TestOpenCreatesAndReopens(t *testing.T) {
	path := tempStorePath(t)

	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db2, err := Open(path, ReadWrite, OpenOptions{})
	require.NoError(t, err)
	defer db2.Close()

	version, err := db2.readSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestCloseIsIdempotent(t *testing.T) {
	path := tempStorePath(t)
	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
}

func TestEnforceEmptyWorkQueueRejectsPending(t *testing.T) {
	path := tempStorePath(t)
	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)

	require.NoError(t, db.Update(func(tx *Tx) error {
		return tx.Put(BucketWorkQueue, "00000000000000000001", []byte("x"))
	}))
	require.NoError(t, db.Close())

	_, err = Open(path, ReadWrite, OpenOptions{EnforceEmptyWorkQueue: true})
	require.Error(t, err)
	assert.True(t, wcerr.Is(err, wcerr.CleanupRequired))
}

func TestUpdatePutGetDelete(t *testing.T) {
	path := tempStorePath(t)
	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Update(func(tx *Tx) error {
		return tx.Put(BucketBaseNodes, "foo/bar", []byte("payload"))
	}))

	var got []byte
	var ok bool
	require.NoError(t, db.View(func(tx *Tx) error {
		got, ok = tx.Get(BucketBaseNodes, "foo/bar")
		return nil
	}))
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, db.Update(func(tx *Tx) error {
		return tx.Delete(BucketBaseNodes, "foo/bar")
	}))
	require.NoError(t, db.View(func(tx *Tx) error {
		_, ok = tx.Get(BucketBaseNodes, "foo/bar")
		return nil
	}))
	assert.False(t, ok)
}

func TestGetRootSentinelKey(t *testing.T) {
	path := tempStorePath(t)
	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Update(func(tx *Tx) error {
		return tx.Put(BucketBaseNodes, "", []byte("root-row"))
	}))

	var got []byte
	var ok bool
	require.NoError(t, db.View(func(tx *Tx) error {
		got, ok = tx.Get(BucketBaseNodes, "")
		return nil
	}))
	require.True(t, ok)
	assert.Equal(t, []byte("root-row"), got)
}

func TestForEachPrefixOrderAndStop(t *testing.T) {
	path := tempStorePath(t)
	db, err := Open(path, ReadWrite, OpenOptions{Create: true})
	require.NoError(t, err)
	defer db.Close()

	paths := []string{"a/1", "a/2", "a/3", "b/1"}
	require.NoError(t, db.Update(func(tx *Tx) error {
		for _, p := range paths {
			if err := tx.Put(BucketBaseNodes, p, []byte(p)); err != nil {
				return err
			}
		}
		return nil
	}))

	var seen []string
	require.NoError(t, db.View(func(tx *Tx) error {
		return tx.ForEachPrefix(BucketBaseNodes, "a/", func(relpath string, value []byte) (bool, error) {
			seen = append(seen, relpath)
			return true, nil
		})
	}))
	assert.Equal(t, []string{"a/1", "a/2", "a/3"}, seen)

	var stopped []string
	require.NoError(t, db.View(func(tx *Tx) error {
		return tx.ForEachPrefix(BucketBaseNodes, "a/", func(relpath string, value []byte) (bool, error) {
			stopped = append(stopped, relpath)
			return false, nil
		})
	}))
	assert.Equal(t, []string{"a/1"}, stopped)
}

func TestLiteralPrefixEscaping(t *testing.T) {
	assert.Equal(t, "100%", literalPrefix(`100\%`, '\\'))
	assert.Equal(t, "a_b", literalPrefix(`a\_b`, '\\'))
	assert.Equal(t, `a\b`, literalPrefix(`a\\b`, '\\'))
	assert.Equal(t, "plain", literalPrefix("plain", '\\'))
}

package wcnode

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strconv"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

const (
	reposIDKeyPrefix  = "id/"
	reposURLKeyPrefix = "url/"
)

func reposIDKey(id int64) string {
	return fmt.Sprintf("%s%020d", reposIDKeyPrefix, id)
}

func reposURLKey(rootURL, uuid string) string {
	return reposURLKeyPrefix + rootURL + "\x1f" + uuid
}

// InternRepos interns (rootURL, uuid), returning its existing repos_id if
// already known or assigning a new one.
func InternRepos(db *wcdb.DB, rootURL, uuid string) (int64, error) {
	var id int64
	err := db.Update(func(tx *wcdb.Tx) error {
		got, ierr := InternReposTx(tx, rootURL, uuid)
		id = got
		return ierr
	})
	return id, err
}

// InternReposTx is InternRepos for a caller already inside an open
// wcdb.Tx (pkg/wcops's Relocate, which must not nest a second
// wcdb.DB.Update transaction on the same store).
func InternReposTx(tx *wcdb.Tx, rootURL, uuid string) (int64, error) {
	const op = "wcnode.InternRepos"
	if raw, ok := tx.Get(wcdb.BucketRepos, reposURLKey(rootURL, uuid)); ok {
		parsed, perr := strconv.ParseInt(string(raw), 10, 64)
		if perr != nil {
			return 0, wcerr.Wrap(wcerr.CorruptStore, op, rootURL, perr)
		}
		return parsed, nil
	}

	newID, nerr := nextReposID(tx)
	if nerr != nil {
		return 0, nerr
	}

	row := ReposCoords{ReposID: newID, RootURL: rootURL, UUID: uuid}
	var buf bytes.Buffer
	if eerr := gob.NewEncoder(&buf).Encode(row); eerr != nil {
		return 0, wcerr.Wrap(wcerr.StoreIO, op, rootURL, eerr)
	}
	if perr := tx.Put(wcdb.BucketRepos, reposIDKey(newID), buf.Bytes()); perr != nil {
		return 0, perr
	}
	if perr := tx.Put(wcdb.BucketRepos, reposURLKey(rootURL, uuid), []byte(strconv.FormatInt(newID, 10))); perr != nil {
		return 0, perr
	}
	return newID, nil
}

func nextReposID(tx *wcdb.Tx) (int64, error) {
	var max int64
	err := tx.ForEachPrefix(wcdb.BucketRepos, reposIDKeyPrefix, func(_ string, value []byte) (bool, error) {
		var row ReposCoords
		if derr := gob.NewDecoder(bytes.NewReader(value)).Decode(&row); derr != nil {
			return true, derr
		}
		if row.ReposID > max {
			max = row.ReposID
		}
		return true, nil
	})
	return max + 1, err
}

// GetRepos resolves repos_id to its interned (root-URL, UUID) pair.
func GetRepos(db *wcdb.DB, reposID int64) (ReposCoords, error) {
	const op = "wcnode.GetRepos"
	var coords ReposCoords
	err := db.View(func(tx *wcdb.Tx) error {
		raw, ok := tx.Get(wcdb.BucketRepos, reposIDKey(reposID))
		if !ok {
			return wcerr.Wrap(wcerr.CorruptStore, op, "", fmt.Errorf("no interned repository for repos_id %d", reposID))
		}
		return gob.NewDecoder(bytes.NewReader(raw)).Decode(&coords)
	})
	return coords, err
}

func init() {
	gob.Register(ReposCoords{})
}

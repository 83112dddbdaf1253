package workqueue

import (
	"fmt"
	"strconv"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wcmetrics"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

// idKeyWidth zero-pads ids so the bucket's natural lexicographic key order
// (bbolt iterates keys as raw bytes) matches numeric, and therefore
// insertion, order.
const idKeyWidth = 20

func idKey(id int64) string {
	return fmt.Sprintf("%0*d", idKeyWidth, id)
}

func parseIDKey(key string) (int64, error) {
	return strconv.ParseInt(key, 10, 64)
}

// Add appends skel — an opaque, caller-serialized work item descriptor —
// to the tail of the queue and returns its id.
func Add(db *wcdb.DB, skel []byte) (int64, error) {
	const op = "workqueue.Add"
	var id int64
	err := db.Update(func(tx *wcdb.Tx) error {
		next, err := nextID(tx)
		if err != nil {
			return err
		}
		if err := tx.Put(wcdb.BucketWorkQueue, idKey(next), skel); err != nil {
			return err
		}
		id = next
		return nil
	})
	if err != nil {
		return 0, wcerr.Wrap(wcerr.StoreIO, op, "", err)
	}
	wcmetrics.WorkQueueDepth.Inc()
	return id, nil
}

func nextID(tx *wcdb.Tx) (int64, error) {
	var max int64
	err := tx.ForEachPrefix(wcdb.BucketWorkQueue, "", func(key string, _ []byte) (bool, error) {
		id, err := parseIDKey(key)
		if err != nil {
			return true, err
		}
		if id > max {
			max = id
		}
		return true, nil
	})
	return max + 1, err
}

// Fetch returns the head of the queue — the oldest item still
// pending — without removing it. ok is false when the queue is empty.
func Fetch(db *wcdb.DB) (id int64, skel []byte, ok bool, err error) {
	const op = "workqueue.Fetch"
	verr := db.View(func(tx *wcdb.Tx) error {
		return tx.ForEachPrefix(wcdb.BucketWorkQueue, "", func(key string, value []byte) (bool, error) {
			parsed, perr := parseIDKey(key)
			if perr != nil {
				return true, perr
			}
			id, skel, ok = parsed, value, true
			return false, nil
		})
	})
	if verr != nil {
		return 0, nil, false, wcerr.Wrap(wcerr.StoreIO, op, "", verr)
	}
	return id, skel, ok, nil
}

// Item is one queue entry, as returned by List.
type Item struct {
	ID   int64
	Skel []byte
}

// List returns every pending item in FIFO order without removing any of
// them. Unlike Fetch, which a consumer loop drains one at a time, List is
// a read-only introspection helper for callers (such as the cmd/wcadmin
// demonstration CLI) that want to see the whole queue at once.
func List(db *wcdb.DB) ([]Item, error) {
	const op = "workqueue.List"
	var items []Item
	err := db.View(func(tx *wcdb.Tx) error {
		return tx.ForEachPrefix(wcdb.BucketWorkQueue, "", func(key string, value []byte) (bool, error) {
			id, perr := parseIDKey(key)
			if perr != nil {
				return true, perr
			}
			items = append(items, Item{ID: id, Skel: value})
			return true, nil
		})
	})
	if err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, op, "", err)
	}
	return items, nil
}

// Completed removes item id from the queue. Removing an id that is no
// longer present is not an error.
func Completed(db *wcdb.DB, id int64) error {
	const op = "workqueue.Completed"
	var existed bool
	err := db.Update(func(tx *wcdb.Tx) error {
		_, existed = tx.Get(wcdb.BucketWorkQueue, idKey(id))
		return tx.Delete(wcdb.BucketWorkQueue, idKey(id))
	})
	if err != nil {
		return wcerr.Wrap(wcerr.StoreIO, op, "", err)
	}
	if existed {
		wcmetrics.WorkQueueDepth.Dec()
		wcmetrics.WorkItemsCompleted.Inc()
	}
	return nil
}

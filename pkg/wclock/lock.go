package wclock

import (
	"sync"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wcmetrics"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

// Locker tracks advisory working-copy locks for one store. The on-disk
// row is the source of truth for whether a path is locked at all; the
// in-memory owned set is this process's private belief about which of
// those locks it took out itself, and the two are deliberately allowed
// to drift apart (e.g. after a crash, or after another process steals a
// lock) until LockRemove, MarkLocked or OwnLock is used to reconcile
// them.
type Locker struct {
	DB *wcdb.DB

	mu    sync.Mutex
	owned map[string]bool
}

// NewLocker wraps db with an empty in-memory ownership set.
func NewLocker(db *wcdb.DB) *Locker {
	return &Locker{DB: db, owned: make(map[string]bool)}
}

// LockSet inserts a lock row for relpath. If a row already exists it
// fails with wcerr.Locked instead of overwriting it.
func (l *Locker) LockSet(relpath string) error {
	const op = "wclock.LockSet"
	err := l.DB.Update(func(tx *wcdb.Tx) error {
		if _, ok := tx.Get(wcdb.BucketLocks, relpath); ok {
			return wcerr.Wrap(wcerr.Locked, op, relpath, nil)
		}
		return tx.Put(wcdb.BucketLocks, relpath, []byte{})
	})
	if err != nil {
		if wcerr.Is(err, wcerr.Locked) {
			wcmetrics.AdvisoryLockContention.Inc()
		}
		return err
	}
	wcmetrics.AdvisoryLocksHeld.Inc()
	return nil
}

// LockCheck reports whether a lock row exists for relpath, regardless of
// which process (if any) believes it owns it.
func (l *Locker) LockCheck(relpath string) (bool, error) {
	var locked bool
	err := l.DB.View(func(tx *wcdb.Tx) error {
		_, locked = tx.Get(wcdb.BucketLocks, relpath)
		return nil
	})
	return locked, err
}

// LockRemove deletes the lock row for relpath and clears this process's
// in-memory ownership bit for it. Removing a row that doesn't exist is
// not an error.
func (l *Locker) LockRemove(relpath string) error {
	existed, err := l.LockCheck(relpath)
	if err != nil {
		return err
	}
	if err := l.DB.Update(func(tx *wcdb.Tx) error {
		return tx.Delete(wcdb.BucketLocks, relpath)
	}); err != nil {
		return err
	}
	if existed {
		wcmetrics.AdvisoryLocksHeld.Dec()
	}
	l.mu.Lock()
	delete(l.owned, relpath)
	l.mu.Unlock()
	return nil
}

// MarkLocked sets the in-memory "we own this" bit for relpath without
// touching the on-disk row, reconciling this process's belief with a
// lock it has determined — by some means outside this package, such as
// inspecting the row left behind by its own earlier, possibly crashed
// run — that it already holds.
func (l *Locker) MarkLocked(relpath string) {
	l.mu.Lock()
	l.owned[relpath] = true
	l.mu.Unlock()
}

// OwnLock reports the in-memory "we own this" bit for relpath.
func (l *Locker) OwnLock(relpath string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owned[relpath]
}

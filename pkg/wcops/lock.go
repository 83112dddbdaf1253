package wcops

import (
	"time"

	"github.com/cuemby/wcmeta/pkg/wcnode"
)

// StoreLock records a repository-granted path lock on relpath's BASE row
// (distinct from pkg/wclock's in-process advisory working-copy lock: this
// is the token a server hands out over the wire and the client caches
// locally so it can present it on the next commit). The spec's data model
// already carries "optional lock info" on BASE rows; this is its write
// entry point (SPEC_FULL §4.6).
func StoreLock(s *wcnode.Store, relpath, token, owner, comment string, created time.Time) error {
	return s.LockAdd(relpath, wcnode.LockInfo{
		Token:   token,
		Owner:   owner,
		Comment: comment,
		Created: created,
	})
}

// ClearLock removes the repository-granted path lock cached on relpath's
// BASE row, typically after an unlock or after the lock is broken/stolen
// server-side.
func ClearLock(s *wcnode.Store, relpath string) error {
	return s.LockRemove(relpath)
}

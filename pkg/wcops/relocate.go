package wcops

import (
	"strings"

	"github.com/cuemby/wcmeta/internal/wcmetrics"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
	"github.com/cuemby/wcmeta/pkg/wcscan"
)

// Relocate rewrites every recorded repository coordinate under dirRelpath
// after the repository's root URL has changed, in one transaction:
// resolves or creates a repos_id for newRootURL (preserving the UUID from
// dirRelpath's current repository), then rewrites every BASE row's
// repos_id (which also carries the BASE-row lock-info field, so
// server-granted locks move with their node) and every WORKING row's
// copyfrom repos_id that still points at the old repos_id. The DAV cache
// is cleared on every BASE row under the same subtree (spec.md §4.6).
//
// This store has no secondary index on repos_relpath, so the bulk rewrite
// scans the base/working buckets by relpath key prefix (dirRelpath) and
// filters each row in Go with underSubtree and the old repos_id.
func Relocate(s *wcnode.Store, dirRelpath, newRootURL string) error {
	old, err := wcscan.ScanBaseRepos(s.DB, dirRelpath)
	if err != nil {
		return err
	}

	err = s.DB.Update(func(tx *wcdb.Tx) error {
		newReposID, err := wcnode.InternReposTx(tx, newRootURL, old.UUID)
		if err != nil {
			return err
		}

		if err := rewriteBaseRepos(tx, dirRelpath, old.ReposID, newReposID); err != nil {
			return err
		}
		if err := rewriteWorkingCopyfromRepos(tx, dirRelpath, old.ReposID, newReposID); err != nil {
			return err
		}
		return clearDavCacheUnder(tx, dirRelpath)
	})
	if err == nil {
		wcmetrics.RelocationsTotal.Inc()
	}
	return wcnode.NotifyOnSuccess(s, dirRelpath, err)
}

func rewriteBaseRepos(tx *wcdb.Tx, dirRelpath string, oldReposID, newReposID int64) error {
	var pending []string
	if err := tx.ForEachPrefix(wcdb.BucketBaseNodes, dirRelpath, func(relpath string, _ []byte) (bool, error) {
		if underSubtree(relpath, dirRelpath) {
			pending = append(pending, relpath)
		}
		return true, nil
	}); err != nil {
		return err
	}
	for _, relpath := range pending {
		base, ok, err := wcnode.GetBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok || base.ReposID != oldReposID {
			continue
		}
		base.ReposID = newReposID
		if err := wcnode.PutBaseRow(tx, relpath, base); err != nil {
			return err
		}
	}
	return nil
}

func rewriteWorkingCopyfromRepos(tx *wcdb.Tx, dirRelpath string, oldReposID, newReposID int64) error {
	var pending []string
	if err := tx.ForEachPrefix(wcdb.BucketWorkNodes, dirRelpath, func(relpath string, _ []byte) (bool, error) {
		if underSubtree(relpath, dirRelpath) {
			pending = append(pending, relpath)
		}
		return true, nil
	}); err != nil {
		return err
	}
	for _, relpath := range pending {
		working, ok, err := wcnode.GetWorkingRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok || working.CopyFrom.ReposID != oldReposID {
			continue
		}
		working.CopyFrom.ReposID = newReposID
		if err := wcnode.PutWorkingRow(tx, relpath, working); err != nil {
			return err
		}
	}
	return nil
}

func clearDavCacheUnder(tx *wcdb.Tx, dirRelpath string) error {
	var pending []string
	if err := tx.ForEachPrefix(wcdb.BucketBaseNodes, dirRelpath, func(relpath string, _ []byte) (bool, error) {
		if underSubtree(relpath, dirRelpath) {
			pending = append(pending, relpath)
		}
		return true, nil
	}); err != nil {
		return err
	}
	for _, relpath := range pending {
		base, ok, err := wcnode.GetBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok || base.DavCache == nil {
			continue
		}
		base.DavCache = nil
		if err := wcnode.PutBaseRow(tx, relpath, base); err != nil {
			return err
		}
	}
	return nil
}

// underSubtree reports whether relpath is dirRelpath itself or a
// descendant of it. A literal byte-prefix match alone would also accept
// an unrelated sibling whose name merely starts with dirRelpath's (e.g.
// "a/bc" under "a/b"), so the boundary is checked explicitly here.
func underSubtree(relpath, dirRelpath string) bool {
	if dirRelpath == "" {
		return true
	}
	return relpath == dirRelpath || strings.HasPrefix(relpath, dirRelpath+"/")
}

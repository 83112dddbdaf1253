package wcops

import (
	"fmt"
	"time"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wcmetrics"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
)

// CommitInput gathers the arguments spec.md §4.6's commit op takes beyond
// the target path itself. Exactly one of Digest or Children must be set,
// matching whether the committed node resolves to a file or a directory.
type CommitInput struct {
	Relpath        string
	Revision       int64
	Date           time.Time
	Author         string
	Digest         wcdb.Checksum
	Children       []string
	DavCache       []byte
	KeepChangelist bool

	// ReposID/ReposRelpath let a caller that has already resolved explicit
	// repository coordinates (e.g. after an update from a fresh
	// checkout) supply them directly. Leave ReposID zero to inherit
	// coordinates from the node's own current rows, falling back to an
	// upward scan when none are recorded anywhere on the chain.
	ReposID      int64
	ReposRelpath string
}

// Commit collapses the WORKING layer onto BASE for relpath after a
// successful push to the repository, in one transaction: the new BASE
// row takes its kind from WORKING (if present) else BASE, its properties
// from ACTUAL, then WORKING, then BASE (first non-null wins), and its
// repository coordinates from the caller or, failing that, from whatever
// coordinates are already recorded on the chain. The WORKING row is
// deleted. ACTUAL is deleted too, unless keep-changelist asked to
// preserve an existing changelist, in which case ACTUAL is reset to
// changelist-only (spec.md §4.6).
func Commit(s *wcnode.Store, in CommitInput) error {
	const op = "wcops.Commit"

	hasDigest := !in.Digest.IsZero()
	hasChildren := len(in.Children) > 0
	if hasDigest == hasChildren {
		return wcerr.Wrap(wcerr.UnexpectedStatus, op, in.Relpath,
			fmt.Errorf("commit requires exactly one of a digest (file) or a children list (directory)"))
	}
	wantKind := wcnode.KindFile
	if hasChildren {
		wantKind = wcnode.KindDir
	}

	start := time.Now()
	defer wcmetrics.ObserveCommitDuration(start)

	err := s.DB.Update(func(tx *wcdb.Tx) error {
		base, baseOK, err := wcnode.GetBaseRow(tx, in.Relpath)
		if err != nil {
			return err
		}
		working, workingOK, err := wcnode.GetWorkingRow(tx, in.Relpath)
		if err != nil {
			return err
		}
		actual, actualOK, err := wcnode.GetActualRow(tx, in.Relpath)
		if err != nil {
			return err
		}

		var kind wcnode.Kind
		var depth wcnode.Depth
		switch {
		case workingOK:
			kind, depth = working.Kind, working.Depth
		case baseOK:
			kind, depth = base.Kind, base.Depth
		default:
			kind = wantKind
		}
		if kind != wantKind {
			return wcerr.Wrap(wcerr.UnexpectedStatus, op, in.Relpath,
				fmt.Errorf("commit digest/children shape does not match node kind %q", kind))
		}

		var props wcdb.Properties
		switch {
		case actualOK && actual.Properties != nil:
			props = actual.Properties
		case workingOK && working.Properties != nil:
			props = working.Properties
		case baseOK:
			props = base.Properties
		}

		reposID, reposRelpath := in.ReposID, in.ReposRelpath
		if reposID == 0 {
			switch {
			case workingOK && working.CopyFrom.IsSet():
				reposID, reposRelpath = working.CopyFrom.ReposID, working.CopyFrom.ReposRelpath
			case baseOK && base.ReposID != 0:
				reposID, reposRelpath = base.ReposID, base.ReposRelpath
			default:
				reposID, reposRelpath, err = inheritReposCoords(tx, in.Relpath)
				if err != nil {
					return err
				}
			}
		}

		parent, hasParent := wcnode.ParentRelpath(in.Relpath)
		newBase := &wcnode.BaseRow{
			Presence:         wcnode.PresenceNormal,
			Kind:             kind,
			Revision:         in.Revision,
			ReposID:          reposID,
			ReposRelpath:     reposRelpath,
			LastChange:       wcnode.ChangeInfo{Revision: in.Revision, Date: in.Date, Author: in.Author},
			Depth:            depth,
			Properties:       props,
			DavCache:         in.DavCache,
			ParentRelpath:    parent,
			HasParentRelpath: hasParent,
		}
		if hasDigest {
			newBase.Checksum = in.Digest
		}
		if baseOK {
			newBase.Lock = base.Lock
		}
		if err := wcnode.PutBaseRow(tx, in.Relpath, newBase); err != nil {
			return err
		}

		if workingOK {
			if err := wcnode.DeleteWorkingRow(tx, in.Relpath); err != nil {
				return err
			}
		}

		if actualOK {
			if in.KeepChangelist && actual.Changelist != "" {
				kept := &wcnode.ActualRow{
					Changelist:       actual.Changelist,
					ParentRelpath:    parent,
					HasParentRelpath: hasParent,
				}
				return wcnode.PutActualRow(tx, in.Relpath, kept)
			}
			return wcnode.DeleteActualRow(tx, in.Relpath)
		}
		return nil
	})
	if err == nil {
		wcmetrics.CommitsTotal.Inc()
	}
	return wcnode.NotifyOnSuccess(s, in.Relpath, err)
}

// inheritReposCoords ascends BASE rows within an already-open transaction
// looking for explicit repository coordinates, duplicating the walk
// pkg/wcscan's ScanBaseRepos performs against a fresh read transaction.
// It exists as its own tx-scoped copy rather than a call into wcscan
// because bbolt does not support opening a second transaction against the
// same handle from inside an in-flight write transaction.
func inheritReposCoords(tx *wcdb.Tx, relpath string) (int64, string, error) {
	const op = "wcops.inheritReposCoords"
	cursor := relpath
	var suffix []string
	for {
		base, ok, err := wcnode.GetBaseRow(tx, cursor)
		if err != nil {
			return 0, "", err
		}
		if ok && base.ReposID != 0 {
			return base.ReposID, composeRelpath(base.ReposRelpath, suffix), nil
		}
		parent, hasParent := wcnode.ParentRelpath(cursor)
		if !hasParent {
			return 0, "", wcerr.Wrap(wcerr.CorruptStore, op, relpath,
				fmt.Errorf("ascent reached the wcroot without finding repository coordinates"))
		}
		suffix = append(suffix, wcnode.Basename(cursor))
		cursor = parent
	}
}

func composeRelpath(baseRelpath string, suffix []string) string {
	if len(suffix) == 0 {
		return baseRelpath
	}
	parts := make([]string, len(suffix))
	for i, c := range suffix {
		parts[len(suffix)-1-i] = c
	}
	tail := parts[0]
	for _, p := range parts[1:] {
		tail += "/" + p
	}
	if baseRelpath == "" {
		return tail
	}
	return baseRelpath + "/" + tail
}

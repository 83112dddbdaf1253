package wcscan

import (
	"fmt"
	"strings"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
)

// BaseRepos is the result of ScanBaseRepos.
type BaseRepos struct {
	ReposID      int64
	ReposRelpath string
	RootURL      string
	UUID         string
}

// ScanBaseRepos ascends from relpath until it finds a BASE row carrying
// explicit repository coordinates, composing the found repos_relpath
// with the suffix accumulated while ascending, then resolves repos_id
// to (root-url, uuid) via the interned repositories table (spec.md
// §4.5). Fails with CorruptStore if the WCROOT's own BASE row also
// lacks coordinates.
func ScanBaseRepos(db *wcdb.DB, relpath string) (BaseRepos, error) {
	const op = "wcscan.ScanBaseRepos"

	var reposID int64
	var reposRelpath string

	err := db.View(func(tx *wcdb.Tx) error {
		cursor := relpath
		var suffix []string
		for {
			base, ok, err := wcnode.GetBaseRow(tx, cursor)
			if err != nil {
				return err
			}
			if ok && base.ReposID != 0 {
				reposID = base.ReposID
				reposRelpath = composeRelpath(base.ReposRelpath, suffix)
				return nil
			}

			parent, hasParent := wcnode.ParentRelpath(cursor)
			if !hasParent {
				return wcerr.Wrap(wcerr.CorruptStore, op, relpath,
					fmt.Errorf("ascent reached the wcroot without finding repository coordinates"))
			}
			suffix = append(suffix, wcnode.Basename(cursor))
			cursor = parent
		}
	})
	if err != nil {
		return BaseRepos{}, err
	}

	coords, err := wcnode.GetRepos(db, reposID)
	if err != nil {
		return BaseRepos{}, err
	}
	return BaseRepos{ReposID: reposID, ReposRelpath: reposRelpath, RootURL: coords.RootURL, UUID: coords.UUID}, nil
}

// composeRelpath joins baseRelpath with suffix (accumulated deepest
// component first) into root-to-leaf order.
func composeRelpath(baseRelpath string, suffix []string) string {
	if len(suffix) == 0 {
		return baseRelpath
	}
	parts := make([]string, len(suffix))
	for i, c := range suffix {
		parts[len(suffix)-1-i] = c
	}
	tail := strings.Join(parts, "/")
	if baseRelpath == "" {
		return tail
	}
	return baseRelpath + "/" + tail
}

// Addition is the result of ScanAddition.
type Addition struct {
	Status        wcnode.Status
	OpRootRelpath string
	Repos         BaseRepos
	CopyFrom      wcnode.CopyFrom
	MovedHere     bool
}

// ScanAddition ascends WORKING rows of presence=normal starting at
// relpath (which itself must carry WORKING.presence=normal), finding
// the operation root — the highest ancestor still inside the same
// WORKING-normal subtree — and the nearest copyfrom triple encountered
// along the way, then derives implied repository coordinates by
// scanning base repos from the operation root (spec.md §4.5).
func ScanAddition(db *wcdb.DB, relpath string) (Addition, error) {
	const op = "wcscan.ScanAddition"

	var opRoot string
	var copyFrom wcnode.CopyFrom
	var movedHere bool
	var haveCopyFrom bool

	err := db.View(func(tx *wcdb.Tx) error {
		start, ok, err := wcnode.GetWorkingRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok || start.Presence != wcnode.WorkingNormal {
			return wcerr.Wrap(wcerr.UnexpectedStatus, op, relpath,
				fmt.Errorf("scan_addition requires WORKING.presence=normal at the start node"))
		}

		opRoot = relpath
		if start.CopyFrom.IsSet() {
			copyFrom, movedHere, haveCopyFrom = start.CopyFrom, start.MovedHere, true
		}

		cursor := relpath
		for {
			parent, hasParent := wcnode.ParentRelpath(cursor)
			if !hasParent {
				break
			}
			parentWorking, ok, err := wcnode.GetWorkingRow(tx, parent)
			if err != nil {
				return err
			}
			if !ok || parentWorking.Presence != wcnode.WorkingNormal {
				break
			}
			opRoot = parent
			if !haveCopyFrom && parentWorking.CopyFrom.IsSet() {
				copyFrom, movedHere, haveCopyFrom = parentWorking.CopyFrom, parentWorking.MovedHere, true
			}
			cursor = parent
		}
		return nil
	})
	if err != nil {
		return Addition{}, err
	}

	implied, err := ScanBaseRepos(db, opRoot)
	if err != nil {
		return Addition{}, err
	}

	status := wcnode.StatusAdded
	switch {
	case haveCopyFrom && movedHere:
		status = wcnode.StatusMovedHere
	case haveCopyFrom:
		status = wcnode.StatusCopied
	}

	return Addition{
		Status:        status,
		OpRootRelpath: opRoot,
		Repos:         implied,
		CopyFrom:      copyFrom,
		MovedHere:     movedHere,
	}, nil
}

// Deletion is the result of ScanDeletion.
type Deletion struct {
	BaseDelRoot     string
	BaseWasReplaced bool
	MovedToPath     string
	WorkDelRoot     string
}

// ScanDeletion ascends rows carrying a deletion signal starting at
// relpath (which must have WORKING.presence in {not-present,
// base-deleted}), identifying the root of a WORKING-subtree deletion,
// the nearest move-destination (if any) and its BASE-deletion root, and
// whether BASE.normal/WORKING.normal pair anywhere up the chain
// (base_was_replaced). The walk terminates when the next step would
// leave the WORKING subtree (spec.md §4.5).
func ScanDeletion(db *wcdb.DB, relpath string) (Deletion, error) {
	const op = "wcscan.ScanDeletion"
	var result Deletion

	err := db.View(func(tx *wcdb.Tx) error {
		start, ok, err := wcnode.GetWorkingRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok || (start.Presence != wcnode.WorkingNotPresent && start.Presence != wcnode.WorkingBaseDeleted) {
			return wcerr.Wrap(wcerr.UnexpectedStatus, op, relpath,
				fmt.Errorf("scan_deletion requires WORKING.presence in {not-present, base-deleted} at the start node"))
		}

		if start.MovedTo != "" {
			result.MovedToPath = start.MovedTo
			result.BaseDelRoot = relpath
		}

		cursor := relpath
		curWorking := start
		for {
			parent, hasParent := wcnode.ParentRelpath(cursor)
			if !hasParent {
				break
			}
			parentWorking, ok, err := wcnode.GetWorkingRow(tx, parent)
			if err != nil {
				return err
			}
			if !ok {
				break // leaving the WORKING subtree
			}

			if parentWorking.Presence == wcnode.WorkingNormal && curWorking.Presence == wcnode.WorkingNotPresent {
				result.WorkDelRoot = cursor
			}

			if parentWorking.MovedTo != "" && result.BaseDelRoot == "" {
				result.MovedToPath = parentWorking.MovedTo
				result.BaseDelRoot = parent
			}

			parentBase, baseOK, err := wcnode.GetBaseRow(tx, parent)
			if err != nil {
				return err
			}
			if baseOK && parentBase.Presence == wcnode.PresenceNormal && parentWorking.Presence == wcnode.WorkingNormal {
				result.BaseWasReplaced = true
			}

			cursor = parent
			curWorking = parentWorking
		}

		if result.BaseDelRoot == "" {
			result.BaseDelRoot = cursor
		}
		if result.WorkDelRoot == "" {
			result.WorkDelRoot = relpath
		}
		return nil
	})
	if err != nil {
		return Deletion{}, err
	}
	return result, nil
}

package wcnode

import (
	"fmt"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

func newBaseRow(relpath string, reposID int64, reposRelpath string, rev int64, change ChangeInfo, kind Kind) *BaseRow {
	parent, hasParent := parentOf(relpath)
	return &BaseRow{
		Presence:         PresenceNormal,
		Kind:             kind,
		Revision:         rev,
		ReposID:          reposID,
		ReposRelpath:     reposRelpath,
		LastChange:       change,
		ParentRelpath:    parent,
		HasParentRelpath: hasParent,
	}
}

// BaseAddFile inserts or replaces the BASE row for a file.
func (s *Store) BaseAddFile(relpath string, reposID int64, reposRelpath string, rev int64, change ChangeInfo, checksum wcdb.Checksum, translatedSize int64, props wcdb.Properties) error {
	const op = "wcnode.BaseAddFile"
	if checksum.IsZero() {
		return wcerr.Wrap(wcerr.BadChecksumKind, op, relpath, fmt.Errorf("file BASE row requires a checksum"))
	}
	row := newBaseRow(relpath, reposID, reposRelpath, rev, change, KindFile)
	row.Checksum = checksum
	row.TranslatedSize = translatedSize
	row.Properties = props
	return s.writeBaseRow(op, relpath, row)
}

// BaseAddSymlink inserts or replaces the BASE row for a symlink.
func (s *Store) BaseAddSymlink(relpath string, reposID int64, reposRelpath string, rev int64, change ChangeInfo, target string, props wcdb.Properties) error {
	const op = "wcnode.BaseAddSymlink"
	row := newBaseRow(relpath, reposID, reposRelpath, rev, change, KindSymlink)
	row.SymlinkTarget = target
	row.Properties = props
	return s.writeBaseRow(op, relpath, row)
}

// BaseAddDirectory inserts or replaces the BASE row for a directory and
// seeds a presence=incomplete placeholder BASE row for every name in
// children that doesn't already have a BASE row, so the tree can be walked
// before full child data arrives (spec.md §4.4).
func (s *Store) BaseAddDirectory(relpath string, reposID int64, reposRelpath string, rev int64, change ChangeInfo, depth Depth, props wcdb.Properties, children []string) error {
	const op = "wcnode.BaseAddDirectory"
	row := newBaseRow(relpath, reposID, reposRelpath, rev, change, KindDir)
	row.Depth = depth
	row.Properties = props

	err := s.DB.Update(func(tx *wcdb.Tx) error {
		if err := putBaseRow(tx, relpath, row); err != nil {
			return err
		}
		for _, child := range children {
			childPath := joinRelpath(relpath, child)
			if _, ok, err := getBaseRow(tx, childPath); err != nil {
				return err
			} else if ok {
				continue
			}
			placeholder := &BaseRow{
				Presence:         PresenceIncomplete,
				ParentRelpath:    relpath,
				HasParentRelpath: true,
			}
			if err := putBaseRow(tx, childPath, placeholder); err != nil {
				return err
			}
		}
		return nil
	})
	return notifyOnSuccess(s, relpath, err)
}

// BaseAddAbsent inserts or replaces a BASE row recording that the server
// knows a node of the given kind exists at relpath but its contents are
// not present locally (presence=absent, per spec.md §3).
func (s *Store) BaseAddAbsent(relpath string, kind Kind, reposID int64, reposRelpath string, rev int64) error {
	const op = "wcnode.BaseAddAbsent"
	row := newBaseRow(relpath, reposID, reposRelpath, rev, ChangeInfo{}, kind)
	row.Presence = PresenceAbsent
	return s.writeBaseRow(op, relpath, row)
}

func (s *Store) writeBaseRow(op, relpath string, row *BaseRow) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		return putBaseRow(tx, relpath, row)
	})
	return notifyOnSuccess(s, relpath, err)
}

// BaseRemove deletes the BASE row for relpath.
func (s *Store) BaseRemove(relpath string) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		return deleteBaseRow(tx, relpath)
	})
	return notifyOnSuccess(s, relpath, err)
}

// SetProps upserts the ACTUAL property blob for relpath.
func (s *Store) SetProps(relpath string, props wcdb.Properties) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			parent, hasParent := parentOf(relpath)
			actual = &ActualRow{ParentRelpath: parent, HasParentRelpath: hasParent}
		}
		actual.Properties = props
		return putActualRow(tx, relpath, actual)
	})
	return notifyOnSuccess(s, relpath, err)
}

// Layer selects the underlying layer set_pristine_props writes to.
type Layer int

const (
	LayerBase Layer = iota
	LayerWorking
)

// SetPristineProps upserts the property blob on the BASE or WORKING layer.
// Fails with PathNotFound if that layer has no row for relpath.
func (s *Store) SetPristineProps(relpath string, layer Layer, props wcdb.Properties) error {
	const op = "wcnode.SetPristineProps"
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		switch layer {
		case LayerBase:
			row, ok, err := getBaseRow(tx, relpath)
			if err != nil {
				return err
			}
			if !ok {
				return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
			}
			row.Properties = props
			return putBaseRow(tx, relpath, row)
		default:
			row, ok, err := getWorkingRow(tx, relpath)
			if err != nil {
				return err
			}
			if !ok {
				return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
			}
			row.Properties = props
			return putWorkingRow(tx, relpath, row)
		}
	})
	return notifyOnSuccess(s, relpath, err)
}

// SetChangelist sets or clears the changelist annotation for relpath.
func (s *Store) SetChangelist(relpath string, changelist string) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, relpath)
		if err != nil {
			return err
		}
		switch {
		case ok:
			actual.Changelist = changelist
			if actual.IsEmpty() {
				return deleteActualRow(tx, relpath)
			}
			return putActualRow(tx, relpath, actual)
		case changelist != "":
			parent, hasParent := parentOf(relpath)
			row := &ActualRow{Changelist: changelist, ParentRelpath: parent, HasParentRelpath: hasParent}
			return putActualRow(tx, relpath, row)
		default:
			return nil
		}
	})
	return notifyOnSuccess(s, relpath, err)
}

// SetTreeConflict records or clears a tree-conflict victim entry for
// childName under parentRelpath's ACTUAL row. Passing a nil conflict
// clears the entry; if the row becomes empty as a result and didn't exist
// before, this is a no-op (spec.md §4.4).
func (s *Store) SetTreeConflict(parentRelpath, childName string, conflict *TreeConflictInfo) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, parentRelpath)
		if err != nil {
			return err
		}
		if !ok {
			if conflict == nil {
				return nil
			}
			p, hasParent := parentOf(parentRelpath)
			actual = &ActualRow{ParentRelpath: p, HasParentRelpath: hasParent, TreeConflicts: map[string]TreeConflictInfo{}}
		}
		if actual.TreeConflicts == nil {
			actual.TreeConflicts = map[string]TreeConflictInfo{}
		}
		if conflict == nil {
			delete(actual.TreeConflicts, childName)
		} else {
			actual.TreeConflicts[childName] = *conflict
		}
		if actual.IsEmpty() {
			return deleteActualRow(tx, parentRelpath)
		}
		return putActualRow(tx, parentRelpath, actual)
	})
	return notifyOnSuccess(s, parentRelpath, err)
}

// MarkResolved clears the requested conflict categories for relpath in one
// transaction (spec.md §9 resolves the source's atomicity TODO in favor of
// running all three clears together).
func (s *Store) MarkResolved(relpath string, text, props, tree bool) error {
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, relpath)
		if err != nil {
			return err
		}
		if ok {
			if text {
				actual.TextConflicted = false
				actual.ConflictOld, actual.ConflictNew, actual.ConflictWorking = "", "", ""
			}
			if props {
				actual.PropsConflicted = nil
			}
			if actual.IsEmpty() {
				if delErr := deleteActualRow(tx, relpath); delErr != nil {
					return delErr
				}
			} else if putErr := putActualRow(tx, relpath, actual); putErr != nil {
				return putErr
			}
		}
		if tree {
			parent, hasParent := parentOf(relpath)
			if hasParent {
				parentActual, pok, perr := getActualRow(tx, parent)
				if perr != nil {
					return perr
				}
				if pok {
					delete(parentActual.TreeConflicts, basename(relpath))
					if parentActual.IsEmpty() {
						return deleteActualRow(tx, parent)
					}
					return putActualRow(tx, parent, parentActual)
				}
			}
		}
		return nil
	})
	return notifyOnSuccess(s, relpath, err)
}

// LockAdd stores repository-granted lock metadata on relpath's BASE row.
func (s *Store) LockAdd(relpath string, lock LockInfo) error {
	const op = "wcnode.LockAdd"
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}
		base.Lock = &lock
		return putBaseRow(tx, relpath, base)
	})
	return notifyOnSuccess(s, relpath, err)
}

// LockRemove clears repository-granted lock metadata on relpath's BASE row.
func (s *Store) LockRemove(relpath string) error {
	const op = "wcnode.LockRemove"
	err := s.DB.Update(func(tx *wcdb.Tx) error {
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}
		base.Lock = nil
		return putBaseRow(tx, relpath, base)
	})
	return notifyOnSuccess(s, relpath, err)
}

// notifyOnSuccess invokes the Store's OnMutate hook for relpath only when
// err is nil, then returns err unchanged.
func notifyOnSuccess(s *Store, relpath string, err error) error {
	if err != nil {
		return err
	}
	s.notify(relpath)
	return nil
}

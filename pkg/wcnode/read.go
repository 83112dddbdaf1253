package wcnode

import (
	"sort"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

// Info is the unified read across BASE, WORKING, and ACTUAL for one node
// (spec.md §4.4's read_info).
type Info struct {
	Status        Status
	Kind          Kind
	Revision      int64
	ReposRelpath  string // only set when this row carries explicit coords
	ReposID       int64
	Depth         Depth
	Checksum      wcdb.Checksum
	BaseShadowed  bool
	Conflicted    bool
	Changelist    string
	Lock          *LockInfo
	HasBase       bool
	HasWorking    bool
	CopyFrom      CopyFrom
	MovedHere     bool
}

// Store is the C4 node-model handle for one WCROOT's store. OnMutate, if
// set, is invoked with the affected relpath after every successful write
// verb, so a caller-held directory-entries cache can be invalidated.
type Store struct {
	DB       *wcdb.DB
	OnMutate func(relpath string)
}

func (s *Store) notify(relpath string) {
	if s.OnMutate != nil {
		s.OnMutate(relpath)
	}
}

// ReadInfo composes the three-layer status for relpath.
func (s *Store) ReadInfo(relpath string) (*Info, error) {
	const op = "wcnode.ReadInfo"
	var info *Info
	err := s.DB.View(func(tx *wcdb.Tx) error {
		base, _, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		working, _, err := getWorkingRow(tx, relpath)
		if err != nil {
			return err
		}

		status, ok, err := composeStatus(base, working)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}

		conflicted, changelist, lock, cerr := conflictAndChangelist(tx, relpath, base)
		if cerr != nil {
			return cerr
		}

		info = &Info{
			Status:       status,
			BaseShadowed: base != nil && working != nil,
			Conflicted:   conflicted,
			Changelist:   changelist,
			Lock:         lock,
			HasBase:      base != nil,
			HasWorking:   working != nil,
		}

		switch {
		case working != nil && working.Presence == WorkingNormal:
			info.Kind = NormalizeKind(working.Kind)
			info.Depth = working.Depth
			info.Checksum = working.Checksum
			info.CopyFrom = working.CopyFrom
			info.MovedHere = working.MovedHere
			if base != nil {
				info.Revision = base.Revision
			}
		case base != nil:
			info.Kind = NormalizeKind(base.Kind)
			info.Revision = base.Revision
			info.Depth = base.Depth
			info.Checksum = base.Checksum
			info.ReposID = base.ReposID
			info.ReposRelpath = base.ReposRelpath
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func conflictAndChangelist(tx *wcdb.Tx, relpath string, base *BaseRow) (conflicted bool, changelist string, lock *LockInfo, err error) {
	actual, _, aerr := getActualRow(tx, relpath)
	if aerr != nil {
		return false, "", nil, aerr
	}
	if actual != nil {
		conflicted = actual.TextConflicted || len(actual.PropsConflicted) > 0
		changelist = actual.Changelist
	}
	if base != nil {
		lock = base.Lock
	}

	parent, hasParent := parentOf(relpath)
	if hasParent {
		parentActual, _, perr := getActualRow(tx, parent)
		if perr != nil {
			return false, "", nil, perr
		}
		if parentActual != nil {
			if _, victim := parentActual.TreeConflicts[basename(relpath)]; victim {
				conflicted = true
			}
		}
	}
	return conflicted, changelist, lock, nil
}

// ReadProps returns the effective properties for relpath: ACTUAL if
// present, else BASE.
func (s *Store) ReadProps(relpath string) (wcdb.Properties, error) {
	const op = "wcnode.ReadProps"
	var props wcdb.Properties
	err := s.DB.View(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, relpath)
		if err != nil {
			return err
		}
		if ok && actual.Properties != nil {
			props = actual.Properties
			return nil
		}
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}
		props = base.Properties
		return nil
	})
	return props, err
}

// ReadPristineProps returns the last-committed-equivalent properties:
// WORKING if present, else BASE.
func (s *Store) ReadPristineProps(relpath string) (wcdb.Properties, error) {
	const op = "wcnode.ReadPristineProps"
	var props wcdb.Properties
	err := s.DB.View(func(tx *wcdb.Tx) error {
		working, ok, err := getWorkingRow(tx, relpath)
		if err != nil {
			return err
		}
		if ok {
			props = working.Properties
			return nil
		}
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}
		props = base.Properties
		return nil
	})
	return props, err
}

// ReadChildren returns the union of BASE and WORKING children of relpath.
func (s *Store) ReadChildren(relpath string) ([]string, error) {
	set := map[string]bool{}
	err := s.DB.View(func(tx *wcdb.Tx) error {
		if err := collectChildren(tx, wcdb.BucketBaseNodes, relpath, set); err != nil {
			return err
		}
		return collectChildren(tx, wcdb.BucketWorkNodes, relpath, set)
	})
	if err != nil {
		return nil, err
	}
	return sortedKeys(set), nil
}

// BaseGetChildren returns only the BASE-layer children of relpath.
func (s *Store) BaseGetChildren(relpath string) ([]string, error) {
	set := map[string]bool{}
	err := s.DB.View(func(tx *wcdb.Tx) error {
		return collectChildren(tx, wcdb.BucketBaseNodes, relpath, set)
	})
	if err != nil {
		return nil, err
	}
	return sortedKeys(set), nil
}

func collectChildren(tx *wcdb.Tx, bucket []byte, relpath string, set map[string]bool) error {
	prefix := relpath
	if prefix != "" {
		prefix += "/"
	}
	return tx.ForEachPrefix(bucket, prefix, func(key string, _ []byte) (bool, error) {
		rest := key[len(prefix):]
		if rest == "" {
			return true, nil
		}
		if idx := indexByte(rest, '/'); idx >= 0 {
			// Deeper descendant; only take the immediate child component.
			rest = rest[:idx]
		}
		set[rest] = true
		return true, nil
	})
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ReadConflictVictims returns the basenames with a pending tree conflict
// recorded on dir's ACTUAL row.
func (s *Store) ReadConflictVictims(dir string) ([]string, error) {
	var names []string
	err := s.DB.View(func(tx *wcdb.Tx) error {
		actual, ok, err := getActualRow(tx, dir)
		if err != nil || !ok {
			return err
		}
		for name := range actual.TreeConflicts {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return names, err
}

// ReadConflicts returns the tree-conflict entry recorded against relpath
// on its parent's ACTUAL row, if relpath is a tree-conflict victim. Text
// and property conflicts live on relpath's own ACTUAL row instead (see
// ReadInfo's Conflicted flag, and ActualRow's TextConflicted/
// PropsConflicted fields) and aren't reported here.
func (s *Store) ReadConflicts(relpath string) ([]TreeConflictInfo, error) {
	var out []TreeConflictInfo
	err := s.DB.View(func(tx *wcdb.Tx) error {
		parent, hasParent := parentOf(relpath)
		if !hasParent {
			return nil
		}
		parentActual, ok, err := getActualRow(tx, parent)
		if err != nil || !ok {
			return err
		}
		if tc, victim := parentActual.TreeConflicts[basename(relpath)]; victim {
			out = append(out, tc)
		}
		return nil
	})
	return out, err
}

// ReadChecksum returns the BASE checksum for relpath, if any.
func (s *Store) ReadChecksum(relpath string) (wcdb.Checksum, bool, error) {
	var cs wcdb.Checksum
	var found bool
	err := s.DB.View(func(tx *wcdb.Tx) error {
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil || !ok {
			return err
		}
		if !base.Checksum.IsZero() {
			cs = base.Checksum
			found = true
		}
		return nil
	})
	return cs, found, err
}

// ReadDepth returns the composite depth: WORKING if present, else BASE.
func (s *Store) ReadDepth(relpath string) (Depth, error) {
	const op = "wcnode.ReadDepth"
	var depth Depth
	err := s.DB.View(func(tx *wcdb.Tx) error {
		working, ok, err := getWorkingRow(tx, relpath)
		if err != nil {
			return err
		}
		if ok {
			depth = working.Depth
			return nil
		}
		base, ok, err := getBaseRow(tx, relpath)
		if err != nil {
			return err
		}
		if !ok {
			return wcerr.Wrap(wcerr.PathNotFound, op, relpath, nil)
		}
		depth = base.Depth
		return nil
	})
	return depth, err
}

// ReadKind returns the composite kind with subdir collapsed to dir.
func (s *Store) ReadKind(relpath string) (Kind, error) {
	info, err := s.ReadInfo(relpath)
	if err != nil {
		return "", err
	}
	return info.Kind, nil
}

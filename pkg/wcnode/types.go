package wcnode

import (
	"time"

	"github.com/cuemby/wcmeta/pkg/wcdb"
)

// Presence is the BASE-layer presence enum from spec.md §3.
type Presence string

const (
	PresenceNormal      Presence = "normal"
	PresenceAbsent      Presence = "absent"
	PresenceExcluded    Presence = "excluded"
	PresenceNotPresent  Presence = "not-present"
	PresenceIncomplete  Presence = "incomplete"
)

// WorkingPresence is the WORKING-layer presence enum from spec.md §3.
type WorkingPresence string

const (
	WorkingNormal      WorkingPresence = "normal"
	WorkingNotPresent  WorkingPresence = "not-present"
	WorkingBaseDeleted WorkingPresence = "base-deleted"
	WorkingIncomplete  WorkingPresence = "incomplete"
	// WorkingAbsent is a pseudo-value meaning "no WORKING row exists".
	// status.go does not use it; it tests for a nil WORKING row instead.
	WorkingAbsent WorkingPresence = ""
)

// Kind is the node kind. Subdir is the legacy per-directory-store stub
// (spec.md §9); it is collapsed to Dir everywhere above this package.
type Kind string

const (
	KindFile    Kind = "file"
	KindDir     Kind = "dir"
	KindSymlink Kind = "symlink"
	KindSubdir  Kind = "subdir"
)

// NormalizeKind collapses the legacy subdir kind to dir.
func NormalizeKind(k Kind) Kind {
	if k == KindSubdir {
		return KindDir
	}
	return k
}

// Depth controls how much of a directory's subtree is checked out.
// Empty and Exclude are carried per SPEC_FULL §3 for round-trip fidelity
// with sparse checkouts but no operation in this package branches on them
// beyond storing/returning them.
type Depth string

const (
	DepthInfinity   Depth = "infinity"
	DepthImmediates Depth = "immediates"
	DepthFiles      Depth = "files"
	DepthEmpty      Depth = "empty"
	DepthExclude    Depth = "exclude"
)

// ChangeInfo is the last-change triple carried by BASE and WORKING rows.
type ChangeInfo struct {
	Revision int64
	Date     time.Time
	Author   string
}

// CopyFrom identifies the copy/move source of a WORKING row.
type CopyFrom struct {
	ReposID      int64
	ReposRelpath string
	Revision     int64
}

// IsSet reports whether a copyfrom triple is present.
func (c CopyFrom) IsSet() bool { return c.ReposID != 0 }

// LockInfo is repository-granted lock metadata cached on a BASE row (not
// to be confused with pkg/wclock's advisory working-copy lock).
type LockInfo struct {
	Token   string
	Owner   string
	Comment string
	Created time.Time
}

// BaseRow is the last-seen server state for a node.
type BaseRow struct {
	Presence         Presence
	Kind             Kind
	Revision         int64
	ReposID          int64  // 0 if coordinates are inherited from an ancestor
	ReposRelpath     string // "" iff ReposID == 0; invariant #2
	LastChange       ChangeInfo
	Depth            Depth // directories only
	Checksum         wcdb.Checksum
	TranslatedSize   int64
	SymlinkTarget    string
	Properties       wcdb.Properties
	Lock             *LockInfo
	DavCache         []byte
	LastModified     time.Time
	ParentRelpath    string
	HasParentRelpath bool // false only for the WCROOT row itself
}

// WorkingRow is the user-local overlay scheduled on top of BASE.
type WorkingRow struct {
	Presence         WorkingPresence
	Kind             Kind
	CopyFrom         CopyFrom
	MovedHere        bool
	// MovedTo is the relpath this node was moved away to, set on the
	// source side of a move when WORKING.Presence is base-deleted or
	// not-present (scan_deletion in spec.md §4.5 reads this to report
	// moved-to-path).
	MovedTo          string
	LastChange       ChangeInfo
	Depth            Depth
	Checksum         wcdb.Checksum
	TranslatedSize   int64
	SymlinkTarget    string
	Properties       wcdb.Properties
	ParentRelpath    string
	HasParentRelpath bool
}

// TreeConflictInfo is one victim entry in a parent directory's
// tree-conflict blob. Its internal grammar is out of scope (spec.md §9
// Open Question); fields here are treated as an opaque, byte-faithful
// payload beyond Operation/Reason/Action, which the status/conflict
// queries need to surface.
type TreeConflictInfo struct {
	Operation string
	Reason    string
	Action    string
	Data      []byte
}

// ActualRow is observed reality and annotations for a node.
type ActualRow struct {
	Properties       wcdb.Properties
	Changelist       string
	TextConflicted   bool
	ConflictOld      string
	ConflictNew      string
	ConflictWorking  string
	PropsConflicted  []string
	// TreeConflicts is keyed by child basename and is only meaningful when
	// this ActualRow belongs to a directory; it records victims whose
	// conflict is stored on the parent per spec.md §3.
	TreeConflicts    map[string]TreeConflictInfo
	ParentRelpath    string
	HasParentRelpath bool
}

// IsEmpty reports whether an ActualRow has nothing left worth keeping
// (spec.md §3: "ACTUAL rows are retired when they become empty").
func (a *ActualRow) IsEmpty() bool {
	return len(a.Properties) == 0 && a.Changelist == "" && !a.TextConflicted &&
		len(a.PropsConflicted) == 0 && len(a.TreeConflicts) == 0
}

// ReposCoords is an interned (root-URL, UUID) pair.
type ReposCoords struct {
	ReposID int64
	RootURL string
	UUID    string
}

// Package wcerr defines the error taxonomy shared by every component of the
// working-copy metadata core (spec.md §7). Callers compare against the
// sentinel Kind values with errors.Is; components attach operation/path
// context with Wrap before returning.
package wcerr

import (
	"errors"
	"fmt"
)

// Kind is one of the enumerated error kinds from spec.md §7. Kind itself
// implements error so it can be used directly as an errors.Is target.
type Kind string

const (
	PathNotFound      Kind = "path-not-found"
	NotAWorkingCopy   Kind = "not-a-working-copy"
	UnsupportedFormat Kind = "unsupported-format"
	UpgradeRequired   Kind = "upgrade-required"
	CleanupRequired   Kind = "cleanup-required"
	CorruptStore      Kind = "corrupt-store"
	Locked            Kind = "locked"
	UnexpectedStatus  Kind = "unexpected-status"
	BadChecksumKind   Kind = "bad-checksum-kind"
	CorruptChecksum   Kind = "corrupt-checksum"
	StoreIO           Kind = "store-io"
	NotImplemented    Kind = "not-implemented"
)

func (k Kind) Error() string { return string(k) }

// Error wraps a Kind with the operation and path that failed, plus an
// optional underlying cause.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Cause != nil && e.Path != "":
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Path, e.Kind, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.Kind)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, SomeKind) match a *Error carrying that kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Wrap constructs a *Error for op/path/kind, optionally wrapping cause.
func Wrap(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Cause: cause}
}

// Is reports whether err (or something it wraps) is the given Kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, kind)
}

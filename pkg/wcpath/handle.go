package wcpath

import (
	"sync"

	"github.com/cuemby/wcmeta/pkg/wcdb"
)

// Handle is the per-root state shared by every Resolution that resolves
// into the same WCROOT. It is immutable once populated except for the
// AdmAccess bit, which is written once by whichever goroutine wins the
// race to open the store.
type Handle struct {
	mu sync.Mutex

	// AbsPath is the WCROOT's absolute filesystem path.
	AbsPath string
	// DB is the open store connection, or nil for a Legacy handle.
	DB *wcdb.DB
	// ID is the WCROOT's stable integer id.
	ID int64
	// SchemaVersion is the store's schema version as of open.
	SchemaVersion int
	// Legacy is set when ascent found a pre-modern-layout format marker
	// instead of a store file (spec.md §4.3 step 5): no store is open,
	// and LegacyFormat records the marker's format number so a caller can
	// decide whether to run an upgrade path external to this core.
	Legacy       bool
	LegacyFormat int

	admAccess bool
}

// AdmAccess reports whether this handle's store has been successfully
// opened (always true for a non-legacy handle once constructed; kept as
// an explicit flag rather than inferred from DB != nil to mirror the
// source's administrative-access baton).
func (h *Handle) AdmAccess() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.admAccess
}

func (h *Handle) setAdmAccess(v bool) {
	h.mu.Lock()
	h.admAccess = v
	h.mu.Unlock()
}

// Resolution is the result of resolving one absolute path: the root
// handle it belongs to, its path relative to that root, and whether
// resolution detected an obstruction (spec.md §4.3).
type Resolution struct {
	Handle     *Handle
	Relpath    string
	Obstructed bool
}

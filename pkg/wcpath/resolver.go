package wcpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wclog"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
)

const (
	adminDirName          = ".svn"
	storeFileName         = "wc.db"
	legacyFormatFileName  = "format"
	minLegacyFormatNumber = 1
)

// Resolver is the per-process path-resolution cache. Construct one per
// process (or per logical tenant); it owns every store connection it
// opens and they must be released via Close.
type Resolver struct {
	mode wcdb.Mode
	opts wcdb.OpenOptions

	mu     sync.Mutex
	byPath map[string]*Resolution // absolute path -> resolution
	byRoot map[string]*Handle     // WCROOT absolute path -> handle
}

// New constructs a Resolver that opens every store it discovers with
// mode and opts.
func New(mode wcdb.Mode, opts wcdb.OpenOptions) *Resolver {
	return &Resolver{
		mode:   mode,
		opts:   opts,
		byPath: make(map[string]*Resolution),
		byRoot: make(map[string]*Handle),
	}
}

// Close closes every store connection this Resolver has opened.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for _, h := range r.byRoot {
		if h.DB == nil {
			continue
		}
		if err := h.DB.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Resolve maps an absolute path to its owning WCROOT and relative path,
// per the algorithm in spec.md §4.3. It takes no per-call mode: every
// store it opens uses the mode the Resolver was constructed with, per
// §5's "opened once per process, shared by every caller" model.
func (r *Resolver) Resolve(absPath string) (*Resolution, error) {
	const op = "wcpath.Resolve"
	absPath = filepath.Clean(absPath)

	if res, ok := r.lookup(absPath); ok {
		return res, nil
	}

	info, statErr := os.Stat(absPath)
	var startDir string
	var leaf string
	haveLeaf := false
	if statErr != nil || !info.IsDir() {
		startDir = filepath.Dir(absPath)
		leaf = filepath.Base(absPath)
		haveLeaf = true
	} else {
		startDir = absPath
	}

	handle, steps, err := r.locate(startDir)
	if err != nil {
		return nil, wcerr.Wrap(wcerr.NotAWorkingCopy, op, absPath, err)
	}

	rootRelpath := ""
	if len(steps) > 0 {
		rootRelpath = steps[0].relpath
	}
	fullRelpath := rootRelpath
	if haveLeaf {
		fullRelpath = joinRelpath(rootRelpath, leaf)
	}

	obstructed := false
	if !haveLeaf && fullRelpath != "" && handle.DB != nil {
		obstructed, err = checkObstruction(handle, fullRelpath)
		if err != nil {
			return nil, err
		}
	}

	res := &Resolution{Handle: handle, Relpath: fullRelpath, Obstructed: obstructed}

	r.mu.Lock()
	r.byPath[handle.AbsPath] = &Resolution{Handle: handle, Relpath: ""}
	for _, st := range steps {
		r.byPath[st.dir] = &Resolution{Handle: handle, Relpath: st.relpath}
	}
	r.byPath[absPath] = res
	r.mu.Unlock()

	return res, nil
}

func (r *Resolver) lookup(absPath string) (*Resolution, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byPath[absPath]
	if !ok {
		return nil, false
	}
	if res.Handle.Legacy || res.Handle.DB != nil {
		return res, true
	}
	return nil, false
}

// Parent returns the Resolution for res's enclosing directory,
// constructing and caching it if absent (spec.md §4.3's navigation
// contract).
func (r *Resolver) Parent(res *Resolution) (*Resolution, error) {
	full := absOfResolution(res)
	parentAbs := filepath.Dir(full)
	if parentAbs == full {
		return nil, wcerr.Wrap(wcerr.NotAWorkingCopy, "wcpath.Parent", full, fmt.Errorf("already at filesystem root"))
	}
	return r.Resolve(parentAbs)
}

// Forget invalidates every cached entry for absPath. If absPath is a
// cached WCROOT, its store connection is also closed and removed, so a
// subsequent Resolve reopens it from scratch (used after structural
// operations like delete or a schema upgrade, per spec.md §9).
func (r *Resolver) Forget(absPath string) error {
	absPath = filepath.Clean(absPath)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPath, absPath)
	h, ok := r.byRoot[absPath]
	if !ok {
		return nil
	}
	delete(r.byRoot, absPath)
	for p, res := range r.byPath {
		if res.Handle == h {
			delete(r.byPath, p)
		}
	}
	if h.DB != nil {
		return h.DB.Close()
	}
	return nil
}

func absOfResolution(res *Resolution) string {
	if res.Relpath == "" {
		return res.Handle.AbsPath
	}
	return filepath.Join(res.Handle.AbsPath, filepath.FromSlash(res.Relpath))
}

type ascendStep struct {
	dir     string
	relpath string
}

// locate ascends from startDir until it finds a store file or a legacy
// format marker, returning the constructed handle and every sub-root
// directory visited along the way (deepest first, startDir itself
// first), each paired with its relpath from the eventual root, so the
// caller can populate the cache for the whole ascended chain (spec.md
// §4.3 step 6). The root directory itself is not included in the
// returned steps; its relpath is always "".
func (r *Resolver) locate(startDir string) (*Handle, []ascendStep, error) {
	var dirs []string // sub-root directories visited, startDir first
	cur := startDir

	for {
		dbPath := filepath.Join(cur, adminDirName, storeFileName)
		if pathExists(dbPath) {
			h, err := r.openRoot(cur)
			if err != nil {
				return nil, nil, err
			}
			return h, buildSteps(dirs), nil
		}

		legacyPath := filepath.Join(cur, adminDirName, legacyFormatFileName)
		if ver, ok := readLegacyFormat(legacyPath); ok {
			h := &Handle{AbsPath: cur, Legacy: true, LegacyFormat: ver}
			return h, buildSteps(dirs), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, nil, fmt.Errorf("ascent from %q reached filesystem root without finding a working-copy store", startDir)
		}
		dirs = append(dirs, cur)
		cur = parent
	}
}

// buildSteps computes, for each sub-root directory visited (deepest
// first), its relpath from the eventual root: the basenames of
// dirs[i:] joined in reverse (shallowest-to-deepest) order.
func buildSteps(dirs []string) []ascendStep {
	steps := make([]ascendStep, len(dirs))
	for i := range dirs {
		tail := dirs[i:]
		parts := make([]string, len(tail))
		for j, d := range tail {
			parts[len(tail)-1-j] = filepath.Base(d)
		}
		steps[i] = ascendStep{dir: dirs[i], relpath: strings.Join(parts, "/")}
	}
	return steps
}

func (r *Resolver) openRoot(dir string) (*Handle, error) {
	const op = "wcpath.openRoot"

	r.mu.Lock()
	if h, ok := r.byRoot[dir]; ok {
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()

	dbPath := filepath.Join(dir, adminDirName, storeFileName)
	db, err := wcdb.Open(dbPath, r.mode, r.opts)
	if err != nil {
		return nil, err
	}

	var root wcdb.WCRootRow
	err = db.View(func(tx *wcdb.Tx) error {
		row, ok, gerr := tx.GetWCRoot()
		if gerr != nil {
			return gerr
		}
		if !ok {
			return wcerr.Wrap(wcerr.CorruptStore, op, dir, fmt.Errorf("store has no wcroot row"))
		}
		root = row
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	h := &Handle{AbsPath: dir, DB: db, ID: root.ID, SchemaVersion: root.SchemaVersion}
	h.setAdmAccess(true)

	r.mu.Lock()
	if existing, ok := r.byRoot[dir]; ok {
		r.mu.Unlock()
		db.Close()
		return existing, nil
	}
	r.byRoot[dir] = h
	r.mu.Unlock()

	wclog.Component("wcpath").Debug().Str("path", dir).Int64("wcroot_id", root.ID).Msg("resolved working-copy root")
	return h, nil
}

// checkObstruction asks the resolved root whether a file was expected
// at relpath (spec.md §4.3's obstruction detection): the input stat'd
// as a directory, but the root's own node data says this path's kind is
// file. A missing row is not an obstruction (e.g. an unversioned
// directory nested under a versioned one).
func checkObstruction(handle *Handle, relpath string) (bool, error) {
	store := &wcnode.Store{DB: handle.DB}
	kind, err := store.ReadKind(relpath)
	if err != nil {
		if wcerr.Is(err, wcerr.PathNotFound) {
			return false, nil
		}
		return false, err
	}
	return kind == wcnode.KindFile, nil
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func readLegacyFormat(p string) (int, bool) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n < minLegacyFormatNumber {
		return 0, false
	}
	return n, true
}

func joinRelpath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "/" + child
}

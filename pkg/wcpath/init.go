package wcpath

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wclog"
	"github.com/cuemby/wcmeta/pkg/wcdb"
	"github.com/cuemby/wcmeta/pkg/wcnode"
)

// InitInput gathers the repository coordinates spec.md §6's
// init(db, path, repo-relpath, root-url, uuid, initial-rev, depth) contract
// takes beyond the filesystem path itself.
type InitInput struct {
	ReposRelpath string
	RootURL      string
	UUID         string
	InitialRev   int64
	Depth        wcnode.Depth
}

// Init creates a new WCROOT at absPath: the admin directory and store
// file, stamped with a freshly generated stable WCROOT id, with the
// WCROOT's own BASE row seeded as a normal directory at in's repository
// coordinates and revision. It fails if a store already exists there.
// Init does not register the new root with any Resolver; callers that
// want it cached should Resolve absPath afterward.
func Init(absPath string, in InitInput, opts wcdb.OpenOptions) (*Handle, error) {
	const op = "wcpath.Init"
	absPath = filepath.Clean(absPath)

	admDir := filepath.Join(absPath, adminDirName)
	if err := os.MkdirAll(admDir, 0755); err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, op, absPath, err)
	}

	dbPath := filepath.Join(admDir, storeFileName)
	if pathExists(dbPath) {
		return nil, wcerr.Wrap(wcerr.CleanupRequired, op, absPath, nil)
	}

	openOpts := opts
	openOpts.Create = true
	db, err := wcdb.Open(dbPath, wcdb.ReadWrite, openOpts)
	if err != nil {
		return nil, err
	}

	id := newWCRootID()
	row := wcdb.WCRootRow{ID: id, AbsPath: absPath, SchemaVersion: wcdb.CurrentSchemaVersion}
	depth := in.Depth
	if depth == "" {
		depth = wcnode.DepthInfinity
	}
	if err := db.Update(func(tx *wcdb.Tx) error {
		if err := tx.PutWCRoot(row); err != nil {
			return err
		}
		reposID, err := wcnode.InternReposTx(tx, in.RootURL, in.UUID)
		if err != nil {
			return err
		}
		return wcnode.PutBaseRow(tx, "", &wcnode.BaseRow{
			Presence:     wcnode.PresenceNormal,
			Kind:         wcnode.KindDir,
			Revision:     in.InitialRev,
			ReposID:      reposID,
			ReposRelpath: in.ReposRelpath,
			LastChange:   wcnode.ChangeInfo{Revision: in.InitialRev},
			Depth:        depth,
		})
	}); err != nil {
		db.Close()
		return nil, err
	}

	h := &Handle{AbsPath: absPath, DB: db, ID: id, SchemaVersion: wcdb.CurrentSchemaVersion}
	h.setAdmAccess(true)

	wclog.Component("wcpath").Info().Str("path", absPath).Int64("wcroot_id", id).
		Str("repos_relpath", in.ReposRelpath).Str("root_url", in.RootURL).
		Msg("initialized working-copy root")
	return h, nil
}

// newWCRootID derives a stable positive int64 id from a fresh UUID: the
// store's ID column is a plain integer (spec.md §3), but this core has
// no central allocator to hand out small sequential ones across
// independently created working copies, so a UUID's own randomness
// serves as the id source instead, truncated to the 63 bits an int64 can
// hold.
func newWCRootID() int64 {
	u := uuid.New()
	v := binary.BigEndian.Uint64(u[:8])
	return int64(v &^ (1 << 63))
}

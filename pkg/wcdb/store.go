package wcdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wclog"
	"github.com/cuemby/wcmeta/internal/wcmetrics"
	bolt "go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the schema version this binary writes and
// understands without upgrading.
const CurrentSchemaVersion = 1

// MinUpgradableSchemaVersion is the oldest schema version an upgrade script
// exists for. Anything older fails with wcerr.UnsupportedFormat.
const MinUpgradableSchemaVersion = 1

// rootKey is the sentinel bucket key standing in for relpath "" (the WCROOT
// itself), since bbolt rejects zero-length keys.
const rootKey = "."

var (
	bucketMeta      = []byte("meta")
	bucketRepos     = []byte("repos")
	bucketBaseNodes = []byte("base_nodes")
	bucketWorkNodes = []byte("working_nodes")
	bucketActual    = []byte("actual_nodes")
	bucketPristine  = []byte("pristine")
	bucketLocks     = []byte("locks")
	bucketWorkQueue = []byte("wq")

	allBuckets = [][]byte{
		bucketMeta, bucketRepos, bucketBaseNodes, bucketWorkNodes,
		bucketActual, bucketPristine, bucketLocks, bucketWorkQueue,
	}

	metaKeySchemaVersion = []byte("schema_version")
	metaKeyWCRoot        = []byte("wcroot")
)

// Mode selects whether Open may create a new store file.
type Mode int

const (
	// ReadWrite opens an existing store, or creates one if OpenOptions.Create is set.
	ReadWrite Mode = iota
	// ReadOnly opens an existing store without permitting writes.
	ReadOnly
)

// UpgradeFunc migrates the store from one schema version to the next. It
// runs inside the same transaction as every other upgrade step.
type UpgradeFunc func(tx *Tx) error

// upgrades maps target schema version -> the function that migrates the
// store from (target-1) to target.
var upgrades = map[int]UpgradeFunc{
	// 1 is the baseline; no upgrade function needed to reach it.
}

// OpenOptions configures Open.
type OpenOptions struct {
	// Create allows Open to create a new, empty store file.
	Create bool
	// AutoUpgrade lets Open apply registered upgrade scripts when the
	// store's schema version is older than CurrentSchemaVersion.
	AutoUpgrade bool
	// EnforceEmptyWorkQueue fails Open with wcerr.CleanupRequired if the work
	// queue is non-empty, so callers know to replay it before mutating.
	EnforceEmptyWorkQueue bool
	// EscapeByte is the printable ASCII byte used to escape '%' and '_'
	// (and itself) in prefix-match queries. Defaults to '\\'.
	EscapeByte byte
}

func (o OpenOptions) escapeByte() byte {
	if o.EscapeByte == 0 {
		return '\\'
	}
	return o.EscapeByte
}

// DB is a handle to one WCROOT's store file.
type DB struct {
	bdb    *bolt.DB
	path   string
	mode   Mode
	opts   OpenOptions
	mu     sync.Mutex
	closed bool
}

// Open opens (and, with Create, initializes) the store file at path.
func Open(path string, mode Mode, opts OpenOptions) (*DB, error) {
	const op = "wcdb.Open"
	l := wclog.Component("wcdb")

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, wcerr.Wrap(wcerr.StoreIO, op, path, err)
		}
		if !opts.Create {
			return nil, wcerr.Wrap(wcerr.NotAWorkingCopy, op, path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, wcerr.Wrap(wcerr.StoreIO, op, path, err)
		}
	}

	boltOpts := &bolt.Options{Timeout: 5 * time.Second}
	if mode == ReadOnly {
		boltOpts.ReadOnly = true
	}

	bdb, err := bolt.Open(path, 0600, boltOpts)
	if err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, op, path, err)
	}

	db := &DB{bdb: bdb, path: path, mode: mode, opts: opts}

	if mode == ReadWrite {
		if err := bdb.Update(func(btx *bolt.Tx) error {
			for _, b := range allBuckets {
				if _, err := btx.CreateBucketIfNotExists(b); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			bdb.Close()
			return nil, wcerr.Wrap(wcerr.StoreIO, op, path, err)
		}
	}

	version, err := db.readSchemaVersion()
	if err != nil {
		bdb.Close()
		return nil, err
	}

	if version == 0 {
		// Freshly created store: stamp the current version.
		if mode == ReadWrite {
			if err := db.writeSchemaVersion(CurrentSchemaVersion); err != nil {
				bdb.Close()
				return nil, err
			}
		}
	} else if version > CurrentSchemaVersion {
		bdb.Close()
		return nil, wcerr.Wrap(wcerr.UnsupportedFormat, op, path,
			fmt.Errorf("store schema %d is newer than supported %d", version, CurrentSchemaVersion))
	} else if version < CurrentSchemaVersion {
		if version < MinUpgradableSchemaVersion {
			bdb.Close()
			return nil, wcerr.Wrap(wcerr.UnsupportedFormat, op, path,
				fmt.Errorf("store schema %d is older than the oldest upgradable %d", version, MinUpgradableSchemaVersion))
		}
		if !opts.AutoUpgrade {
			bdb.Close()
			return nil, wcerr.Wrap(wcerr.UpgradeRequired, op, path,
				fmt.Errorf("store schema %d requires upgrade to %d", version, CurrentSchemaVersion))
		}
		if err := db.applyUpgrades(version); err != nil {
			bdb.Close()
			return nil, err
		}
	}

	if opts.EnforceEmptyWorkQueue {
		empty, err := db.workQueueEmpty()
		if err != nil {
			bdb.Close()
			return nil, err
		}
		if !empty {
			bdb.Close()
			return nil, wcerr.Wrap(wcerr.CleanupRequired, op, path, nil)
		}
	}

	wcmetrics.StoresOpened.Inc()
	l.Debug().Str("path", path).Msg("opened working-copy store")
	return db, nil
}

// Close closes the underlying file. Idempotent: a second Close is a no-op,
// matching C1's re-entrant-on-teardown contract.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	if err := db.bdb.Close(); err != nil {
		return wcerr.Wrap(wcerr.StoreIO, "wcdb.Close", db.path, err)
	}
	return nil
}

// Path returns the on-disk path of the store file.
func (db *DB) Path() string { return db.path }

// EscapeByte returns the configured prefix-match escape byte.
func (db *DB) EscapeByte() byte { return db.opts.escapeByte() }

func (db *DB) applyUpgrades(from int) error {
	return db.Update(func(tx *Tx) error {
		for v := from + 1; v <= CurrentSchemaVersion; v++ {
			fn, ok := upgrades[v]
			if !ok {
				return wcerr.Wrap(wcerr.UnsupportedFormat, "wcdb.applyUpgrades", db.path,
					fmt.Errorf("no upgrade script registered for schema %d", v))
			}
			if err := fn(tx); err != nil {
				return err
			}
		}
		return tx.putMeta(metaKeySchemaVersion, encodeInt(CurrentSchemaVersion))
	})
}

func (db *DB) readSchemaVersion() (int, error) {
	var version int
	err := db.View(func(tx *Tx) error {
		raw, ok, err := tx.getMeta(metaKeySchemaVersion)
		if err != nil || !ok {
			return err
		}
		version = decodeInt(raw)
		return nil
	})
	return version, err
}

func (db *DB) writeSchemaVersion(v int) error {
	return db.Update(func(tx *Tx) error {
		return tx.putMeta(metaKeySchemaVersion, encodeInt(v))
	})
}

package pristine

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/internal/wclog"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

const (
	adminDirName    = ".svn"
	pristineDirName = "pristine"
	tempDirName     = "tmp"
)

// Row is the companion store record for an installed pristine blob.
type Row struct {
	Digest wcdb.Checksum
	Size   int64
}

// Mode selects what Check consults.
type Mode int

const (
	// RowOnly checks only the store row.
	RowOnly Mode = iota
	// FileOnly checks only the on-disk file.
	FileOnly
	// Both requires the row and the file to agree.
	Both
)

// Tempdir returns the directory callers must write a temp file into before
// calling Install, creating it if necessary.
func Tempdir(wcrootAbsPath string) (string, error) {
	dir := filepath.Join(wcrootAbsPath, adminDirName, tempDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", wcerr.Wrap(wcerr.StoreIO, "pristine.Tempdir", dir, err)
	}
	return dir, nil
}

func objectPath(wcrootAbsPath string, digest wcdb.Checksum) string {
	hex := digest.Hex
	shard := hex
	if len(hex) >= 2 {
		shard = hex[:2]
	}
	return filepath.Join(wcrootAbsPath, adminDirName, pristineDirName, shard, hex)
}

// Read opens the pristine blob for digest for reading. Fails with
// PathNotFound if absent.
func Read(wcrootAbsPath string, digest wcdb.Checksum) (io.ReadCloser, error) {
	const op = "pristine.Read"
	f, err := os.Open(objectPath(wcrootAbsPath, digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wcerr.Wrap(wcerr.PathNotFound, op, digest.String(), err)
		}
		return nil, wcerr.Wrap(wcerr.StoreIO, op, digest.String(), err)
	}
	return f, nil
}

// Install atomically renames tempPath (which must live under the Tempdir
// for this wcroot, so the rename stays on one volume) into the pristine
// store and inserts its companion row. Safe to call again with a digest
// that is already installed: the rename-over is tolerated and the row
// insert is a no-op.
func Install(db *wcdb.DB, wcrootAbsPath, tempPath string, digest wcdb.Checksum) error {
	const op = "pristine.Install"
	l := wclog.Component("pristine")

	if !wcdb.SupportedChecksumKinds[digest.Kind] {
		return wcerr.Wrap(wcerr.BadChecksumKind, op, digest.String(), nil)
	}

	dest := objectPath(wcrootAbsPath, digest)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return wcerr.Wrap(wcerr.StoreIO, op, dest, err)
	}

	alreadyRow, err := rowExists(db, digest)
	if err != nil {
		return err
	}

	info, err := os.Stat(tempPath)
	if err != nil {
		return wcerr.Wrap(wcerr.StoreIO, op, tempPath, err)
	}
	size := info.Size()

	if err := os.Rename(tempPath, dest); err != nil {
		return wcerr.Wrap(wcerr.StoreIO, op, dest, err)
	}

	if alreadyRow {
		l.Debug().Str("digest", digest.String()).Msg("pristine already installed, row unchanged")
		return nil
	}

	row := Row{Digest: digest, Size: size}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(row); err != nil {
		return wcerr.Wrap(wcerr.StoreIO, op, digest.String(), err)
	}
	if err := db.Update(func(tx *wcdb.Tx) error {
		return tx.Put(wcdb.BucketPristine, digest.String(), buf.Bytes())
	}); err != nil {
		return err
	}
	l.Debug().Str("digest", digest.String()).Int64("size", size).Msg("installed pristine")
	return nil
}

func rowExists(db *wcdb.DB, digest wcdb.Checksum) (bool, error) {
	var found bool
	err := db.View(func(tx *wcdb.Tx) error {
		_, ok := tx.Get(wcdb.BucketPristine, digest.String())
		found = ok
		return nil
	})
	return found, err
}

// Check reports whether digest is present per mode.
func Check(db *wcdb.DB, wcrootAbsPath string, digest wcdb.Checksum, mode Mode) (bool, error) {
	const op = "pristine.Check"

	var rowOK bool
	if mode == RowOnly || mode == Both {
		ok, err := rowExists(db, digest)
		if err != nil {
			return false, err
		}
		rowOK = ok
		if mode == RowOnly {
			return rowOK, nil
		}
	}

	fileOK := false
	if mode == FileOnly || mode == Both {
		info, err := os.Stat(objectPath(wcrootAbsPath, digest))
		if err == nil {
			fileOK = true
		} else if !os.IsNotExist(err) {
			return false, wcerr.Wrap(wcerr.StoreIO, op, digest.String(), err)
		}
		if mode == FileOnly {
			return fileOK, nil
		}
		_ = info
	}

	return rowOK && fileOK, nil
}

// GetRow reads the companion row for digest, if any.
func GetRow(db *wcdb.DB, digest wcdb.Checksum) (Row, bool, error) {
	var row Row
	var found bool
	err := db.View(func(tx *wcdb.Tx) error {
		raw, ok := tx.Get(wcdb.BucketPristine, digest.String())
		if !ok {
			return nil
		}
		if decErr := gob.NewDecoder(bytes.NewReader(raw)).Decode(&row); decErr != nil {
			return wcerr.Wrap(wcerr.CorruptStore, "pristine.GetRow", digest.String(), decErr)
		}
		found = true
		return nil
	})
	return row, found, err
}

// Sweep removes pristine blobs that no row's digest references anymore. It
// is the collector collaborators invoke after marking which digests are
// still live (from BASE/WORKING rows); referenced is the set of digests
// still in use.
func Sweep(db *wcdb.DB, wcrootAbsPath string, referenced map[string]bool) (removed int, err error) {
	const op = "pristine.Sweep"
	var stale []wcdb.Checksum
	err = db.View(func(tx *wcdb.Tx) error {
		return tx.ForEachPrefix(wcdb.BucketPristine, "", func(key string, value []byte) (bool, error) {
			if referenced[key] {
				return true, nil
			}
			cs, perr := wcdb.ParseChecksum(key)
			if perr != nil {
				return true, nil
			}
			stale = append(stale, cs)
			return true, nil
		})
	})
	if err != nil {
		return 0, err
	}

	for _, cs := range stale {
		if rmErr := os.Remove(objectPath(wcrootAbsPath, cs)); rmErr != nil && !os.IsNotExist(rmErr) {
			return removed, wcerr.Wrap(wcerr.StoreIO, op, cs.String(), rmErr)
		}
		if dbErr := db.Update(func(tx *wcdb.Tx) error {
			return tx.Delete(wcdb.BucketPristine, cs.String())
		}); dbErr != nil {
			return removed, dbErr
		}
		removed++
	}
	return removed, nil
}

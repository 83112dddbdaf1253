package wcnode

import (
	"bytes"
	"encoding/gob"

	"github.com/cuemby/wcmeta/internal/wcerr"
	"github.com/cuemby/wcmeta/pkg/wcdb"
)

func init() {
	gob.Register(BaseRow{})
	gob.Register(WorkingRow{})
	gob.Register(ActualRow{})
}

func encodeRow(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, "wcnode.encodeRow", "", err)
	}
	return buf.Bytes(), nil
}

func getBaseRow(tx *wcdb.Tx, relpath string) (*BaseRow, bool, error) {
	raw, ok := tx.Get(wcdb.BucketBaseNodes, relpath)
	if !ok {
		return nil, false, nil
	}
	var row BaseRow
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&row); err != nil {
		return nil, false, wcerr.Wrap(wcerr.CorruptStore, "wcnode.getBaseRow", relpath, err)
	}
	return &row, true, nil
}

func putBaseRow(tx *wcdb.Tx, relpath string, row *BaseRow) error {
	raw, err := encodeRow(*row)
	if err != nil {
		return err
	}
	return tx.Put(wcdb.BucketBaseNodes, relpath, raw)
}

func deleteBaseRow(tx *wcdb.Tx, relpath string) error {
	return tx.Delete(wcdb.BucketBaseNodes, relpath)
}

func getWorkingRow(tx *wcdb.Tx, relpath string) (*WorkingRow, bool, error) {
	raw, ok := tx.Get(wcdb.BucketWorkNodes, relpath)
	if !ok {
		return nil, false, nil
	}
	var row WorkingRow
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&row); err != nil {
		return nil, false, wcerr.Wrap(wcerr.CorruptStore, "wcnode.getWorkingRow", relpath, err)
	}
	return &row, true, nil
}

func putWorkingRow(tx *wcdb.Tx, relpath string, row *WorkingRow) error {
	raw, err := encodeRow(*row)
	if err != nil {
		return err
	}
	return tx.Put(wcdb.BucketWorkNodes, relpath, raw)
}

func deleteWorkingRow(tx *wcdb.Tx, relpath string) error {
	return tx.Delete(wcdb.BucketWorkNodes, relpath)
}

func getActualRow(tx *wcdb.Tx, relpath string) (*ActualRow, bool, error) {
	raw, ok := tx.Get(wcdb.BucketActual, relpath)
	if !ok {
		return nil, false, nil
	}
	var row ActualRow
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&row); err != nil {
		return nil, false, wcerr.Wrap(wcerr.CorruptStore, "wcnode.getActualRow", relpath, err)
	}
	return &row, true, nil
}

func putActualRow(tx *wcdb.Tx, relpath string, row *ActualRow) error {
	raw, err := encodeRow(*row)
	if err != nil {
		return err
	}
	return tx.Put(wcdb.BucketActual, relpath, raw)
}

func deleteActualRow(tx *wcdb.Tx, relpath string) error {
	return tx.Delete(wcdb.BucketActual, relpath)
}

// parentOf returns the relpath's parent relpath ("" for a top-level
// child of the WCROOT) and whether relpath has a parent at all (false
// only for the WCROOT's own "" relpath).
func parentOf(relpath string) (parent string, hasParent bool) {
	if relpath == "" {
		return "", false
	}
	idx := lastSlash(relpath)
	if idx < 0 {
		return "", true
	}
	return relpath[:idx], true
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func basename(relpath string) string {
	idx := lastSlash(relpath)
	if idx < 0 {
		return relpath
	}
	return relpath[idx+1:]
}

func joinRelpath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "/" + child
}

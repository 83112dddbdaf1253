package wcdb

import (
	"github.com/cuemby/wcmeta/internal/wcerr"
	bolt "go.etcd.io/bbolt"
)

// Tx wraps a bbolt transaction with the typed bind/iterate surface C1
// specifies: get/put/delete by (bucket, key) and prefix iteration with the
// escape-byte convention from spec.md §4.1.
type Tx struct {
	btx      *bolt.Tx
	escByte  byte
}

// Update runs fn inside a read/write transaction. fn's returned error rolls
// the transaction back; nil commits.
func (db *DB) Update(fn func(*Tx) error) error {
	err := db.bdb.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx, escByte: db.opts.escapeByte()})
	})
	if err != nil {
		if _, ok := err.(*wcerr.Error); ok {
			return err
		}
		return wcerr.Wrap(wcerr.StoreIO, "wcdb.Update", db.path, err)
	}
	return nil
}

// View runs fn inside a read-only transaction.
func (db *DB) View(fn func(*Tx) error) error {
	err := db.bdb.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx, escByte: db.opts.escapeByte()})
	})
	if err != nil {
		if _, ok := err.(*wcerr.Error); ok {
			return err
		}
		return wcerr.Wrap(wcerr.StoreIO, "wcdb.View", db.path, err)
	}
	return nil
}

func relKey(relpath string) []byte {
	if relpath == "" {
		return []byte(rootKey)
	}
	return []byte(relpath)
}

// Get reads the raw value stored for relpath in bucket. ok is false if no
// row exists.
func (tx *Tx) Get(bucket []byte, relpath string) (value []byte, ok bool) {
	b := tx.btx.Bucket(bucket)
	if b == nil {
		return nil, false
	}
	v := b.Get(relKey(relpath))
	if v == nil {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Put writes value for relpath in bucket.
func (tx *Tx) Put(bucket []byte, relpath string, value []byte) error {
	b := tx.btx.Bucket(bucket)
	if b == nil {
		return wcerr.Wrap(wcerr.StoreIO, "wcdb.Put", relpath, bolt.ErrBucketNotFound)
	}
	return b.Put(relKey(relpath), value)
}

// Delete removes the row for relpath in bucket. A missing row is not an error.
func (tx *Tx) Delete(bucket []byte, relpath string) error {
	b := tx.btx.Bucket(bucket)
	if b == nil {
		return nil
	}
	return b.Delete(relKey(relpath))
}

func (tx *Tx) putMeta(key, value []byte) error {
	return tx.btx.Bucket(bucketMeta).Put(key, value)
}

func (tx *Tx) getMeta(key []byte) ([]byte, bool, error) {
	b := tx.btx.Bucket(bucketMeta)
	if b == nil {
		return nil, false, nil
	}
	v := b.Get(key)
	if v == nil {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// literalPrefix returns prefix with the store's escape-byte convention
// resolved: an escape byte immediately followed by '%', '_', or itself
// stands for that literal byte. Since rows are keyed by raw relpath bytes
// (not SQL LIKE patterns), matching is already literal; this purely
// validates and strips escape markers so callers can pass the same pattern
// string spec.md's escaping contract describes without it leaking into the
// on-disk key comparison.
func literalPrefix(pattern string, esc byte) string {
	out := make([]byte, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == esc && i+1 < len(pattern) {
			n := pattern[i+1]
			if n == '%' || n == '_' || n == esc {
				out = append(out, n)
				i++
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

// ForEachPrefix iterates every row in bucket whose relpath begins with
// prefix (after escape-byte resolution), in key order, until fn returns
// false or iteration is exhausted.
func (tx *Tx) ForEachPrefix(bucket []byte, prefix string, fn func(relpath string, value []byte) (cont bool, err error)) error {
	b := tx.btx.Bucket(bucket)
	if b == nil {
		return nil
	}
	lit := literalPrefix(prefix, tx.escByte)
	key := []byte(lit)
	c := b.Cursor()
	for k, v := c.Seek(key); k != nil && hasPrefix(k, key); k, v = c.Next() {
		relpath := string(k)
		if relpath == rootKey {
			relpath = ""
		}
		cont, err := fn(relpath, v)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (db *DB) workQueueEmpty() (bool, error) {
	empty := true
	err := db.View(func(tx *Tx) error {
		b := tx.btx.Bucket(bucketWorkQueue)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		if k, _ := c.First(); k != nil {
			empty = false
		}
		return nil
	})
	return empty, err
}

func encodeInt(v int) []byte {
	return []byte{
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

func decodeInt(b []byte) int {
	if len(b) < 4 {
		return 0
	}
	return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
}

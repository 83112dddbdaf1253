package wcdb

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/cuemby/wcmeta/internal/wcerr"
)

// Properties is a mapping from property name to raw byte-string value,
// spec.md §4.1's property codec. A present-but-empty value (zero-length
// byte slice) is distinct from the key being absent entirely.
type Properties map[string][]byte

// EncodeProperties serializes props to its on-disk blob form.
func EncodeProperties(props Properties) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(props); err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, "wcdb.EncodeProperties", "", err)
	}
	return buf.Bytes(), nil
}

// DecodeProperties parses a blob previously produced by EncodeProperties.
// A nil/empty blob decodes to a nil Properties map (absent), not an error.
func DecodeProperties(blob []byte) (Properties, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var props Properties
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&props); err != nil {
		return nil, wcerr.Wrap(wcerr.StoreIO, "wcdb.DecodeProperties", "", err)
	}
	return props, nil
}

// Checksum is a content digest tagged with its algorithm kind, stored as
// "{kind}:{hex}" text per spec.md §4.1.
type Checksum struct {
	Kind string
	Hex  string
}

// SupportedChecksumKinds are the digest algorithms this store accepts.
var SupportedChecksumKinds = map[string]bool{
	"sha1":   true,
	"sha256": true,
}

func (c Checksum) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Hex)
}

// IsZero reports whether c is the zero value (no checksum recorded).
func (c Checksum) IsZero() bool { return c.Kind == "" && c.Hex == "" }

// ParseChecksum parses "{kind}:{hex}" text back into a Checksum.
func ParseChecksum(text string) (Checksum, error) {
	if text == "" {
		return Checksum{}, nil
	}
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return Checksum{}, wcerr.Wrap(wcerr.CorruptChecksum, "wcdb.ParseChecksum", "", fmt.Errorf("missing ':' in %q", text))
	}
	kind, hex := text[:idx], text[idx+1:]
	if !SupportedChecksumKinds[kind] {
		return Checksum{}, wcerr.Wrap(wcerr.BadChecksumKind, "wcdb.ParseChecksum", "", fmt.Errorf("unsupported checksum kind %q", kind))
	}
	if hex == "" {
		return Checksum{}, wcerr.Wrap(wcerr.CorruptChecksum, "wcdb.ParseChecksum", "", fmt.Errorf("empty digest in %q", text))
	}
	return Checksum{Kind: kind, Hex: hex}, nil
}

// WCRootRow is the single row describing a WCROOT, stored at the sentinel
// root key of the meta bucket.
type WCRootRow struct {
	ID            int64
	AbsPath       string
	SchemaVersion int
}

func init() {
	gob.Register(Properties{})
}

// PutWCRoot writes the WCROOT row.
func (tx *Tx) PutWCRoot(row WCRootRow) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(row); err != nil {
		return wcerr.Wrap(wcerr.StoreIO, "wcdb.PutWCRoot", row.AbsPath, err)
	}
	return tx.putMeta(metaKeyWCRoot, buf.Bytes())
}

// GetWCRoot reads the WCROOT row. ok is false if init() has never run
// against this store.
func (tx *Tx) GetWCRoot() (row WCRootRow, ok bool, err error) {
	raw, present, err := tx.getMeta(metaKeyWCRoot)
	if err != nil || !present {
		return WCRootRow{}, false, err
	}
	if decErr := gob.NewDecoder(bytes.NewReader(raw)).Decode(&row); decErr != nil {
		return WCRootRow{}, false, wcerr.Wrap(wcerr.CorruptStore, "wcdb.GetWCRoot", "", decErr)
	}
	return row, true, nil
}

// Bucket name exports for packages that build on top of Tx directly (C4,
// C5, C6, C7, C8) instead of duplicating the names.
var (
	BucketRepos     = bucketRepos
	BucketBaseNodes = bucketBaseNodes
	BucketWorkNodes = bucketWorkNodes
	BucketActual    = bucketActual
	BucketPristine  = bucketPristine
	BucketLocks     = bucketLocks
	BucketWorkQueue = bucketWorkQueue
)

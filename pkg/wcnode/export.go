package wcnode

import "github.com/cuemby/wcmeta/pkg/wcdb"

// GetBaseRow reads the BASE row for relpath within an already-open
// transaction. Exported so callers that need to examine a chain of
// ancestors consistently within one transaction (pkg/wcscan) don't have
// to duplicate the row codec.
func GetBaseRow(tx *wcdb.Tx, relpath string) (*BaseRow, bool, error) {
	return getBaseRow(tx, relpath)
}

// GetWorkingRow reads the WORKING row for relpath within an already-open
// transaction.
func GetWorkingRow(tx *wcdb.Tx, relpath string) (*WorkingRow, bool, error) {
	return getWorkingRow(tx, relpath)
}

// GetActualRow reads the ACTUAL row for relpath within an already-open
// transaction.
func GetActualRow(tx *wcdb.Tx, relpath string) (*ActualRow, bool, error) {
	return getActualRow(tx, relpath)
}

// PutBaseRow writes the BASE row for relpath within an already-open
// transaction. Exported for bulk, cross-node transactional rewrites
// (pkg/wcops) that must not nest a second wcdb.DB.Update.
func PutBaseRow(tx *wcdb.Tx, relpath string, row *BaseRow) error {
	return putBaseRow(tx, relpath, row)
}

// DeleteBaseRow deletes the BASE row for relpath within an already-open
// transaction.
func DeleteBaseRow(tx *wcdb.Tx, relpath string) error {
	return deleteBaseRow(tx, relpath)
}

// PutWorkingRow writes the WORKING row for relpath within an
// already-open transaction.
func PutWorkingRow(tx *wcdb.Tx, relpath string, row *WorkingRow) error {
	return putWorkingRow(tx, relpath, row)
}

// DeleteWorkingRow deletes the WORKING row for relpath within an
// already-open transaction.
func DeleteWorkingRow(tx *wcdb.Tx, relpath string) error {
	return deleteWorkingRow(tx, relpath)
}

// PutActualRow writes the ACTUAL row for relpath within an already-open
// transaction.
func PutActualRow(tx *wcdb.Tx, relpath string, row *ActualRow) error {
	return putActualRow(tx, relpath, row)
}

// DeleteActualRow deletes the ACTUAL row for relpath within an
// already-open transaction.
func DeleteActualRow(tx *wcdb.Tx, relpath string) error {
	return deleteActualRow(tx, relpath)
}

// ParentRelpath returns relpath's parent relpath and whether relpath has
// one at all (false only for the WCROOT's own "" relpath).
func ParentRelpath(relpath string) (parent string, hasParent bool) {
	return parentOf(relpath)
}

// Basename returns the final path component of relpath.
func Basename(relpath string) string {
	return basename(relpath)
}

// NotifyOnSuccess invokes s's OnMutate hook for relpath when err is nil,
// then returns err unchanged. Exported so bulk cross-node rewrites
// outside this package (pkg/wcops) can participate in the same
// directory-entries-cache invalidation contract as the write verbs in
// write.go.
func NotifyOnSuccess(s *Store, relpath string, err error) error {
	return notifyOnSuccess(s, relpath, err)
}

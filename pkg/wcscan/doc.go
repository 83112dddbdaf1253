/*
Package wcscan implements the three upward-walking scanners (spec
component C5): scan_base_repos derives inherited repository coordinates,
scan_addition derives add/copy/move provenance, and scan_deletion derives
deletion/move-destination provenance. Each ancestor walk runs inside a
single read transaction against one WCROOT store, so the chain of rows it
examines is a consistent snapshot. ScanBaseRepos resolves repos_id to
(root-url, uuid) in a second read transaction, and ScanAddition calls
ScanBaseRepos after its own walk's transaction has ended.
*/
package wcscan

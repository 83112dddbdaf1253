/*
Package wcops implements the bulk, cross-layer transactional rewrites that
don't belong to a single node's read/write verb set: commit (collapsing
WORKING onto BASE after a successful push to the repository), relocate
(rewriting every repository coordinate under a subtree after the
repository's root URL changes), and the server-granted path lock
bookkeeping that rides on the same BASE-row lock-info field (spec
component C6).
*/
package wcops

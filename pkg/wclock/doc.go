/*
Package wclock implements the advisory working-copy lock (spec component
C8): a uniqueness-enforced row per locked path plus an in-process "we own
this" bit that survives independently of the row, so a client can
reconcile its own lock state with one taken externally — by another
process, or left behind after a crash — during a resolve cycle.
*/
package wclock

/*
Package wcnode is the node model and three-layer query engine (spec
component C4): it reads and writes the BASE, WORKING, and ACTUAL layers for
a single node and composes them into the unified status spec.md §4.4
describes.

Each layer is an independent row keyed by (wcroot, relpath), stored through
pkg/wcdb's bucket-per-layer KV adaptation of the relational model spec.md
assumes. The composite-status table is implemented as a literal lookup
table over (BASE.presence, WORKING.presence, WORKING.copyfrom-is-set) in
status.go, per spec.md §9's recommendation.

	BASE ───┐
	        ├── compose() ── Info{Status, Kind, Revision, Conflicted, ...}
	WORKING ┤
	        │
	ACTUAL ─┘ (+ parent's tree-conflict blob, for Conflicted)

Every mutating verb (base_add_*, set_props, set_tree_conflict, ...) runs in
one wcdb transaction and, on success, invokes the Store's OnMutate hook so
a caller-held directory-entries cache can be invalidated — the "flush any
external entries cache" contract from spec.md §4.4.
*/
package wcnode

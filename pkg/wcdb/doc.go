/*
Package wcdb is the relational store wrapper (spec component C1): one
embedded database file per working-copy root, opened once per process and
shared by every caller that resolves into that root.

The distillation this module implements describes C1 in relational terms
(typed statement cache, bind-by-position, with_transaction). The backing
engine here is bbolt, an embedded ordered key/value store, following the
teacher codebase's own storage layer. The adaptation:

	┌────────────────────── WCDB (bbolt-backed) ───────────────────────┐
	│                                                                    │
	│  ┌──────────────────────────────────────────────────┐           │
	│  │                  *bbolt.DB                        │           │
	│  │  File: <wcroot>/.svn/wc.db                        │           │
	│  │  Opened once, shared across all callers in-process │           │
	│  └──────────────────────┬───────────────────────────┘           │
	│                         │                                         │
	│  ┌──────────────────────▼───────────────────────────┐           │
	│  │                  Buckets ("tables")                │           │
	│  │   meta            schema version, wcroot row       │           │
	│  │   repos           interned (root-url, uuid) rows    │           │
	│  │   base_nodes      BASE layer, keyed by relpath      │           │
	│  │   working_nodes   WORKING layer, keyed by relpath   │           │
	│  │   actual_nodes    ACTUAL layer, keyed by relpath    │           │
	│  │   pristine        pristine digest rows              │           │
	│  │   locks           advisory-lock rows                │           │
	│  │   wq              work-queue rows, keyed by id       │           │
	│  └──────────────────────┬───────────────────────────┘           │
	│                         │                                         │
	│  ┌──────────────────────▼───────────────────────────┐           │
	│  │      Transactions: Update (read/write, rollback    │           │
	│  │      on returned error), View (read-only)           │           │
	│  └────────────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────────────────┘

Every row is gob-encoded. Relative paths are stored as raw UTF-8 keys
(joined with "/"); the WCROOT's own row, whose relpath is "", is stored
under the sentinel key rootKey since bbolt rejects zero-length keys.
*/
package wcdb

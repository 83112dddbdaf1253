/*
Package pristine is the content-addressed pristine object store (spec
component C2): the authoritative base text for every versioned file,
keyed by a strong content digest and shared across every node that
happens to reference the same bytes.

Grounded on the install-via-temp-then-rename pattern used by
0xlemi-microprolly's pkg/cas (adapted here to also maintain the companion
store row spec.md §3 requires, and to read the digest as a wcdb.Checksum
rather than a raw hash type, since this store is keyed by the same
"{kind}:{hex}" digests the rest of the core uses).

	<wcroot>/.svn/pristine/<first-two-hex>/<hexdigest>
	<wcroot>/.svn/tmp/                      caller-visible staging area
*/
package pristine

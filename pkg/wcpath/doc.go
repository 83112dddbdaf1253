/*
Package wcpath is the path resolver and root cache (spec component C3):
it maps an absolute filesystem path to the working-copy root that owns
it plus the path relative to that root, ascending the filesystem when
necessary and caching every handle it constructs along the way so that
later resolutions in the same subtree are O(1).

A Resolver pins one open mode and one set of wcdb.OpenOptions for its
whole lifetime, matching the "opened once per process, shared by every
caller" model described for C1: a WCROOT store is only ever opened once
no matter how many distinct absolute paths resolve into it.
*/
package wcpath

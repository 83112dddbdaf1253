/*
Package workqueue implements the FIFO, single-process-consumer work queue
(spec component C7). Add appends an opaque serialized work item; Fetch
returns the oldest item still pending without removing it; Completed
removes an item by id once its caller has finished executing it. The
queue only guarantees an item stays visible until Completed is called,
which is what makes the on-disk side effects a consumer performs between
Fetch and Completed crash-safe: a crash mid-execution leaves the item for
the next Fetch to pick up again.
*/
package workqueue

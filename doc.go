// Package asyncbuf provides single-packet hand-off buffers between one slow
// background worker and any number of foreground callers.
//
// Each buffer owns exactly one worker goroutine, spawned at construction and
// stopped by Close. The worker performs a potentially slow collaborator call
// (querying a sensor, running an expensive transform) and publishes the
// result into a lock-protected slot. All caller-facing operations are
// non-blocking and bounded regardless of what the worker is doing: no lock is
// ever held across a collaborator call.
//
// Three variants exist, selected at construction:
//
//   - [Cache] runs an update only when [Cache.Trigger] is called and idles
//     otherwise. Triggers issued while an update is in flight coalesce into
//     the pending one.
//   - [Continuous] updates in a loop without triggers, optionally rate
//     limited with [WithInterval].
//   - [IO] is a depth-1 pipeline: callers provide input packets and drain
//     output packets at independent rates, with at most one packet in flight
//     per direction. An unconsumed input is overwritten by the next one
//     (last-write-wins).
//
// Collaborator failures never stop a worker: the previous payload stays in
// place, the failure is logged, and the configured retry policy decides
// whether to retry before giving up on that cycle.
package asyncbuf

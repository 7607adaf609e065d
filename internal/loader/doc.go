// Package loader lazily constructs controllers and caches them per name.
//
// # Single flight
//
// The first Resolve for a name creates a Pending slot in the same critical
// section that found no slot, then builds the controller on its own
// goroutine. Every caller that arrives while the slot is Pending is queued as
// a waiter instead of starting a second build. When the build finishes the
// slot moves to Ready or Failed exactly once and all queued waiters are
// notified in the order they arrived. Callers that show up while that
// notification is still running are appended to the same queue, so a late
// caller is never answered before an earlier one.
//
// # Slot states
//
//	Pending --build ok--> Ready(controller)
//	Pending --build err-> Failed(error)
//
// Both terminal states are permanent. A Failed slot replays its error to
// every later caller; the build is never retried for the lifetime of the
// Loader. Names that are not registered never get a slot, so registering
// one later and resolving again works.
//
// # Cancellation
//
// The build runs under context.WithoutCancel and does not observe the
// cancellation of the caller that started it. A caller whose context ends stops waiting
// and gets ctx.Err(); the build carries on and its outcome is still cached.
// There is no timeout on a build. A Load hook that never returns blocks
// every waiter that has no deadline of its own.
package loader

// Package study generates panel event-study indicator columns.
//
// For each distinct value of a state column the package emits a family of
// binary columns named <event>_<state>_<k>_<l>. Column (s, k, l) is 1 on a row
// when, within the row's panel, the k-th repetition of an event in state s
// happened l periods earlier. Repetitions beyond K collapse into k = K and
// distances beyond L collapse into l = L.
//
// ARCHITECTURE:
//
// A run is four strictly ordered phases over one Store:
//  1. NewParams validates K, L, the four column roles and the sort precondition
//  2. DiscoverStates collects the ascending set of non-missing state values
//  3. Materialize drops the stale <event>_* namespace, then creates and labels
//     every (state, k, l) column up front
//  4. the sweep visits rows once in (panel, time) order, keeping per-panel
//     counters in a scratch table that is cleared on every panel change
//
// The sweep is single-threaded by default. With Workers > 1 rows are split on
// panel boundaries only, partitions are swept concurrently into private stamp
// buffers, and the buffers are written to the store serially in row order.
//
// Rows with a missing state, event or time value are skipped without touching
// the panel's counters.
//
// The state stamped for an event is the state on the event row itself, not
// the state of the preceding period. Whether the lagged state is the better
// definition is an open domain question; this package keeps the unlagged one.
package study

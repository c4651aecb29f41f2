// Package harness runs event-study conformance scenarios.
//
// A scenario is a small panel dataset plus study parameters and the stamps
// the run must produce. The harness builds the dataset, runs the study,
// persists the result through an in-memory store, reloads it, and evaluates
// assertions against what came back.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	params:
//	  k: 2
//	  l: 1
//	  event: ev
//	  state: st
//	  panel: id
//	  time: t
//	columns: [id, t, st, ev]
//	rows:
//	  - [1, 1, 7, 0]
//	  - [1, 2, 7, 1]
//	  - [1, 3, null, 1]   # null is a missing value
//	value_labels:
//	  st: {7: "seven"}
//	exhaustive: true
//	assertions:
//	  - type: stamps
//	    row: 2
//	    columns: [ev_7_1_0]
//	  - type: column_count
//	    count: 4
//
// Rows are numbered from 1 in assertions.
//
// # Assertion Types
//
//   - stamps: the output columns set to 1 on a row are exactly the given list
//   - no_stamps: the given rows carry no stamps at all
//   - column_count: number of output columns after the run
//   - column_label: an output column carries the given label
//   - column_absent: a column no longer exists after the run
//   - error_code: the run fails with a configuration error of this code
//
// With exhaustive set, every row not named by a stamps assertion must carry
// no stamps.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a fixed
// run ID, so golden snapshots are byte-for-byte reproducible.
package harness

// Package dataset provides the in-memory columnar table that event-study runs
// read from and write to.
//
// A Frame holds a fixed number of rows and an ordered set of numeric columns.
// Every cell is a float64; missing values are NaN. Alongside the data a Frame
// carries the metadata a statistical host would keep:
//   - a storage kind per column (byte, int, double)
//   - a variable label per column
//   - value labels per column (integer code -> text)
//   - the declared sort key, set by SortBy and cleared when a key column changes
//
// Column names are NFC-normalized and trimmed on every entry point, so callers
// can pass names taken straight from file headers.
//
// Frame is not safe for concurrent mutation. Concurrent reads are safe.
package dataset

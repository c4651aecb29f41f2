package study

import "sort"

// DiscoverStates reads column once and returns its distinct non-missing
// values in ascending order. Values are truncated to integers.
func DiscoverStates(st Store, column string) ([]int, error) {
	seen := make(map[int]struct{})
	rows := st.RowCount()
	for row := 0; row < rows; row++ {
		v, err := st.ReadNumeric(column, row)
		if err != nil {
			return nil, &StoreError{Op: "read", Column: column, Err: err}
		}
		if st.IsMissing(v) {
			continue
		}
		seen[int(v)] = struct{}{}
	}

	states := make([]int, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Ints(states)
	return states, nil
}

package dataset

import (
	"fmt"
	"sort"
)

// SortBy reorders all rows ascending by the given columns and declares them
// as the sort key. Missing values sort after every number. The sort is
// stable, so rows that tie on every key keep their relative order.
func (f *Frame) SortBy(columns ...string) error {
	if len(columns) == 0 {
		return fmt.Errorf("sort: no columns given")
	}

	keys := make([]*Column, len(columns))
	for i, name := range columns {
		c, err := f.Column(name)
		if err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		keys[i] = c
	}

	perm := make([]int, f.rows)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for _, c := range keys {
			if cmp := compareValues(c.Values[ra], c.Values[rb]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})

	for _, c := range f.columns {
		reordered := make([]float64, f.rows)
		for dst, src := range perm {
			reordered[dst] = c.Values[src]
		}
		c.Values = reordered
	}

	f.sortKey = make([]string, len(keys))
	for i, c := range keys {
		f.sortKey[i] = c.Name
	}
	return nil
}

// IsSortedBy reports whether the rows are actually in ascending order by the
// given columns. It does not consult the declared key.
func (f *Frame) IsSortedBy(columns ...string) (bool, error) {
	keys := make([]*Column, len(columns))
	for i, name := range columns {
		c, err := f.Column(name)
		if err != nil {
			return false, err
		}
		keys[i] = c
	}
	for row := 1; row < f.rows; row++ {
		for _, c := range keys {
			cmp := compareValues(c.Values[row-1], c.Values[row])
			if cmp < 0 {
				break
			}
			if cmp > 0 {
				return false, nil
			}
		}
	}
	return true, nil
}

func compareValues(a, b float64) int {
	am, bm := IsMissing(a), IsMissing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return 1
	case bm:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package study

import "fmt"

// Key identifies one output column: state value, repetition k (1..K) and
// lag l (0..L).
type Key struct {
	State int
	K     int
	L     int
}

// Registry owns the mapping from Key to output column name. Names are
// computed on first request and cached; the same key always yields the same
// name regardless of request order.
//
// Registry is not safe for concurrent use.
type Registry struct {
	event   string
	k, l    int
	states  []int
	ordinal map[int]int
	names   map[Key]string
}

// NewRegistry creates the registry for an event column, the discovered
// states (ascending) and the K/L ceilings.
func NewRegistry(event string, states []int, k, l int) *Registry {
	ordinal := make(map[int]int, len(states))
	for i, s := range states {
		ordinal[s] = i
	}
	return &Registry{
		event:   event,
		k:       k,
		l:       l,
		states:  states,
		ordinal: ordinal,
		names:   make(map[Key]string, len(states)*k*(l+1)),
	}
}

// Name returns the canonical column name for key.
func (r *Registry) Name(key Key) string {
	if name, ok := r.names[key]; ok {
		return name
	}
	name := fmt.Sprintf("%s_%d_%d_%d", r.event, key.State, key.K, key.L)
	r.names[key] = name
	return name
}

// Keys enumerates the full cross product states x 1..K x 0..L in ascending
// (state, k, l) order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, r.Len())
	for _, s := range r.states {
		for k := 1; k <= r.k; k++ {
			for l := 0; l <= r.l; l++ {
				keys = append(keys, Key{State: s, K: k, L: l})
			}
		}
	}
	return keys
}

// Len is the number of output columns.
func (r *Registry) Len() int {
	return len(r.states) * r.k * (r.l + 1)
}

// States returns the discovered states in ascending order.
func (r *Registry) States() []int {
	return r.states
}

// Ordinal returns the position of state in States.
func (r *Registry) Ordinal(state int) (int, bool) {
	i, ok := r.ordinal[state]
	return i, ok
}

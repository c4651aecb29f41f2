package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_NameFormat(t *testing.T) {
	reg := NewRegistry("ev", []int{-1, 7}, 2, 1)

	assert.Equal(t, "ev_7_1_0", reg.Name(Key{State: 7, K: 1, L: 0}))
	assert.Equal(t, "ev_-1_2_1", reg.Name(Key{State: -1, K: 2, L: 1}))
}

func TestRegistry_NameIsIdempotentAndOrderIndependent(t *testing.T) {
	a := NewRegistry("ev", []int{1, 11}, 11, 1)
	b := NewRegistry("ev", []int{1, 11}, 11, 1)

	keys := a.Keys()
	first := make([]string, len(keys))
	for i, k := range keys {
		first[i] = a.Name(k)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		assert.Equal(t, first[i], b.Name(keys[i]))
		assert.Equal(t, first[i], a.Name(keys[i]))
	}
}

func TestRegistry_KeysCoverCrossProductUniquely(t *testing.T) {
	states := []int{1, 11, 111}
	for k := 1; k <= 3; k++ {
		for l := 0; l <= 3; l++ {
			reg := NewRegistry("ev", states, k, l)
			keys := reg.Keys()

			assert.Len(t, keys, len(states)*k*(l+1))
			assert.Equal(t, reg.Len(), len(keys))

			names := make(map[string]Key)
			perState := make(map[int]int)
			for _, key := range keys {
				name := reg.Name(key)
				if prev, dup := names[name]; dup {
					t.Fatalf("name %q shared by %v and %v", name, prev, key)
				}
				names[name] = key
				perState[key.State]++
			}
			for _, s := range states {
				assert.Equal(t, k*(l+1), perState[s])
			}
		}
	}
}

func TestRegistry_KeysAscending(t *testing.T) {
	reg := NewRegistry("ev", []int{3, 7}, 2, 1)
	assert.Equal(t, []Key{
		{3, 1, 0}, {3, 1, 1}, {3, 2, 0}, {3, 2, 1},
		{7, 1, 0}, {7, 1, 1}, {7, 2, 0}, {7, 2, 1},
	}, reg.Keys())
}

func TestRegistry_Ordinal(t *testing.T) {
	reg := NewRegistry("ev", []int{3, 7}, 1, 0)

	ord, ok := reg.Ordinal(7)
	assert.True(t, ok)
	assert.Equal(t, 1, ord)

	_, ok = reg.Ordinal(5)
	assert.False(t, ok)
}

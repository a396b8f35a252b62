package hopscotch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// identityHasher lets tests control exactly which bucket a key lands in
// (home = key mod S), matching the boundary scenarios in the spec this
// engine is built from.
func identityHasher(k uint64) uint64 { return k }

func newIdentityMap(t *testing.T) *Hopscotch[uint64, int] {
	t.Helper()
	return NewWithHasher[uint64, int](HashFn[uint64](identityHasher))
}

// TestDisplacedNeighborsAfterCollisions reproduces the boundary scenario
// of inserting keys 1, 9, 17, 3, 6, 14 into a size-8 table: home 1 ends
// up with displaced neighbors [1, 2, 4]; home 3 has [3]; home 6 has
// [6, 7].
func TestDisplacedNeighborsAfterCollisions(t *testing.T) {
	m := newIdentityMap(t)
	for i, k := range []uint64{1, 9, 17, 3, 6, 14} {
		m.Set(k, i)
	}

	assert.Equal(t, 8, m.size, "no growth expected for 6 entries at maxLoad 0.8")

	assert.Equal(t, []int{1, 2, 4}, displacedNeighbors(m.nbhds.word(1), m.width, 1))
	assert.Equal(t, []int{3}, displacedNeighbors(m.nbhds.word(3), m.width, 3))
	assert.Equal(t, []int{6, 7}, displacedNeighbors(m.nbhds.word(6), m.width, 6))

	for i, k := range []uint64{1, 9, 17, 3, 6, 14} {
		v, err := m.Get(k)
		assert.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

// TestFreeUpNearCase covers: insert keys 1..5, then free_up(1) opens
// bucket 1 by moving its entry to bucket 6; nbhds[1] indicates offset 5.
func TestFreeUpNearCase(t *testing.T) {
	m := newIdentityMap(t)
	for i, k := range []uint64{1, 2, 3, 4, 5} {
		m.Set(k, i)
	}

	assert.NoError(t, m.freeUp(1))

	assert.True(t, m.indices.free(1))
	assert.False(t, m.indices.free(6))
	assert.Equal(t, 0, m.indices.get(6)) // key 1 was entry index 0

	assert.Equal(t, uint64(1)<<(8-1-5), m.nbhds.word(1))
}

// TestFreeUpCascade covers: with a wide-enough table to hold keys 1..10
// without any two sharing a home bucket, free_up(1) must cascade: the
// entry at bucket 1 moves to bucket 4, and the entry already at bucket 4
// moves to bucket 11, since the nearest free slot (11) lies outside
// bucket 1's neighborhood (H=8) and bucket 4 is the closest occupied
// bucket whose own displaced neighbor (itself, at offset 0) can be
// dragged into that free slot.
func TestFreeUpCascade(t *testing.T) {
	m := newIdentityMap(t)
	// Pre-size to S=16 so inserting keys 1..10 never collides (each
	// lands directly on its own home) and never triggers a growth
	// resize, which would otherwise confound the scenario.
	assert.NoError(t, m.resize(16))

	for i := uint64(1); i <= 10; i++ {
		m.Set(i, int(i))
	}
	for b := 1; b <= 10; b++ {
		assert.Falsef(t, m.indices.free(b), "bucket %d should be occupied", b)
	}

	key1Entry := m.indices.get(1)
	key4Entry := m.indices.get(4)

	assert.NoError(t, m.freeUp(1))

	assert.True(t, m.indices.free(1))
	assert.Equal(t, key1Entry, m.indices.get(4))
	assert.Equal(t, key4Entry, m.indices.get(11))

	v, err := m.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = m.Get(4)
	assert.NoError(t, err)
	assert.Equal(t, 4, v)
}

// TestManyKeysSameHomeTriggerResize: keys that are all congruent to 1
// mod 8 exhaust bucket 1's forward-reachable free slots in a small
// table, which must force a resize rather than lose any entry.
func TestManyKeysSameHomeTriggerResize(t *testing.T) {
	m := newIdentityMap(t)
	keys := []uint64{1, 33, 65, 97, 129, 161, 193, 225}
	for i, k := range keys {
		m.Set(k, i)
	}

	assert.Equal(t, len(keys), m.Len())
	assert.Greater(t, m.size, 8, "exhausting bucket 1's neighborhood must have forced a resize")

	for i, k := range keys {
		v, err := m.Get(k)
		assert.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

// TestResizeWidensNeighborhood covers: resizing from S=8 to S=512 with
// H=8 increases H to 16, since ceil(log2(512)) = 9 >= 8 and the next
// allowed width >= 9 is 16.
func TestResizeWidensNeighborhood(t *testing.T) {
	m := New[int, int]()
	assert.EqualValues(t, 8, m.width)

	assert.NoError(t, m.resize(512))
	assert.Equal(t, 512, m.size)
	assert.EqualValues(t, 16, m.width)
}

// TestBulkInsertGrowsPastInitialPower covers: inserting 55000 distinct
// keys into an initially size-2^16 table ends at S=2^17, with every key
// retrievable and iteration yielding exactly 55000 distinct keys.
func TestBulkInsertGrowsPastInitialPower(t *testing.T) {
	if testing.Short() {
		t.Skip("large bulk insert, skipped in -short mode")
	}

	m := New[int, int]()
	assert.NoError(t, m.resize(1<<16))

	const n = 55000
	for i := 0; i < n; i++ {
		m.Set(i, i*2)
	}

	assert.Equal(t, n, m.Len())
	assert.Equal(t, 1<<17, m.size)

	seen := make(map[int]bool, n)
	m.Each(func(k, v int) bool {
		assert.False(t, seen[k], "duplicate key in iteration")
		seen[k] = true
		assert.Equal(t, k*2, v)
		return false
	})
	assert.Len(t, seen, n)

	for i := 0; i < n; i++ {
		v, err := m.Get(i)
		assert.NoError(t, err)
		assert.Equal(t, i*2, v)
	}
}

func TestFreeUpOnFreeBucketIsNoOp(t *testing.T) {
	m := newIdentityMap(t)
	// freeUp on an already-free bucket is defined as a no-op, never
	// NoSpace.
	assert.NoError(t, m.freeUp(0))
}

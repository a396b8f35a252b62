// Package hopscotch implements an associative container using hopscotch
// hashing: every key's home bucket is its hash modulo the table size,
// and any key that cannot sit at its home sits within a bounded
// neighborhood immediately following that home. Lookup therefore visits
// at most H slots regardless of collision load, where H is the
// neighborhood width — a worst-case constant-time Get.
//
// The container is single-threaded and volatile: it has no internal
// synchronisation, no persistence, and makes no iteration-order
// guarantees beyond stability across a window with no mutation.
package hopscotch

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	initialSize    = 8
	initialWidth   = 8
	defaultMaxLoad = 0.8
)

// Hopscotch is a hashmap implementation which uses open addressing,
// where collisions are managed within a bounded neighborhood following
// each key's home bucket. The neighborhood is tracked as a bitmap per
// bucket (nbhds) alongside a width-adaptive slot array (indices)
// pointing into three parallel data vectors (keys, values, hashes).
// When the next empty slot falls outside a home's neighborhood,
// subsequent entries are cascaded closer (freeUp) or, failing that, the
// whole table is rebuilt at a larger size (resize).
type Hopscotch[K comparable, V any] struct {
	indices slotStore
	nbhds   nbhdStore
	data    entries[K, V]

	hasher  HashFn[K]
	size    int  // S: current capacity, always a power of two
	width   uint // H: current neighborhood width, one of {8,16,32,64}
	maxLoad float32
}

// New creates a ready to use Hopscotch map with default settings.
func New[K comparable, V any]() *Hopscotch[K, V] {
	return NewWithHasher[K, V](defaultHasher[K]())
}

// NewWithHasher is New but with an explicit hash function. Use this for
// key types the default hasher cannot reflect its way to a hash for,
// such as structs or slices.
func NewWithHasher[K comparable, V any](hasher HashFn[K]) *Hopscotch[K, V] {
	m := &Hopscotch[K, V]{
		hasher:  hasher,
		size:    initialSize,
		width:   initialWidth,
		maxLoad: defaultMaxLoad,
	}
	m.indices = newSlots(initialSize)
	m.nbhds = newNbhds(initialSize, initialWidth)
	return m
}

// homeBucket is the bucket a key with this hash is addressed to:
// hash mod S. Size is always a power of two so a mask suffices.
//
//go:inline
func (m *Hopscotch[K, V]) homeBucket(hash uint64) int {
	return int(hash & uint64(m.size-1))
}

// lookup scans only the neighbor bits at key's home bucket, visiting
// each indicated slot and comparing the cached hash and stored key. It
// runs in O(H) regardless of how full the table is.
func (m *Hopscotch[K, V]) lookup(key K, hash uint64) (bucket int, found bool) {
	b := m.homeBucket(hash)
	word := m.nbhds.word(b)
	if word == 0 {
		return 0, false
	}

	match := -1
	w := word << (64 - m.width)
	for w != 0 {
		k := bits.LeadingZeros64(w)
		bk := b + k

		if bk >= m.size || m.indices.free(bk) {
			corruption("neighbor bit set for a vacant or out-of-range slot")
		}

		e := m.indices.get(bk)
		if m.data.hashes[e] == hash && m.data.keys[e] == key {
			// Last match in scan order wins; relevant only under a
			// hash/equality contract violation, since distinct-but-equal
			// keys cannot otherwise collide on both hash and ==.
			match = bk
		}

		w &^= uint64(1) << (63 - k)
	}

	if match < 0 {
		return 0, false
	}
	return match, true
}

// Get returns the value stored for key, or ErrMissingKey if absent.
func (m *Hopscotch[K, V]) Get(key K) (V, error) {
	if idx, found := m.lookup(key, m.hasher(key)); found {
		return m.data.values[m.indices.get(idx)], nil
	}
	var zero V
	return zero, ErrMissingKey
}

// GetOr returns the value stored for key, or def if absent. It never
// inserts def into the map.
func (m *Hopscotch[K, V]) GetOr(key K, def V) V {
	if v, err := m.Get(key); err == nil {
		return v
	}
	return def
}

// Contains reports whether key is present.
func (m *Hopscotch[K, V]) Contains(key K) bool {
	_, found := m.lookup(key, m.hasher(key))
	return found
}

// Set inserts key with value, or overwrites the existing value if key
// is already present.
func (m *Hopscotch[K, V]) Set(key K, value V) {
	hash := m.hasher(key)

	if idx, found := m.lookup(key, hash); found {
		e := m.indices.get(idx)
		m.data.keys[e] = key
		m.data.values[e] = value
		m.data.hashes[e] = hash
		return
	}

	b := m.homeBucket(hash)
	if !m.indices.free(b) {
		if err := m.freeUp(b); err != nil {
			m.grow()
			m.Set(key, value)
			return
		}
	}

	e := m.data.append(key, value, hash)
	m.indices.set(b, e)
	mustNbhdSet(m.nbhds, b, 0)

	if float32(m.data.len())/float32(m.size) >= m.maxLoad {
		m.grow()
	}
}

// Remove deletes key. It returns ErrMissingKey if key is absent.
func (m *Hopscotch[K, V]) Remove(key K) error {
	hash := m.hasher(key)
	bAct, found := m.lookup(key, hash)
	if !found {
		return ErrMissingKey
	}

	e := m.indices.get(bAct)
	bHome := m.homeBucket(hash)

	last := m.data.len() - 1
	if e != last {
		// Find this before marking bAct free below: lookup for the
		// displaced key must see a consistent table.
		lastKey := m.data.keys[last]
		lastHash := m.data.hashes[last]
		lastBucket, ok := m.lookup(lastKey, lastHash)
		if !ok {
			corruption("swap-remove could not relocate the displaced key")
		}
		m.indices.set(lastBucket, e)
	}
	m.data.swapRemove(e)

	mustNbhdClear(m.nbhds, bHome, bAct-bHome)
	m.indices.set(bAct, freeSlot)
	return nil
}

// Pop deletes key and returns its value. If key is absent and a default
// is supplied, the default is returned instead of an error; with no
// default, ErrMissingKey is returned. A supplied default is returned as
// is even when it is a nil pointer, slice, map or interface; it is not
// treated as an absent default.
func (m *Hopscotch[K, V]) Pop(key K, def ...V) (V, error) {
	if v, err := m.Get(key); err == nil {
		if rmErr := m.Remove(key); rmErr != nil {
			corruption("pop could not remove a key it just found")
		}
		return v, nil
	}

	if len(def) > 0 {
		return def[0], nil
	}

	var zero V
	return zero, ErrMissingKey
}

// PopAny removes and returns the entry at the current last storage
// position. It returns ErrEmpty if the map has no entries.
func (m *Hopscotch[K, V]) PopAny() (K, V, error) {
	if m.data.len() == 0 {
		var zk K
		var zv V
		return zk, zv, ErrEmpty
	}

	last := m.data.len() - 1
	key := m.data.keys[last]
	val := m.data.values[last]

	if err := m.Remove(key); err != nil {
		corruption("pop_any could not remove the last entry")
	}

	return key, val, nil
}

// SetDefault returns key's value if present; otherwise it inserts
// (key, def) and returns def.
func (m *Hopscotch[K, V]) SetDefault(key K, def V) V {
	if v, err := m.Get(key); err == nil {
		return v
	}
	m.Set(key, def)
	return def
}

// Len returns the number of entries currently stored.
func (m *Hopscotch[K, V]) Len() int {
	return m.data.len()
}

// Load returns the current load factor N/S.
func (m *Hopscotch[K, V]) Load() float32 {
	return float32(m.data.len()) / float32(m.size)
}

// Clear removes all entries and returns the map to its initial empty
// shape (S=8, H=8).
func (m *Hopscotch[K, V]) Clear() {
	m.size = initialSize
	m.width = initialWidth
	m.indices = newSlots(initialSize)
	m.nbhds = newNbhds(initialSize, initialWidth)
	m.data.reset()
}

// Reserve grows the map so it can hold at least n entries without an
// incremental resize during a known-size bulk load. It has no effect if
// the map is already large enough.
func (m *Hopscotch[K, V]) Reserve(n int) {
	if n <= 0 {
		return
	}
	needed := uint64(float64(n) / float64(m.maxLoad))
	target := int(nextPowerOf2(needed))
	if target < initialSize {
		target = initialSize
	}
	if target > m.size {
		if err := m.resize(target); err != nil {
			panic(err)
		}
	}
}

// MaxLoad changes the load factor that triggers a resize. Useful values
// are in the range [0.5, 0.9]. It returns ErrBadArgument if lf is not in
// the open interval (0, 1).
func (m *Hopscotch[K, V]) MaxLoad(lf float32) error {
	if lf <= 0.0 || lf >= 1.0 {
		return fmt.Errorf("%f: %w", lf, ErrBadArgument)
	}
	m.maxLoad = lf
	return nil
}

// Copy returns an independent copy of the map. The data vectors are
// copied element-wise; a value's copy follows Go's ordinary assignment
// semantics, which is a true deep copy for comparable scalar value types
// and a shared reference for any pointer, slice, or map held inside V —
// the same as copying a struct containing one.
func (m *Hopscotch[K, V]) Copy() *Hopscotch[K, V] {
	cpy := &Hopscotch[K, V]{
		hasher:  m.hasher,
		size:    m.size,
		width:   m.width,
		maxLoad: m.maxLoad,
		indices: cloneSlots(m.indices),
		nbhds:   cloneNbhds(m.nbhds),
	}
	cpy.data.keys = append([]K(nil), m.data.keys...)
	cpy.data.values = append([]V(nil), m.data.values...)
	cpy.data.hashes = append([]uint64(nil), m.data.hashes...)
	return cpy
}

// String renders a debugging summary of the map's shape and a prefix of
// its contents.
func (m *Hopscotch[K, V]) String() string {
	const maxShown = 8

	var b strings.Builder
	fmt.Fprintf(&b, "hopscotch.Map[N=%d, S=%d, H=%d]{", m.data.len(), m.size, m.width)

	n := m.data.len()
	truncated := n > maxShown
	if truncated {
		n = maxShown
	}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", m.data.keys[i], m.data.values[i])
	}
	if truncated {
		b.WriteString(", ...")
	}
	b.WriteString("}")
	return b.String()
}

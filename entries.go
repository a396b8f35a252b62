package hopscotch

// entries holds the parallel key/value/cached-hash vectors for live
// entries, in append-with-swap-remove order. Entry indices are not
// stable: removing an entry that is not last relocates the last triple
// into its place.
type entries[K comparable, V any] struct {
	keys   []K
	values []V
	hashes []uint64
}

func (e *entries[K, V]) len() int { return len(e.keys) }

// append adds a new triple and returns the index it was stored at, which
// is always the pre-append length.
func (e *entries[K, V]) append(key K, val V, hash uint64) int {
	idx := len(e.keys)
	e.keys = append(e.keys, key)
	e.values = append(e.values, val)
	e.hashes = append(e.hashes, hash)
	return idx
}

// swapRemove deletes the entry at idx. If idx is not the last entry, the
// last triple is moved into idx and movedFrom reports true so the
// caller can fix up the bucket that pointed at the old last position.
func (e *entries[K, V]) swapRemove(idx int) (movedKey K, movedFrom bool) {
	last := len(e.keys) - 1
	if idx != last {
		movedKey = e.keys[last]
		e.keys[idx] = e.keys[last]
		e.values[idx] = e.values[last]
		e.hashes[idx] = e.hashes[last]
		movedFrom = true
	}

	var zeroKey K
	var zeroVal V
	e.keys[last] = zeroKey
	e.values[last] = zeroVal
	e.hashes[last] = 0

	e.keys = e.keys[:last]
	e.values = e.values[:last]
	e.hashes = e.hashes[:last]

	return movedKey, movedFrom
}

func (e *entries[K, V]) reset() {
	e.keys = nil
	e.values = nil
	e.hashes = nil
}

package hopscotch

// Each calls fn on every key-value pair in current storage order. If fn
// returns true, iteration stops early. Storage order is an
// implementation detail; it is stable only across a window with no
// intervening Set or Remove.
func (m *Hopscotch[K, V]) Each(fn func(key K, val V) bool) {
	for i := range m.data.keys {
		if fn(m.data.keys[i], m.data.values[i]) {
			return
		}
	}
}

// EachReversed is Each but visits entries in reverse of storage order.
func (m *Hopscotch[K, V]) EachReversed(fn func(key K, val V) bool) {
	for i := len(m.data.keys) - 1; i >= 0; i-- {
		if fn(m.data.keys[i], m.data.values[i]) {
			return
		}
	}
}

// Keys returns a snapshot of the live keys in current storage order.
func (m *Hopscotch[K, V]) Keys() []K {
	out := make([]K, len(m.data.keys))
	copy(out, m.data.keys)
	return out
}

// Values returns a snapshot of the live values in current storage
// order.
func (m *Hopscotch[K, V]) Values() []V {
	out := make([]V, len(m.data.values))
	copy(out, m.data.values)
	return out
}

// Item is a key-value pair returned by Items.
type Item[K comparable, V any] struct {
	Key   K
	Value V
}

// Items returns a snapshot of all live key-value pairs in current
// storage order.
func (m *Hopscotch[K, V]) Items() []Item[K, V] {
	out := make([]Item[K, V], len(m.data.keys))
	for i := range m.data.keys {
		out[i] = Item[K, V]{Key: m.data.keys[i], Value: m.data.values[i]}
	}
	return out
}

// Equals reports whether a and b have the same size and the same set of
// keys, each mapped to equal values. V must be comparable here even
// though Hopscotch itself only requires V any, since equality needs it;
// that is why this is a free function rather than a method.
func Equals[K comparable, V comparable](a, b *Hopscotch[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}

	equal := true
	a.Each(func(k K, v V) bool {
		ov, err := b.Get(k)
		if err != nil || ov != v {
			equal = false
			return true
		}
		return false
	})
	return equal
}

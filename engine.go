package hopscotch

// freeUp opens bucket b by cascading displacements so that a free slot
// ends up within b's neighborhood, then moves b's own entry into it.
//
// It walks forward from b to the nearest free slot j. If j is already
// within the neighborhood, the near case applies directly: the entry
// at b moves to j. Otherwise the hole at j must be dragged backwards
// one hop at a time — each hop pulls the closest displaced neighbor of
// some intermediate bucket i into j, which frees up i's old slot as the
// new target — until the hole lies within H of b.
//
// Returns errNoSpace if no free slot exists before the end of the table,
// or if a cascade gets stuck: some intermediate bucket's entries are all
// displaced farther out than the hole it would need to fill. The caller
// is expected to grow the table and retry; errNoSpace never escapes the
// package.
func (m *Hopscotch[K, V]) freeUp(b int) error {
	if m.indices.free(b) {
		return nil
	}

	j := b
	for j < m.indices.len() && !m.indices.free(j) {
		j++
	}
	if j >= m.indices.len() {
		return errNoSpace
	}

	width := int(m.width)

	for j-b >= width {
		lo := b
		if j-width > lo {
			lo = j - width
		}

		moved := false
		for i := lo + 1; i < j; i++ {
			word := m.nbhds.word(i)
			isLast := i == j-1

			if word == 0 {
				if isLast {
					return errNoSpace
				}
				continue
			}

			k, _ := firstSetOffset(word, m.width)
			candidate := i + k

			if candidate < j {
				m.indices.set(j, m.indices.get(candidate))
				m.indices.set(candidate, freeSlot)
				mustNbhdSet(m.nbhds, i, j-i)
				mustNbhdClear(m.nbhds, i, candidate-i)
				j = candidate
				moved = true
				break
			}

			if isLast {
				return errNoSpace
			}
		}

		if !moved {
			return errNoSpace
		}
	}

	// Near case: b's own entry moves to j, which now lies in b's
	// neighborhood.
	e := m.indices.get(b)
	h := m.homeBucket(m.data.hashes[e])
	m.indices.set(j, e)
	m.indices.set(b, freeSlot)
	mustNbhdSet(m.nbhds, h, j-h)
	mustNbhdClear(m.nbhds, h, b-h)
	return nil
}

// growSize returns the next table capacity per the growth policy:
// quadruple while small, then double.
func (m *Hopscotch[K, V]) growSize() int {
	if m.size < 1<<16 {
		return m.size * 4
	}
	return m.size * 2
}

// grow resizes to growSize(). It is unrecoverable if that would require
// a neighborhood wider than 64 bits, which cannot occur in practice
// (it needs a table with more than 2^64 buckets) but is still checked.
func (m *Hopscotch[K, V]) grow() {
	if err := m.resize(m.growSize()); err != nil {
		panic(err)
	}
}

// resize rebuilds the probe structures (indices, nbhds) at capacity
// newSize, replaying the existing data vectors in entry-index order.
// The data vectors themselves are untouched. If the replay cannot
// maintain the neighborhood invariant at newSize, resize escalates to a
// larger capacity and retries from scratch.
func (m *Hopscotch[K, V]) resize(newSize int) error {
	if newSize <= 0 || newSize&(newSize-1) != 0 {
		return ErrBadArgument
	}

	minWidth := m.width
	width := neighborhoodWidthFor(uint64(newSize))
	if width == 0 {
		return ErrCapacityExceeded
	}
	if width < minWidth {
		width = minWidth
	}

	oldIndices, oldNbhds, oldSize, oldWidth := m.indices, m.nbhds, m.size, m.width

	for {
		m.indices = newSlots(newSize)
		m.nbhds = newNbhds(newSize, width)
		m.size = newSize
		m.width = width

		if m.replay() {
			return nil
		}

		// A replay that can't maintain the invariant always escalates by
		// doubling, regardless of the growth policy that picked the
		// original target size.
		newSize *= 2

		width = neighborhoodWidthFor(uint64(newSize))
		if width == 0 {
			m.indices, m.nbhds, m.size, m.width = oldIndices, oldNbhds, oldSize, oldWidth
			return ErrCapacityExceeded
		}
		if width < minWidth {
			width = minWidth
		}
	}
}

// replay rebuilds m.indices/m.nbhds at the current m.size/m.width from
// the existing data vectors, in entry-index order (insertion order until
// a Remove moves the last entry into the removed entry's index).
// It reports whether the rebuild completed without hitting errNoSpace.
func (m *Hopscotch[K, V]) replay() bool {
	for e := 0; e < m.data.len(); e++ {
		h := m.homeBucket(m.data.hashes[e])

		if m.indices.free(h) {
			m.indices.set(h, e)
			mustNbhdSet(m.nbhds, h, 0)
			continue
		}

		if err := m.freeUp(h); err != nil {
			return false
		}

		m.indices.set(h, e)
		mustNbhdSet(m.nbhds, h, 0)
	}
	return true
}

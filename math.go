package hopscotch

import "math/bits"

// nextPowerOf2 is a fast computation of the smallest power of two >= i.
// see: https://stackoverflow.com/questions/466204/rounding-up-to-next-power-of-2
func nextPowerOf2(i uint64) uint64 {
	if i <= 1 {
		return 1
	}
	i--
	i |= i >> 1
	i |= i >> 2
	i |= i >> 4
	i |= i >> 8
	i |= i >> 16
	i |= i >> 32
	i++
	return i
}

// allowedNbhdWidths are the only widths a neighborhood bitmap may take,
// matching the machine word sizes the bitmap can be packed into.
var allowedNbhdWidths = [4]uint{8, 16, 32, 64}

// neighborhoodWidthFor returns the smallest allowed width H with
// H >= ceil(log2(size)), rounded up from a floor of 8. It returns 0 if no
// allowed width suffices (size would need H > 64).
func neighborhoodWidthFor(size uint64) uint {
	var needed uint
	if size > 1 {
		needed = uint(bits.Len64(size - 1))
	}
	for _, w := range allowedNbhdWidths {
		if w >= needed {
			return w
		}
	}
	return 0
}

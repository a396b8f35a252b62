package hopscotch

import "errors"

var (
	// ErrMissingKey is returned when a requested key is absent and no
	// default was supplied for the operation.
	ErrMissingKey = errors.New("hopscotch: key not present")

	// ErrEmpty is returned by PopAny on an empty map.
	ErrEmpty = errors.New("hopscotch: map is empty")

	// ErrBadArgument signals a domain violation on an internal primitive,
	// such as a neighborhood offset outside [0, H) or a non-power-of-two
	// resize target.
	ErrBadArgument = errors.New("hopscotch: bad argument")

	// ErrCapacityExceeded is returned when a resize would require a
	// neighborhood width greater than 64 bits. It is unrecoverable; the
	// map is left in its pre-resize state.
	ErrCapacityExceeded = errors.New("hopscotch: capacity exceeded")

	// errNoSpace is the internal free_up signal. It never escapes the
	// package: free_up's caller always converts it into a grow-and-retry.
	errNoSpace = errors.New("hopscotch: no space to free up bucket")
)

// corruption panics on an invariant violation observed by the engine.
// These are not user errors; they indicate a bug in the engine.
func corruption(msg string) {
	panic("hopscotch: invariant violation: " + msg)
}

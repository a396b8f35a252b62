package hopscotch

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// HashFn computes an unsigned hash for a key. The container stores this
// value directly and moduloes it by the table size; there is no need to
// take an absolute value the way a signed-hash language must, as long
// as the same value is used consistently for storage and lookup.
type HashFn[K any] func(key K) uint64

// defaultHasher returns a hasher for Go's builtin comparable kinds,
// selected by reflecting on the zero value of K. Complex key types
// (structs, arrays, interfaces) need an explicit hasher passed to
// NewWithHasher.
func defaultHasher[K any]() HashFn[K] {
	var zero K
	kind := reflect.TypeOf(&zero).Elem().Kind()

	switch kind {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		switch unsafe.Sizeof(zero) {
		case 2:
			return *(*func(K) uint64)(unsafe.Pointer(&hashWord))
		case 4:
			return *(*func(K) uint64)(unsafe.Pointer(&hashDword))
		case 8:
			return *(*func(K) uint64)(unsafe.Pointer(&hashQword))
		default:
			panic("hopscotch: unsupported integer byte size")
		}
	case reflect.Int8, reflect.Uint8:
		return *(*func(K) uint64)(unsafe.Pointer(&hashByte))
	case reflect.Int16, reflect.Uint16:
		return *(*func(K) uint64)(unsafe.Pointer(&hashWord))
	case reflect.Int32, reflect.Uint32:
		return *(*func(K) uint64)(unsafe.Pointer(&hashDword))
	case reflect.Int64, reflect.Uint64:
		return *(*func(K) uint64)(unsafe.Pointer(&hashQword))
	case reflect.Float32:
		return *(*func(K) uint64)(unsafe.Pointer(&hashFloat32))
	case reflect.Float64:
		return *(*func(K) uint64)(unsafe.Pointer(&hashFloat64))
	case reflect.String:
		return *(*func(K) uint64)(unsafe.Pointer(&hashString))
	default:
		panic(fmt.Sprintf("hopscotch: unsupported key kind %v; pass an explicit HashFn to NewWithHasher", kind))
	}
}

// IntHasher returns a hasher for any fixed-width integer key type,
// picking the right Murmur3 mixing width by the key's size rather than
// by enumerating every int/uint reflect.Kind the way defaultHasher's
// general comparable-dispatch switch has to.
func IntHasher[K constraints.Integer]() HashFn[K] {
	var zero K
	switch unsafe.Sizeof(zero) {
	case 1:
		return func(k K) uint64 { return hashByte(uint8(k)) }
	case 2:
		return func(k K) uint64 { return hashWord(uint16(k)) }
	case 4:
		return func(k K) uint64 { return hashDword(uint32(k)) }
	case 8:
		return func(k K) uint64 { return hashQword(uint64(k)) }
	default:
		panic("hopscotch: unsupported integer byte size")
	}
}

// hashByte, hashWord, hashDword mix a fixed-width integer with
// Murmur3's 32-bit block mixing function.
var hashByte = func(in uint8) uint64 {
	key := uint32(in)
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashWord = func(in uint16) uint64 {
	key := uint32(in)
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashDword = func(key uint32) uint64 {
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashFloat32 = func(in float32) uint64 {
	key := *(*uint32)(unsafe.Pointer(&in))
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

// hashFloat64 and hashQword implement MurmurHash3's 64-bit finalizer.
var hashFloat64 = func(in float64) uint64 {
	key := *(*uint64)(unsafe.Pointer(&in))
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

var hashQword = func(key uint64) uint64 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

// hashString hashes a string key with xxhash, a maintained,
// non-cryptographic hash well suited to short variable-length keys.
var hashString = func(s string) uint64 {
	return xxhash.Sum64String(s)
}

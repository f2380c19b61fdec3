// Package hash provides the fast identifier hash used by the wire
// dictionary builder. Dictionary interning keys its maps on the xxHash64 of
// the 16-byte id and verifies the full id on every hit, so a hash collision
// costs a probe, never a wrong index.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of a 16-byte identifier.
func Sum64(id [16]byte) uint64 {
	return xxhash.Sum64(id[:])
}

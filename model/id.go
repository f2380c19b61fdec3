package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a 16-byte identifier. It is the universal identifier type for
// entities, relations, properties, types, spaces, languages, units and
// authors. Equality is byte equality; ordering (used by the canonical
// encoder) is lexicographic on the raw bytes.
type ID [16]byte

// NilID is the zero identifier. Optional ID fields use it as "absent".
var NilID ID

// relationEntityPrefix tags the input of RelationEntityID so the derived id
// can never collide with other derivation domains.
const relationEntityPrefix = "grc20:relation-entity:"

// NewID generates a fresh random identifier (UUIDv4).
//
// Returns:
//   - ID: A new random identifier
func NewID() ID {
	return ID(uuid.New())
}

// DerivedID derives a deterministic identifier from arbitrary input bytes.
//
// The derivation is the first 16 bytes of SHA-256(input) with the UUID
// version nibble forced to 8 (byte 6) and the RFC 4122 variant bits forced
// to 0b10 (byte 8). The same input always yields the same identifier.
//
// Parameters:
//   - input: Domain-tagged input bytes
//
// Returns:
//   - ID: The derived UUIDv8 identifier
func DerivedID(input []byte) ID {
	sum := sha256.Sum256(input)

	var id ID
	copy(id[:], sum[:16])

	id[6] = (id[6] & 0x0F) | 0x80 // version 8
	id[8] = (id[8] & 0x3F) | 0x80 // RFC 4122 variant

	return id
}

// UniqueRelationID derives the identifier of a unique-mode relation from its
// endpoints and relation type: DerivedID(from || to || relationType).
//
// Parameters:
//   - from: Source entity identifier
//   - to: Target entity identifier
//   - relationType: Relation type identifier
//
// Returns:
//   - ID: Deterministic relation identifier
func UniqueRelationID(from, to, relationType ID) ID {
	var input [48]byte
	copy(input[0:16], from[:])
	copy(input[16:32], to[:])
	copy(input[32:48], relationType[:])

	return DerivedID(input[:])
}

// RelationEntityID derives the identifier of the reified entity node of a
// relation: DerivedID("grc20:relation-entity:" || relation).
//
// Parameters:
//   - relation: The relation identifier
//
// Returns:
//   - ID: Deterministic entity identifier for the relation's entity node
func RelationEntityID(relation ID) ID {
	input := make([]byte, 0, len(relationEntityPrefix)+16)
	input = append(input, relationEntityPrefix...)
	input = append(input, relation[:]...)

	return DerivedID(input)
}

// IsNil reports whether the identifier is the zero identifier.
func (id ID) IsNil() bool {
	return id == NilID
}

// String formats the identifier as non-hyphenated lowercase hex, the
// recommended display form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseID parses an identifier from a hex string, with or without hyphens.
//
// Parameters:
//   - s: 32 hex digits, optionally hyphenated UUID-style
//
// Returns:
//   - ID: The parsed identifier
//   - error: Parse error for wrong length or non-hex input
func ParseID(s string) (ID, error) {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 32 {
		return NilID, fmt.Errorf("invalid id length %d, want 32 hex digits", len(s))
	}

	var id ID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return NilID, fmt.Errorf("invalid id %q: %w", s, err)
	}

	return id, nil
}

// Compare returns -1, 0 or 1 comparing the raw bytes lexicographically.
func (id ID) Compare(other ID) int {
	for i := range id {
		switch {
		case id[i] < other[i]:
			return -1
		case id[i] > other[i]:
			return 1
		}
	}

	return 0
}

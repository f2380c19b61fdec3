package model

// Edit is an atomic, author-authored batch of operations with metadata. It
// is the unit of encoding: an edit is encoded once into a byte buffer, and
// from then on the bytes are the canonical artifact.
//
// Op order is author-defined and preserved verbatim by the codec.
type Edit struct {
	ID      ID
	Name    string
	Authors []ID
	// CreatedAt is microseconds since the Unix epoch.
	CreatedAt int64
	Ops       []Op
}

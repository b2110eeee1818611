package identity

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID is an opaque identifier. Only equality is meaningful.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// Supplier produces identifiers that are unique within the process lifetime.
type Supplier interface {
	NextID() ID
}

// UUIDSupplier generates random (v4) UUIDs.
type UUIDSupplier struct{}

// NextID returns a fresh UUID string.
func (UUIDSupplier) NextID() ID {
	return ID(uuid.NewString())
}

// Default is the Supplier used by entity constructors unless another one is configured.
var Default Supplier = UUIDSupplier{}

// SequenceSupplier hands out "prefix-1", "prefix-2", ... and is safe for concurrent use.
// Useful where stable, human-readable ids matter more than global uniqueness, e.g. demos and tests.
type SequenceSupplier struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequenceSupplier creates a SequenceSupplier with the given prefix.
func NewSequenceSupplier(prefix string) *SequenceSupplier {
	return &SequenceSupplier{prefix: prefix}
}

// NextID returns the next identifier in the sequence.
func (s *SequenceSupplier) NextID() ID {
	return ID(fmt.Sprintf("%s-%d", s.prefix, s.counter.Add(1)))
}

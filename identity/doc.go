// Package identity supplies process-unique, opaque identifiers for catalog entities.
//
// Callers must only compare identifiers for equality; their internal structure is not part of the contract.
// The default Supplier generates random (v4) UUIDs.
package identity

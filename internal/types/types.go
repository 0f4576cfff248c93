// Package types provides domain identifiers, the search parameter type
// vocabulary, and the error taxonomy shared across dbdrill components.
//
// Zero-dependency by design: everything here is plain data so the catalog,
// coercion, query and link packages can share it without import cycles.
package types

// ResourceID identifies a resource in the catalog (the configuration key).
// String alias enables type safety while keeping serialization trivial.
type ResourceID string

// SearchID identifies a search within a resource.
type SearchID string

// LinkID identifies a link within a resource.
type LinkID string

// Package catalog holds the validated, in-memory graph of resources,
// searches and links loaded from the operator's resources file.
//
// The catalog is built once at startup, validated as a whole (fail-fast on
// the first invariant violation), and shared read-only for the process
// lifetime. No component mutates it after load.
package catalog

import (
	"sort"

	"github.com/solatis/dbdrill/internal/types"
)

// SearchParam is one positional parameter of a search: a name for display
// plus an optional declared type. A missing type means raw text passthrough.
type SearchParam struct {
	Name string          `yaml:"name"`
	Type types.ParamType `yaml:"type"`
}

// Search is a parameterized query belonging to a resource. Parameter order is
// positional and must match placeholder order in the query text; that pairing
// is the operator's responsibility and is not verified mechanically.
type Search struct {
	Query  string        `yaml:"query"`
	Params []SearchParam `yaml:"params"`
}

// ColumnExpr derives a value from a result row: either a bare column
// reference (Path empty) or a (column, JSONPath) pair naming a JSON column
// and an expression to evaluate against it.
type ColumnExpr struct {
	Column string
	Path   string
}

// IsJSONPath reports whether the expression carries a JSONPath.
func (c ColumnExpr) IsJSONPath() bool { return c.Path != "" }

// LinkCondition is an equality test of a column expression against a literal
// string. It is parsed and validated at load time; no runtime code path
// evaluates it yet (kept as configuration surface, matching the original
// behavior rather than inventing gating semantics).
type LinkCondition struct {
	Expr    ColumnExpr
	Literal string
}

// Link is a directed edge from the owning resource to a target resource
// (Kind), naming one of the target's searches plus the column expressions
// that supply its parameters positionally.
type Link struct {
	Kind         types.ResourceID `yaml:"kind"`
	Search       types.SearchID   `yaml:"search"`
	SearchParams []ColumnExpr     `yaml:"search_params"`
	If           *LinkCondition   `yaml:"if"`
}

// Resource is a named, queryable entity type exposing searches and links.
type Resource struct {
	Name   string                     `yaml:"name"`
	Search map[types.SearchID]*Search `yaml:"search"`
	Links  map[types.LinkID]*Link     `yaml:"links"`
}

// Catalog is the validated resource graph plus a display-name-ordered index
// for pickers.
type Catalog struct {
	resources map[types.ResourceID]*Resource
	ordered   []types.ResourceID // sorted by display name
}

// Resource returns the resource with the given id, or nil.
func (c *Catalog) Resource(id types.ResourceID) *Resource {
	return c.resources[id]
}

// Resources returns all resource ids ordered by display name.
func (c *Catalog) Resources() []types.ResourceID {
	out := make([]types.ResourceID, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Search returns the named search on the given resource, or nil.
func (c *Catalog) Search(resourceID types.ResourceID, searchID types.SearchID) *Search {
	r := c.resources[resourceID]
	if r == nil {
		return nil
	}
	return r.Search[searchID]
}

// Link returns the named link on the given resource, or nil.
func (c *Catalog) Link(resourceID types.ResourceID, linkID types.LinkID) *Link {
	r := c.resources[resourceID]
	if r == nil {
		return nil
	}
	return r.Links[linkID]
}

// SearchNames returns the resource's search ids in sorted order.
func (c *Catalog) SearchNames(resourceID types.ResourceID) []types.SearchID {
	r := c.resources[resourceID]
	if r == nil {
		return nil
	}
	out := make([]types.SearchID, 0, len(r.Search))
	for id := range r.Search {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LinkNames returns the resource's link ids in sorted order.
func (c *Catalog) LinkNames(resourceID types.ResourceID) []types.LinkID {
	r := c.resources[resourceID]
	if r == nil {
		return nil
	}
	out := make([]types.LinkID, 0, len(r.Links))
	for id := range r.Links {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

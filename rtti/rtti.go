// Package rtti is a small runtime type registry. Each engine type owns one
// immutable [Type] record naming the type and its single base type, which
// lets heterogeneous nodes and controllers be stored behind interfaces and
// queried or downcast by ancestry.
//
// Records are created with [Register] in package-level variables:
//
//	var NodeType = rtti.Register("sapling.Node", ControlledType)
//
// Go initializes package variables in dependency order, so a base record
// always exists before any record derived from it.
package rtti

import (
	"fmt"
	"sort"
)

// Type describes one registered type and its base.
type Type struct {
	name  string
	base  *Type
	depth int
}

// Name returns the registered name, e.g. "sapling.Node".
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Base returns the parent record, or nil for a root type.
func (t *Type) Base() *Type {
	if t == nil {
		return nil
	}
	return t.base
}

// Depth returns the number of ancestors above t. Root types have depth 0.
func (t *Type) Depth() int {
	if t == nil {
		return 0
	}
	return t.depth
}

func (t *Type) String() string {
	return t.Name()
}

// IsExactly reports whether t and other are the same record.
func (t *Type) IsExactly(other *Type) bool {
	return t != nil && t == other
}

// IsDerived reports whether t is other or a descendant of other.
func (t *Type) IsDerived(other *Type) bool {
	return IsDerived(t, other)
}

// IsDerived walks candidate's base chain looking for query. A type is
// derived from itself. A nil candidate or query is never matched.
func IsDerived(candidate, query *Type) bool {
	if query == nil {
		return false
	}
	for t := candidate; t != nil; t = t.base {
		if t == query {
			return true
		}
	}
	return false
}

// Registry maps type names to records.
type Registry struct {
	types map[string]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register creates a record named name deriving from base (nil for a root
// type). Panics on an empty or duplicate name, or when base belongs to a
// different registry.
func (r *Registry) Register(name string, base *Type) *Type {
	if name == "" {
		panic("rtti: cannot register a type with an empty name")
	}
	if _, dup := r.types[name]; dup {
		panic(fmt.Sprintf("rtti: type %q already registered", name))
	}
	t := &Type{name: name, base: base}
	if base != nil {
		if r.types[base.name] != base {
			panic(fmt.Sprintf("rtti: base %q of %q is not registered", base.name, name))
		}
		t.depth = base.depth + 1
	}
	r.types[name] = t
	return t
}

// Lookup returns the record registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types returns every record sorted by name.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// defaultRegistry backs the package-level functions. Registration happens
// during package initialization, which is single-threaded.
var defaultRegistry = NewRegistry()

// Register records a type in the default registry. See [Registry.Register].
func Register(name string, base *Type) *Type {
	return defaultRegistry.Register(name, base)
}

// Lookup finds a type in the default registry.
func Lookup(name string) (*Type, bool) {
	return defaultRegistry.Lookup(name)
}

// Types lists the default registry sorted by name.
func Types() []*Type {
	return defaultRegistry.Types()
}

// Package directory provides resilient access to the hierarchical directory store
// holding the DICOM configuration. A Conn is the raw transport (LDAP or in-memory);
// Access wraps exactly one Conn and re-establishes it once on transport failure.
package directory

import (
	"slices"
	"strings"
)

// Scope selects how far below the base entry a search reaches.
type Scope int

const (
	// ScopeBase matches only the base entry.
	ScopeBase Scope = iota
	// ScopeOneLevel matches the immediate children of the base entry.
	ScopeOneLevel
	// ScopeSubtree matches the base entry and all of its descendants.
	ScopeSubtree
)

// NoAttributes requests that no attribute values are returned (RFC 4511 "1.1").
const NoAttributes = "1.1"

// AllObjects is the filter matching every entry.
const AllObjects = "(objectClass=*)"

// Attributes maps attribute descriptions to their values. Binary values are
// carried as raw byte strings. Lookups ignore case and attribute options
// such as ";binary".
type Attributes map[string][]string

// Get returns the values of the attribute id.
func (a Attributes) Get(id string) ([]string, bool) {
	if vals, ok := a[id]; ok {
		return vals, true
	}
	for k, vals := range a {
		if sameAttribute(k, id) {
			return vals, true
		}
	}
	return nil, false
}

// First returns the first value of the attribute id.
func (a Attributes) First(id string) (string, bool) {
	vals, ok := a.Get(id)
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Has reports whether the attribute id carries at least one value.
func (a Attributes) Has(id string) bool {
	vals, ok := a.Get(id)
	return ok && len(vals) > 0
}

// Put sets the values of the attribute id, replacing what was there.
func (a Attributes) Put(id string, values ...string) {
	for k := range a {
		if sameAttribute(k, id) && k != id {
			delete(a, k)
		}
	}
	a[id] = values
}

// Add appends values to the attribute id.
func (a Attributes) Add(id string, values ...string) {
	for k, vals := range a {
		if sameAttribute(k, id) {
			a[k] = append(vals, values...)
			return
		}
	}
	a[id] = append([]string(nil), values...)
}

// HasValue reports whether the attribute id contains value, ignoring case.
func (a Attributes) HasValue(id, value string) bool {
	vals, _ := a.Get(id)
	return slices.ContainsFunc(vals, func(v string) bool { return strings.EqualFold(v, value) })
}

// Clone returns a deep copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}

// Entry is one directory entry.
type Entry struct {
	DN         string
	Attributes Attributes
}

// ModOp is the kind of an attribute modification.
type ModOp int

const (
	// ModAdd adds values to an attribute.
	ModAdd ModOp = iota
	// ModReplace replaces all values of an attribute.
	ModReplace
	// ModDelete removes the given values, or the whole attribute when no values are given.
	ModDelete
)

// String returns the LDIF keyword of the operation.
func (o ModOp) String() string {
	switch o {
	case ModAdd:
		return "add"
	case ModReplace:
		return "replace"
	case ModDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Modification is a single attribute change applied by Access.Modify.
type Modification struct {
	Op     ModOp
	Attr   string
	Values []string
}

// Add returns an add modification.
func Add(attr string, values ...string) Modification {
	return Modification{Op: ModAdd, Attr: attr, Values: values}
}

// Replace returns a replace modification.
func Replace(attr string, values ...string) Modification {
	return Modification{Op: ModReplace, Attr: attr, Values: values}
}

// Remove returns a delete modification for the whole attribute or the given values.
func Remove(attr string, values ...string) Modification {
	return Modification{Op: ModDelete, Attr: attr, Values: values}
}

func sameAttribute(a, b string) bool {
	return strings.EqualFold(attributeType(a), attributeType(b))
}

func attributeType(desc string) string {
	if i := strings.IndexByte(desc, ';'); i >= 0 {
		return desc[:i]
	}
	return desc
}

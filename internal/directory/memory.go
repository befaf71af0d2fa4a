package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"
)

// Fault lets tests fail a specific operation. op is one of "search", "add",
// "delete" or "modify". Returning nil lets the operation proceed.
type Fault func(op, dn string) error

// MemoryDirectory is an in-process directory tree. It honours the LDAP rules
// the configuration engine relies on: entries need an existing parent, only
// leaves can be deleted, and duplicate DNs are rejected. Children are returned
// in creation order.
type MemoryDirectory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	seq     int
	fault   Fault
	handles []*memoryConn
	dials   int
}

type memoryEntry struct {
	dn     string
	parent string
	seq    int
	attrs  Attributes
}

// NewMemoryDirectory creates a tree containing the given suffix entries.
func NewMemoryDirectory(suffixes ...string) *MemoryDirectory {
	d := &MemoryDirectory{entries: make(map[string]*memoryEntry)}
	for _, s := range suffixes {
		key, parent, err := normalizeDN(s)
		if err != nil {
			panic(fmt.Sprintf("invalid suffix %q: %v", s, err))
		}
		d.seq++
		d.entries[key] = &memoryEntry{
			dn:     s,
			parent: parent,
			seq:    d.seq,
			attrs:  Attributes{"objectClass": {"top", "dcObject"}},
		}
	}
	return d
}

// Dial implements Dialer.
func (d *MemoryDirectory) Dial(_ context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &memoryConn{dir: d}
	d.handles = append(d.handles, c)
	d.dials++
	return c, nil
}

// Dials returns how many connections were opened so far.
func (d *MemoryDirectory) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// SetFault installs f to intercept operations; nil removes it.
func (d *MemoryDirectory) SetFault(f Fault) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fault = f
}

// BreakConnections closes every handle handed out so far, so their next use
// fails like a dropped network connection.
func (d *MemoryDirectory) BreakConnections() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.handles {
		h.closed = true
	}
	d.handles = nil
}

// Len returns the number of entries in the tree.
func (d *MemoryDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Lookup returns a copy of the entry at dn.
func (d *MemoryDirectory) Lookup(dn string) (*Entry, bool) {
	key, _, err := normalizeDN(dn)
	if err != nil {
		return nil, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[key]
	if !ok {
		return nil, false
	}
	return &Entry{DN: e.dn, Attributes: e.attrs.Clone()}, true
}

type memoryConn struct {
	dir    *MemoryDirectory
	closed bool
}

var errConnectionClosed = ldap.NewError(ldap.ErrorNetwork, errors.New("ldap: connection closed"))

func (c *memoryConn) enter(op, dn string) error {
	if c.closed {
		return errConnectionClosed
	}
	if f := c.dir.fault; f != nil {
		return f(op, dn)
	}
	return nil
}

// Search implements Conn.
func (c *memoryConn) Search(base string, scope Scope, filter string, attrs []string) ([]*Entry, error) {
	c.dir.mu.Lock()
	defer c.dir.mu.Unlock()

	if err := c.enter("search", base); err != nil {
		return nil, err
	}

	baseKey, _, err := normalizeDN(base)
	if err != nil {
		return nil, ldap.NewError(ldap.LDAPResultInvalidDNSyntax, err)
	}
	if _, ok := c.dir.entries[baseKey]; !ok {
		return nil, ldap.NewError(ldap.LDAPResultNoSuchObject, fmt.Errorf("no such object: %s", base))
	}

	packet, err := ldap.CompileFilter(filter)
	if err != nil {
		return nil, err
	}

	var matched []*memoryEntry
	for key, e := range c.dir.entries {
		if !inScope(c.dir.entries, key, e, baseKey, scope) {
			continue
		}
		if matchFilter(packet, e.attrs) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([]*Entry, 0, len(matched))
	for _, e := range matched {
		out = append(out, &Entry{DN: e.dn, Attributes: selectAttributes(e.attrs, attrs)})
	}
	return out, nil
}

// Add implements Conn.
func (c *memoryConn) Add(dn string, attrs Attributes) error {
	c.dir.mu.Lock()
	defer c.dir.mu.Unlock()

	if err := c.enter("add", dn); err != nil {
		return err
	}

	key, parent, err := normalizeDN(dn)
	if err != nil {
		return ldap.NewError(ldap.LDAPResultInvalidDNSyntax, err)
	}
	if _, ok := c.dir.entries[key]; ok {
		return ldap.NewError(ldap.LDAPResultEntryAlreadyExists, fmt.Errorf("entry already exists: %s", dn))
	}
	if _, ok := c.dir.entries[parent]; !ok {
		return ldap.NewError(ldap.LDAPResultNoSuchObject, fmt.Errorf("parent of %s does not exist", dn))
	}

	stored := make(Attributes, len(attrs))
	for k, v := range attrs {
		if len(v) > 0 {
			stored[k] = slices.Clone(v)
		}
	}
	c.dir.seq++
	c.dir.entries[key] = &memoryEntry{dn: dn, parent: parent, seq: c.dir.seq, attrs: stored}
	return nil
}

// Delete implements Conn.
func (c *memoryConn) Delete(dn string) error {
	c.dir.mu.Lock()
	defer c.dir.mu.Unlock()

	if err := c.enter("delete", dn); err != nil {
		return err
	}

	key, _, err := normalizeDN(dn)
	if err != nil {
		return ldap.NewError(ldap.LDAPResultInvalidDNSyntax, err)
	}
	if _, ok := c.dir.entries[key]; !ok {
		return ldap.NewError(ldap.LDAPResultNoSuchObject, fmt.Errorf("no such object: %s", dn))
	}
	for _, e := range c.dir.entries {
		if e.parent == key {
			return ldap.NewError(ldap.LDAPResultNotAllowedOnNonLeaf, fmt.Errorf("%s has children", dn))
		}
	}
	delete(c.dir.entries, key)
	return nil
}

// Modify implements Conn. Modifications are applied atomically.
func (c *memoryConn) Modify(dn string, mods []Modification) error {
	c.dir.mu.Lock()
	defer c.dir.mu.Unlock()

	if err := c.enter("modify", dn); err != nil {
		return err
	}

	key, _, err := normalizeDN(dn)
	if err != nil {
		return ldap.NewError(ldap.LDAPResultInvalidDNSyntax, err)
	}
	e, ok := c.dir.entries[key]
	if !ok {
		return ldap.NewError(ldap.LDAPResultNoSuchObject, fmt.Errorf("no such object: %s", dn))
	}

	attrs := e.attrs.Clone()
	for _, m := range mods {
		if err := applyModification(attrs, m); err != nil {
			return err
		}
	}
	e.attrs = attrs
	return nil
}

// Close implements Conn.
func (c *memoryConn) Close() error {
	c.closed = true
	return nil
}

func applyModification(attrs Attributes, m Modification) error {
	current, exists := attrs.Get(m.Attr)
	switch m.Op {
	case ModAdd:
		for _, v := range m.Values {
			if slices.Contains(current, v) {
				return ldap.NewError(ldap.LDAPResultAttributeOrValueExists,
					fmt.Errorf("%s already contains value", m.Attr))
			}
		}
		attrs.Add(m.Attr, m.Values...)
	case ModReplace:
		if len(m.Values) == 0 {
			deleteAttribute(attrs, m.Attr)
			return nil
		}
		attrs.Put(m.Attr, slices.Clone(m.Values)...)
	case ModDelete:
		if !exists {
			return ldap.NewError(ldap.LDAPResultNoSuchAttribute, fmt.Errorf("no such attribute %s", m.Attr))
		}
		if len(m.Values) == 0 {
			deleteAttribute(attrs, m.Attr)
			return nil
		}
		remaining := slices.Clone(current)
		for _, v := range m.Values {
			i := slices.Index(remaining, v)
			if i < 0 {
				return ldap.NewError(ldap.LDAPResultNoSuchAttribute,
					fmt.Errorf("%s does not contain value", m.Attr))
			}
			remaining = slices.Delete(remaining, i, i+1)
		}
		if len(remaining) == 0 {
			deleteAttribute(attrs, m.Attr)
		} else {
			attrs.Put(m.Attr, remaining...)
		}
	}
	return nil
}

func deleteAttribute(attrs Attributes, id string) {
	for k := range attrs {
		if sameAttribute(k, id) {
			delete(attrs, k)
		}
	}
}

func inScope(entries map[string]*memoryEntry, key string, e *memoryEntry, baseKey string, scope Scope) bool {
	switch scope {
	case ScopeBase:
		return key == baseKey
	case ScopeOneLevel:
		return e.parent == baseKey
	default:
		for k := key; k != ""; {
			if k == baseKey {
				return true
			}
			p, ok := entries[k]
			if !ok {
				return false
			}
			k = p.parent
		}
		return false
	}
}

func selectAttributes(attrs Attributes, requested []string) Attributes {
	if len(requested) == 0 || slices.Contains(requested, "*") {
		return attrs.Clone()
	}
	out := make(Attributes)
	for _, r := range requested {
		if r == NoAttributes {
			continue
		}
		for k, v := range attrs {
			if sameAttribute(k, r) {
				out[k] = slices.Clone(v)
			}
		}
	}
	return out
}

func matchFilter(p *ber.Packet, attrs Attributes) bool {
	switch p.Tag {
	case ldap.FilterAnd:
		for _, child := range p.Children {
			if !matchFilter(child, attrs) {
				return false
			}
		}
		return true
	case ldap.FilterOr:
		for _, child := range p.Children {
			if matchFilter(child, attrs) {
				return true
			}
		}
		return false
	case ldap.FilterNot:
		return len(p.Children) == 1 && !matchFilter(p.Children[0], attrs)
	case ldap.FilterPresent:
		attr, _ := p.Value.(string)
		if attr == "" {
			attr = p.Data.String()
		}
		return strings.EqualFold(attr, "objectClass") || attrs.Has(attr)
	case ldap.FilterEqualityMatch:
		if len(p.Children) != 2 {
			return false
		}
		attr, _ := p.Children[0].Value.(string)
		value, _ := p.Children[1].Value.(string)
		if strings.EqualFold(attr, "objectClass") {
			return attrs.HasValue(attr, value)
		}
		vals, _ := attrs.Get(attr)
		return slices.Contains(vals, value)
	default:
		return false
	}
}

// normalizeDN returns a canonical key for dn and the key of its parent.
func normalizeDN(dn string) (key, parent string, err error) {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return "", "", err
	}
	parts := make([]string, len(parsed.RDNs))
	for i, rdn := range parsed.RDNs {
		atvs := make([]string, len(rdn.Attributes))
		for j, a := range rdn.Attributes {
			atvs[j] = strings.ToLower(a.Type) + "=" + ldap.EscapeDN(a.Value)
		}
		sort.Strings(atvs)
		parts[i] = strings.Join(atvs, "+")
	}
	if len(parts) == 0 {
		return "", "", nil
	}
	return strings.Join(parts, ","), strings.Join(parts[1:], ","), nil
}

// Package catalog holds the symbol tables the completion engine reads: named
// instances, named static types, and the member tables of every declared type.
//
// A Catalog is not safe for concurrent use. Hosts that mutate it from more than
// one goroutine must serialize mutation and completion themselves.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateSymbol is returned when a name is already registered as an
	// instance or a static.
	ErrDuplicateSymbol = errors.New("symbol already defined")

	// ErrUnknownType is returned when a type name has no entry in the catalog.
	ErrUnknownType = errors.New("unknown type")
)

// Catalog is the store of known symbols and their members.
type Catalog struct {
	instances     map[string]Symbol
	statics       map[string]Symbol
	instanceNames []string // sorted
	staticNames   []string // sorted
	types         map[string]*TypeInfo
	literals      map[string][]string
	dirty         bool
}

// DefaultLiterals returns the literal names registered for every new catalog.
func DefaultLiterals() map[string][]string {
	return map[string][]string{
		"bool": {"false", "true"},
	}
}

// New creates an empty catalog seeded with DefaultLiterals.
func New() *Catalog {
	c := &Catalog{
		instances: make(map[string]Symbol),
		statics:   make(map[string]Symbol),
		types:     make(map[string]*TypeInfo),
		literals:  make(map[string][]string),
	}
	for typ, lits := range DefaultLiterals() {
		c.SetLiterals(typ, lits...)
	}
	return c
}

// AddInstance registers a named instance of the given declared type.
func (c *Catalog) AddInstance(name, typ string) error {
	if err := c.checkFree(name); err != nil {
		return err
	}
	c.instances[name] = Symbol{Name: name, Type: typ, IsInstance: true}
	c.instanceNames = insertSorted(c.instanceNames, name)
	c.ensureType(typ)
	c.dirty = true
	return nil
}

// SetInstance registers or retypes a named instance. It fails only when the
// name is taken by a static.
func (c *Catalog) SetInstance(name, typ string) error {
	if _, ok := c.statics[name]; ok {
		return fmt.Errorf("instance %q: %w", name, ErrDuplicateSymbol)
	}
	if cur, ok := c.instances[name]; ok {
		if cur.Type == typ {
			return nil
		}
		cur.Type = typ
		c.instances[name] = cur
		c.ensureType(typ)
		c.dirty = true
		return nil
	}
	return c.AddInstance(name, typ)
}

// AddStatic registers a named static type entry.
func (c *Catalog) AddStatic(name, typ string) error {
	if err := c.checkFree(name); err != nil {
		return err
	}
	c.statics[name] = Symbol{Name: name, Type: typ}
	c.staticNames = insertSorted(c.staticNames, name)
	c.ensureType(typ)
	c.dirty = true
	return nil
}

func (c *Catalog) checkFree(name string) error {
	if _, ok := c.instances[name]; ok {
		return fmt.Errorf("instance %q: %w", name, ErrDuplicateSymbol)
	}
	if _, ok := c.statics[name]; ok {
		return fmt.Errorf("static %q: %w", name, ErrDuplicateSymbol)
	}
	return nil
}

// DefineType creates or updates the entry for info.Name. Empty fields of info
// leave existing values untouched; AssignableTo entries are appended.
func (c *Catalog) DefineType(info TypeInfo) *TypeInfo {
	t := c.ensureType(info.Name)
	if info.Elem != "" {
		t.Elem = info.Elem
		c.ensureType(info.Elem)
	}
	if info.Underlying != "" {
		t.Underlying = info.Underlying
	}
	if info.Universal {
		t.Universal = true
	}
	for _, to := range info.AssignableTo {
		if to == t.Name || contains(t.AssignableTo, to) {
			continue
		}
		t.AssignableTo = append(t.AssignableTo, to)
	}
	c.dirty = true
	return t
}

// AddMember adds a member to the instance or static table of typ. A method
// added under an existing method name contributes its overloads to it.
func (c *Catalog) AddMember(typ string, static bool, m MemberDescriptor) {
	t := c.ensureType(typ)
	if static {
		t.static.add(m)
	} else {
		t.instance.add(m)
	}
	if m.Type != "" {
		c.ensureType(m.Type)
	}
	c.dirty = true
}

// SetLiterals replaces the predefined literal names offered for typ.
func (c *Catalog) SetLiterals(typ string, lits ...string) {
	if len(lits) == 0 {
		delete(c.literals, typ)
	} else {
		sorted := append([]string(nil), lits...)
		sort.Strings(sorted)
		c.literals[typ] = sorted
	}
	c.dirty = true
}

func (c *Catalog) ensureType(name string) *TypeInfo {
	if t, ok := c.types[name]; ok {
		return t
	}
	t := &TypeInfo{Name: name}
	c.types[name] = t
	return t
}

// LookupInstance returns the declared type of the named instance.
func (c *Catalog) LookupInstance(name string) (string, bool) {
	s, ok := c.instances[name]
	return s.Type, ok
}

// LookupStatic returns the declared type of the named static entry.
func (c *Catalog) LookupStatic(name string) (string, bool) {
	s, ok := c.statics[name]
	return s.Type, ok
}

// Lookup finds a name in the instance namespace first, then the static one.
func (c *Catalog) Lookup(name string) (Symbol, bool) {
	if s, ok := c.instances[name]; ok {
		return s, true
	}
	s, ok := c.statics[name]
	return s, ok
}

// MembersOf returns the sorted member table of typ. The slice must not be modified.
func (c *Catalog) MembersOf(typ string, isInstance bool) []MemberDescriptor {
	t, ok := c.types[typ]
	if !ok {
		return nil
	}
	if isInstance {
		return t.instance.members
	}
	return t.static.members
}

// MemberNames returns the sorted member names of typ.
func (c *Catalog) MemberNames(typ string, isInstance bool) []string {
	t, ok := c.types[typ]
	if !ok {
		return nil
	}
	if isInstance {
		return t.instance.names()
	}
	return t.static.names()
}

// Member looks up a single member by name.
func (c *Catalog) Member(typ string, isInstance bool, name string) (MemberDescriptor, bool) {
	t, ok := c.types[typ]
	if !ok {
		return MemberDescriptor{}, false
	}
	if isInstance {
		return t.instance.get(name)
	}
	return t.static.get(name)
}

// ElementType returns the element type of an indexable type.
func (c *Catalog) ElementType(typ string) (string, bool) {
	t, ok := c.types[typ]
	if !ok || t.Elem == "" {
		return "", false
	}
	return t.Elem, true
}

// Assignable reports whether a value of type from may be used where type to
// is expected. AssignableTo edges are followed transitively.
func (c *Catalog) Assignable(from, to string) bool {
	if from == to {
		return true
	}
	if t, ok := c.types[to]; ok && t.Universal {
		return true
	}
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		t, ok := c.types[cur]
		if !ok {
			continue
		}
		for _, next := range t.AssignableTo {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// AssignableNames returns, sorted, every instance and static name whose
// declared type is assignable to typ.
func (c *Catalog) AssignableNames(typ string) []string {
	var inst, stat []string
	for _, n := range c.instanceNames {
		if c.Assignable(c.instances[n].Type, typ) {
			inst = append(inst, n)
		}
	}
	for _, n := range c.staticNames {
		if c.Assignable(c.statics[n].Type, typ) {
			stat = append(stat, n)
		}
	}
	return MergeSorted(inst, stat)
}

// PredefinedLiterals returns the literal names registered for typ.
func (c *Catalog) PredefinedLiterals(typ string) []string {
	return c.literals[typ]
}

// InstanceNames returns all instance names, sorted.
func (c *Catalog) InstanceNames() []string { return append([]string(nil), c.instanceNames...) }

// StaticNames returns all static names, sorted.
func (c *Catalog) StaticNames() []string { return append([]string(nil), c.staticNames...) }

// AllNames returns instance and static names merged into one sorted list.
func (c *Catalog) AllNames() []string { return MergeSorted(c.instanceNames, c.staticNames) }

// Types returns every declared type name, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.types))
	for name := range c.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Describe returns a copy of the type entry for typ.
func (c *Catalog) Describe(typ string) (TypeInfo, error) {
	t, ok := c.types[typ]
	if !ok {
		return TypeInfo{}, fmt.Errorf("type %q: %w", typ, ErrUnknownType)
	}
	cp := *t
	cp.AssignableTo = append([]string(nil), t.AssignableTo...)
	return cp, nil
}

// IsDirty reports whether the catalog changed since the last ClearDirty.
func (c *Catalog) IsDirty() bool { return c.dirty }

// ClearDirty resets the change flag.
func (c *Catalog) ClearDirty() { c.dirty = false }

// MarkDirty forces consumers to rebuild derived data.
func (c *Catalog) MarkDirty() { c.dirty = true }

// Len returns the number of named symbols.
func (c *Catalog) Len() int { return len(c.instances) + len(c.statics) }

// Literals returns a copy of the literal table keyed by type.
func (c *Catalog) Literals() map[string][]string {
	out := make(map[string][]string, len(c.literals))
	for typ, lits := range c.literals {
		out[typ] = append([]string(nil), lits...)
	}
	return out
}

// Reset replaces the contents of c with those of from and marks c dirty.
// Holders of c (an engine, a console) keep their pointer and see the new
// symbols on their next read. from must not be used afterwards.
func (c *Catalog) Reset(from *Catalog) {
	c.instances = from.instances
	c.statics = from.statics
	c.instanceNames = from.instanceNames
	c.staticNames = from.staticNames
	c.types = from.types
	c.literals = from.literals
	c.dirty = true
}

// MergeSorted unions two sorted string slices into a new sorted slice,
// dropping duplicates.
func MergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func insertSorted(list []string, name string) []string {
	i := sort.SearchStrings(list, name)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = name
	return list
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

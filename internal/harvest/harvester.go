// Package harvest fills a catalog from live Go values by reflection and keeps
// the values as the environment commands are evaluated against.
package harvest

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tabc/internal/catalog"
)

// ErrNilValue is returned when a nil value is registered as an instance.
var ErrNilValue = errors.New("nil value")

// EnumMember is one named constant of an enum registered with Enum.
type EnumMember struct {
	Name  string
	Value any
}

// Members builds enum members named after their String form.
func Members[T fmt.Stringer](vals ...T) []EnumMember {
	out := make([]EnumMember, len(vals))
	for i, v := range vals {
		out[i] = EnumMember{Name: v.String(), Value: v}
	}
	return out
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets the logger used for registration decisions.
func WithLogger(l logr.Logger) Option {
	return func(h *Harvester) { h.log = l }
}

// Harvester registers Go values and their types with a catalog.
type Harvester struct {
	cat      *catalog.Catalog
	log      logr.Logger
	values   map[string]any
	statics  map[string]map[string]any
	enums    map[string]bool
	named    map[reflect.Type]string
	owners   map[string]reflect.Type
	ifaces   []reflect.Type
	concrete []reflect.Type
}

// New returns a Harvester writing into cat.
func New(cat *catalog.Catalog, opts ...Option) *Harvester {
	h := &Harvester{
		cat:     cat,
		log:     logr.Discard(),
		values:  make(map[string]any),
		statics: make(map[string]map[string]any),
		enums:   make(map[string]bool),
		named:   make(map[reflect.Type]string),
		owners:  make(map[string]reflect.Type),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Catalog returns the catalog being filled.
func (h *Harvester) Catalog() *catalog.Catalog { return h.cat }

// Instance registers v under name. Register pointers for values whose fields
// should be assignable from the console.
func (h *Harvester) Instance(name string, v any) error {
	if v == nil {
		return fmt.Errorf("instance %q: %w", name, ErrNilValue)
	}
	typ := h.Register(reflect.TypeOf(v))
	if err := h.cat.AddInstance(name, typ); err != nil {
		return err
	}
	h.values[name] = v
	h.log.V(1).Info("harvested instance", "name", name, "type", typ)
	return nil
}

// Assign creates or retypes the instance name to hold v. Assignments of nil
// are typed as any.
func (h *Harvester) Assign(name string, v any) error {
	typ := h.Register(reflect.TypeOf(v))
	if err := h.cat.SetInstance(name, typ); err != nil {
		return err
	}
	h.values[name] = v
	h.log.V(1).Info("assigned instance", "name", name, "type", typ)
	return nil
}

// Enum registers a static named name whose static members are the given
// constants. The static's declared type is the constants' type.
func (h *Harvester) Enum(name string, members ...EnumMember) error {
	if err := h.addEnum(name, members...); err != nil {
		return err
	}
	vals := make(map[string]any, len(members))
	for _, m := range members {
		vals[m.Name] = m.Value
	}
	h.statics[name] = vals
	h.enums[name] = true
	return nil
}

func (h *Harvester) addEnum(name string, members ...EnumMember) error {
	typ := name
	if len(members) > 0 && members[0].Value != nil {
		typ = h.Register(reflect.TypeOf(members[0].Value))
	}
	if err := h.cat.AddStatic(name, typ); err != nil {
		return err
	}
	for _, m := range members {
		h.cat.AddMember(typ, true, catalog.MemberDescriptor{
			Name: m.Name,
			Kind: catalog.KindEnumMember,
			Type: typ,
		})
	}
	return nil
}

// Static registers a static named name whose static methods are funcs.
func (h *Harvester) Static(name string, funcs map[string]any) error {
	for fn, v := range funcs {
		if v == nil || reflect.TypeOf(v).Kind() != reflect.Func {
			return fmt.Errorf("static %s.%s: not a function", name, fn)
		}
	}
	if err := h.addStatic(name, funcs); err != nil {
		return err
	}
	vals := make(map[string]any, len(funcs))
	for fn, v := range funcs {
		vals[fn] = v
	}
	h.statics[name] = vals
	return nil
}

func (h *Harvester) addStatic(name string, funcs map[string]any) error {
	if err := h.cat.AddStatic(name, name); err != nil {
		return err
	}
	names := make([]string, 0, len(funcs))
	for fn := range funcs {
		names = append(names, fn)
	}
	sort.Strings(names)
	for _, fn := range names {
		h.addMethod(name, true, fn, reflect.TypeOf(funcs[fn]), 0)
	}
	return nil
}

// Reharvest registers every known value and static again. Call it after the
// catalog was reset from another source; names the new catalog already uses
// are kept as defined there and reported in the returned error.
func (h *Harvester) Reharvest() error {
	h.named = make(map[reflect.Type]string)
	h.owners = make(map[string]reflect.Type)
	h.ifaces = nil
	h.concrete = nil

	var errs []error
	for _, name := range sortedNames(h.statics) {
		var err error
		if h.enums[name] {
			err = h.addEnum(name, enumMembers(h.statics[name])...)
		} else {
			err = h.addStatic(name, h.statics[name])
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range sortedNames(h.values) {
		if _, taken := h.cat.Lookup(name); taken {
			errs = append(errs, fmt.Errorf("instance %q: %w", name, catalog.ErrDuplicateSymbol))
			continue
		}
		if err := h.cat.AddInstance(name, h.Register(reflect.TypeOf(h.values[name]))); err != nil {
			errs = append(errs, err)
		}
	}
	h.log.V(1).Info("reharvested", "instances", len(h.values), "statics", len(h.statics), "conflicts", len(errs))
	return errors.Join(errs...)
}

func enumMembers(vals map[string]any) []EnumMember {
	out := make([]EnumMember, 0, len(vals))
	for _, name := range sortedNames(vals) {
		out = append(out, EnumMember{Name: name, Value: vals[name]})
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Interface registers an interface type from a nil pointer to it, for example
// (*fmt.Stringer)(nil), so that types implementing it become assignable to it.
func (h *Harvester) Interface(ptr any) string {
	t := reflect.TypeOf(ptr)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	return h.Register(t)
}

// Value returns the live value of an instance.
func (h *Harvester) Value(name string) (any, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Env returns the evaluation environment: every instance value, plus one map
// per static holding its members.
func (h *Harvester) Env() map[string]any {
	env := make(map[string]any, len(h.values)+len(h.statics))
	for name, v := range h.values {
		env[name] = v
	}
	for name, members := range h.statics {
		m := make(map[string]any, len(members))
		for k, v := range members {
			m[k] = v
		}
		env[name] = m
	}
	return env
}

// Register declares t and everything reachable from it in the catalog and
// returns its catalog name.
func (h *Harvester) Register(t reflect.Type) string {
	if t == nil {
		return h.Register(reflect.TypeOf((*any)(nil)).Elem())
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name, ok := h.named[t]; ok {
		return name
	}
	name := h.typeName(t)
	h.named[t] = name

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			h.cat.DefineType(catalog.TypeInfo{Name: name, Universal: true})
			return name
		}
		h.cat.DefineType(catalog.TypeInfo{Name: name})
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			h.addMethod(name, false, m.Name, m.Type, 0)
		}
		h.ifaces = append(h.ifaces, t)
		for _, c := range h.concrete {
			h.link(c, t)
		}
		h.log.V(1).Info("registered interface", "type", name)
		return name
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		h.cat.DefineType(catalog.TypeInfo{Name: name, Elem: h.Register(t.Elem())})
	case reflect.Struct:
		h.cat.DefineType(catalog.TypeInfo{Name: name})
		for _, f := range reflect.VisibleFields(t) {
			if !f.IsExported() {
				continue
			}
			h.cat.AddMember(name, false, catalog.MemberDescriptor{
				Name: f.Name,
				Kind: catalog.KindField,
				Type: h.Register(f.Type),
			})
		}
	default:
		info := catalog.TypeInfo{Name: name}
		if isBasicKind(t.Kind()) && t.Kind().String() != name {
			info.Underlying = t.Kind().String()
		}
		h.cat.DefineType(info)
	}

	if t.Name() != "" {
		pt := reflect.PointerTo(t)
		for i := 0; i < pt.NumMethod(); i++ {
			m := pt.Method(i)
			h.addMethod(name, false, m.Name, m.Type, 1)
		}
	}
	h.concrete = append(h.concrete, t)
	for _, it := range h.ifaces {
		h.link(t, it)
	}
	h.log.V(1).Info("registered type", "type", name)
	return name
}

// addMethod declares a method whose func type is ft; skip drops leading
// receiver parameters.
func (h *Harvester) addMethod(typ string, static bool, name string, ft reflect.Type, skip int) {
	result := VoidType
	if out := returnTypeName(ft); out != nil {
		result = h.Register(out)
	}
	h.cat.AddMember(typ, static, catalog.MemberDescriptor{
		Name:      name,
		Kind:      catalog.KindMethod,
		Type:      result,
		Overloads: []catalog.ParameterSignature{h.signature(ft, skip)},
	})
}

func (h *Harvester) signature(ft reflect.Type, skip int) catalog.ParameterSignature {
	sig := catalog.ParameterSignature{Variadic: ft.IsVariadic()}
	for i := skip; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		if sig.Variadic && i == ft.NumIn()-1 {
			pt = pt.Elem()
		}
		sig.Params = append(sig.Params, catalog.Parameter{
			Name: fmt.Sprintf("arg%d", i-skip),
			Type: h.Register(pt),
		})
	}
	return sig
}

func (h *Harvester) link(c, iface reflect.Type) {
	if c.Implements(iface) || reflect.PointerTo(c).Implements(iface) {
		h.cat.DefineType(catalog.TypeInfo{Name: h.named[c], AssignableTo: []string{h.named[iface]}})
	}
}

package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oakwood-commons/tabc/internal/catalog"
)

// Definition is the file form of a catalog.
type Definition struct {
	Instances map[string]string   `json:"instances,omitempty" yaml:"instances,omitempty" toml:"instances,omitempty"`
	Statics   map[string]string   `json:"statics,omitempty" yaml:"statics,omitempty" toml:"statics,omitempty"`
	Types     []TypeDef           `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
	Literals  map[string][]string `json:"literals,omitempty" yaml:"literals,omitempty" toml:"literals,omitempty"`
}

// TypeDef declares one type and its members.
type TypeDef struct {
	Name         string      `json:"name" yaml:"name" toml:"name"`
	Elem         string      `json:"elem,omitempty" yaml:"elem,omitempty" toml:"elem,omitempty"`
	Underlying   string      `json:"underlying,omitempty" yaml:"underlying,omitempty" toml:"underlying,omitempty"`
	AssignableTo []string    `json:"assignable_to,omitempty" yaml:"assignable_to,omitempty" toml:"assignable_to,omitempty"`
	Universal    bool        `json:"universal,omitempty" yaml:"universal,omitempty" toml:"universal,omitempty"`
	Members      []MemberDef `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`
	Static       []MemberDef `json:"static,omitempty" yaml:"static,omitempty" toml:"static,omitempty"`
	// Enum lists enum member names; each becomes a static member typed as
	// this type.
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty" toml:"enum,omitempty"`
}

// MemberDef declares one member. Parameters are written "type", "name type"
// or "name ...type" for a variadic tail. A member with Params or Overloads
// and no Kind is a method; otherwise Kind defaults to field.
type MemberDef struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Kind      string     `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Type      string     `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Params    []string   `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Overloads [][]string `json:"overloads,omitempty" yaml:"overloads,omitempty" toml:"overloads,omitempty"`
}

// Apply adds the definition to cat: types first, then statics, instances and
// literals, each in name order.
func Apply(def *Definition, cat *catalog.Catalog) error {
	for _, td := range def.Types {
		if strings.TrimSpace(td.Name) == "" {
			return fmt.Errorf("type definition without a name")
		}
		cat.DefineType(catalog.TypeInfo{
			Name:         td.Name,
			Elem:         td.Elem,
			Underlying:   td.Underlying,
			AssignableTo: td.AssignableTo,
			Universal:    td.Universal,
		})
		for _, md := range td.Members {
			m, err := md.descriptor()
			if err != nil {
				return fmt.Errorf("type %s: %w", td.Name, err)
			}
			cat.AddMember(td.Name, false, m)
		}
		for _, md := range td.Static {
			m, err := md.descriptor()
			if err != nil {
				return fmt.Errorf("type %s: %w", td.Name, err)
			}
			cat.AddMember(td.Name, true, m)
		}
		for _, name := range td.Enum {
			cat.AddMember(td.Name, true, catalog.MemberDescriptor{Name: name, Kind: catalog.KindEnumMember, Type: td.Name})
		}
	}
	for _, name := range sortedKeys(def.Statics) {
		if err := cat.AddStatic(name, def.Statics[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(def.Instances) {
		if err := cat.AddInstance(name, def.Instances[name]); err != nil {
			return err
		}
	}
	for _, typ := range sortedKeys(def.Literals) {
		cat.SetLiterals(typ, def.Literals[typ]...)
	}
	return nil
}

func (md MemberDef) descriptor() (catalog.MemberDescriptor, error) {
	if strings.TrimSpace(md.Name) == "" {
		return catalog.MemberDescriptor{}, fmt.Errorf("member without a name")
	}
	kindName := md.Kind
	if kindName == "" && (len(md.Params) > 0 || len(md.Overloads) > 0) {
		kindName = "method"
	}
	kind, ok := catalog.ParseKind(kindName)
	if !ok {
		return catalog.MemberDescriptor{}, fmt.Errorf("member %s: unknown kind %q", md.Name, md.Kind)
	}
	m := catalog.MemberDescriptor{Name: md.Name, Kind: kind, Type: md.Type}
	if kind != catalog.KindMethod {
		return m, nil
	}
	lists := md.Overloads
	if len(md.Params) > 0 || len(lists) == 0 {
		lists = append([][]string{md.Params}, lists...)
	}
	for _, list := range lists {
		sig, err := parseSignature(list)
		if err != nil {
			return catalog.MemberDescriptor{}, fmt.Errorf("member %s: %w", md.Name, err)
		}
		m.Overloads = append(m.Overloads, sig)
	}
	return m, nil
}

func parseSignature(params []string) (catalog.ParameterSignature, error) {
	var sig catalog.ParameterSignature
	for i, p := range params {
		fields := strings.Fields(p)
		var param catalog.Parameter
		switch len(fields) {
		case 1:
			param.Type = fields[0]
		case 2:
			param.Name, param.Type = fields[0], fields[1]
		default:
			return sig, fmt.Errorf("parameter %q: want \"type\" or \"name type\"", p)
		}
		if strings.HasPrefix(param.Type, "...") {
			if i != len(params)-1 {
				return sig, fmt.Errorf("parameter %q: only the last parameter may be variadic", p)
			}
			param.Type = strings.TrimPrefix(param.Type, "...")
			sig.Variadic = true
		}
		if param.Type == "" {
			return sig, fmt.Errorf("parameter %q: missing type", p)
		}
		sig.Params = append(sig.Params, param)
	}
	return sig, nil
}

// FromCatalog converts cat back into its file form. Types without any
// recorded detail are omitted.
func FromCatalog(cat *catalog.Catalog) *Definition {
	def := &Definition{
		Instances: map[string]string{},
		Statics:   map[string]string{},
		Literals:  cat.Literals(),
	}
	for _, name := range cat.InstanceNames() {
		def.Instances[name], _ = cat.LookupInstance(name)
	}
	for _, name := range cat.StaticNames() {
		def.Statics[name], _ = cat.LookupStatic(name)
	}
	for _, typ := range cat.Types() {
		info, err := cat.Describe(typ)
		if err != nil {
			continue
		}
		td := TypeDef{
			Name:         typ,
			Elem:         info.Elem,
			Underlying:   info.Underlying,
			AssignableTo: info.AssignableTo,
			Universal:    info.Universal,
		}
		if len(td.AssignableTo) == 0 {
			td.AssignableTo = nil
		}
		for _, m := range cat.MembersOf(typ, true) {
			td.Members = append(td.Members, memberDef(m))
		}
		for _, m := range cat.MembersOf(typ, false) {
			if m.Kind == catalog.KindEnumMember && m.Type == typ {
				td.Enum = append(td.Enum, m.Name)
				continue
			}
			td.Static = append(td.Static, memberDef(m))
		}
		if td.Elem == "" && td.Underlying == "" && td.AssignableTo == nil && !td.Universal &&
			td.Members == nil && td.Static == nil && td.Enum == nil {
			continue
		}
		def.Types = append(def.Types, td)
	}
	return def
}

func memberDef(m catalog.MemberDescriptor) MemberDef {
	md := MemberDef{Name: m.Name, Kind: m.Kind.String(), Type: m.Type}
	for _, sig := range m.Overloads {
		list := make([]string, len(sig.Params))
		for i, p := range sig.Params {
			typ := p.Type
			if sig.Variadic && i == len(sig.Params)-1 {
				typ = "..." + typ
			}
			if p.Name != "" {
				list[i] = p.Name + " " + typ
			} else {
				list[i] = typ
			}
		}
		md.Overloads = append(md.Overloads, list)
	}
	return md
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

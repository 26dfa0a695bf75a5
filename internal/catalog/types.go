package catalog

import "strings"

// MemberKind classifies a type member.
type MemberKind int

//revive:disable:exported
const (
	KindField MemberKind = iota
	KindProperty
	KindMethod
	KindEnumMember
)

//revive:enable:exported

var kindNames = map[MemberKind]string{
	KindField:      "field",
	KindProperty:   "property",
	KindMethod:     "method",
	KindEnumMember: "enum",
}

func (k MemberKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a definition-file kind name to a MemberKind.
func ParseKind(s string) (MemberKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "field", "":
		return KindField, true
	case "property", "prop":
		return KindProperty, true
	case "method", "func", "function":
		return KindMethod, true
	case "enum", "enum-member", "enummember", "const":
		return KindEnumMember, true
	}
	return KindField, false
}

// Parameter is one parameter of a method overload.
type Parameter struct {
	Name string
	Type string
}

// ParameterSignature is the ordered parameter list of one overload.
type ParameterSignature struct {
	Params   []Parameter
	Variadic bool // last parameter repeats
}

// Arity returns the number of declared parameters.
func (s ParameterSignature) Arity() int { return len(s.Params) }

// ParamType returns the declared type of the parameter at index i, expanding a
// variadic tail. ok is false when i is outside the signature.
func (s ParameterSignature) ParamType(i int) (string, bool) {
	if i < 0 {
		return "", false
	}
	if i < len(s.Params) {
		return s.Params[i].Type, true
	}
	if s.Variadic && len(s.Params) > 0 {
		return s.Params[len(s.Params)-1].Type, true
	}
	return "", false
}

// Accepts reports whether the signature can take argCount arguments.
func (s ParameterSignature) Accepts(argCount int) bool {
	if s.Variadic {
		return argCount >= len(s.Params)-1
	}
	return argCount <= len(s.Params)
}

// MemberDescriptor describes a field, property, method or enum member of a type.
// Methods carry every overload sharing the name; other kinds have nil Overloads.
type MemberDescriptor struct {
	Name      string
	Kind      MemberKind
	Type      string // value type, return type, or enum type for enum members
	Overloads []ParameterSignature
}

// IsMethod reports whether the member is callable.
func (m MemberDescriptor) IsMethod() bool { return m.Kind == KindMethod }

// Symbol is a named entry of the catalog: an instance or a static type.
type Symbol struct {
	Name       string
	Type       string
	IsInstance bool
}

// TypeInfo is everything the catalog knows about a declared type.
type TypeInfo struct {
	Name         string
	Elem         string   // element type for indexable types
	Underlying   string   // underlying type for enums
	AssignableTo []string // types values of this type may be assigned to
	Universal    bool     // every value is assignable to this type

	instance memberTable
	static   memberTable
}

type memberTable struct {
	members []MemberDescriptor // sorted by name (ordinal)
	index   map[string]int
}

func (t *memberTable) get(name string) (MemberDescriptor, bool) {
	if t.index == nil {
		return MemberDescriptor{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return MemberDescriptor{}, false
	}
	return t.members[i], true
}

// add inserts a member keeping the table sorted; a method added under an
// existing method name appends its overloads instead.
func (t *memberTable) add(m MemberDescriptor) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[m.Name]; ok {
		existing := t.members[i]
		if existing.IsMethod() && m.IsMethod() {
			existing.Overloads = append(existing.Overloads, m.Overloads...)
			t.members[i] = existing
			return
		}
		t.members[i] = m
		return
	}
	pos := len(t.members)
	for j, cur := range t.members {
		if m.Name < cur.Name {
			pos = j
			break
		}
	}
	t.members = append(t.members, MemberDescriptor{})
	copy(t.members[pos+1:], t.members[pos:])
	t.members[pos] = m
	for j := pos; j < len(t.members); j++ {
		t.index[t.members[j].Name] = j
	}
}

func (t *memberTable) names() []string {
	out := make([]string, len(t.members))
	for i, m := range t.members {
		out[i] = m.Name
	}
	return out
}

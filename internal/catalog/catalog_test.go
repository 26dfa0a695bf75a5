package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogNamespaces(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstance("foo", "Kickup"))
	require.NoError(t, c.AddInstance("bar", "Kickup"))
	require.NoError(t, c.AddStatic("Behen", "Behen"))

	assert.ErrorIs(t, c.AddInstance("foo", "string"), ErrDuplicateSymbol)
	assert.ErrorIs(t, c.AddStatic("foo", "Kickup"), ErrDuplicateSymbol)
	assert.ErrorIs(t, c.AddInstance("Behen", "Behen"), ErrDuplicateSymbol)

	typ, ok := c.LookupInstance("foo")
	require.True(t, ok)
	assert.Equal(t, "Kickup", typ)

	_, ok = c.LookupInstance("Behen")
	assert.False(t, ok)
	typ, ok = c.LookupStatic("Behen")
	require.True(t, ok)
	assert.Equal(t, "Behen", typ)

	assert.Equal(t, []string{"bar", "foo"}, c.InstanceNames())
	assert.Equal(t, []string{"Behen", "bar", "foo"}, c.AllNames())
	assert.Equal(t, 3, c.Len())
}

func TestSetInstanceRetypes(t *testing.T) {
	c := New()
	require.NoError(t, c.SetInstance("x", "int"))
	c.ClearDirty()

	require.NoError(t, c.SetInstance("x", "int"))
	assert.False(t, c.IsDirty(), "same type must not dirty the catalog")

	require.NoError(t, c.SetInstance("x", "string"))
	assert.True(t, c.IsDirty())
	typ, _ := c.LookupInstance("x")
	assert.Equal(t, "string", typ)

	require.NoError(t, c.AddStatic("S", "S"))
	assert.ErrorIs(t, c.SetInstance("S", "int"), ErrDuplicateSymbol)
}

func TestMembersSortedAndOverloadsMerged(t *testing.T) {
	c := New()
	c.AddMember("Kickup", false, MemberDescriptor{Name: "ToString", Kind: KindMethod, Type: "string", Overloads: []ParameterSignature{{}}})
	c.AddMember("Kickup", false, MemberDescriptor{Name: "Cymidine", Kind: KindField, Type: "string"})
	c.AddMember("Kickup", false, MemberDescriptor{Name: "Equals", Kind: KindMethod, Type: "bool", Overloads: []ParameterSignature{
		{Params: []Parameter{{Name: "other", Type: "any"}}},
	}})
	c.AddMember("Kickup", false, MemberDescriptor{Name: "Equals", Kind: KindMethod, Type: "bool", Overloads: []ParameterSignature{
		{Params: []Parameter{{Name: "a", Type: "any"}, {Name: "b", Type: "any"}}},
	}})

	assert.Equal(t, []string{"Cymidine", "Equals", "ToString"}, c.MemberNames("Kickup", true))
	assert.Empty(t, c.MemberNames("Kickup", false))

	eq, ok := c.Member("Kickup", true, "Equals")
	require.True(t, ok)
	require.Len(t, eq.Overloads, 2)
	assert.Equal(t, 1, eq.Overloads[0].Arity())
	assert.Equal(t, 2, eq.Overloads[1].Arity())

	cym, ok := c.Member("Kickup", true, "Cymidine")
	require.True(t, ok)
	assert.Nil(t, cym.Overloads)
	assert.Equal(t, KindField, cym.Kind)

	_, ok = c.Member("Kickup", true, "Missing")
	assert.False(t, ok)
	_, ok = c.Member("Nope", true, "Equals")
	assert.False(t, ok)
}

func TestAssignability(t *testing.T) {
	c := New()
	c.DefineType(TypeInfo{Name: "Dog", AssignableTo: []string{"Animal"}})
	c.DefineType(TypeInfo{Name: "Animal", AssignableTo: []string{"Object"}})
	c.DefineType(TypeInfo{Name: "any", Universal: true})

	assert.True(t, c.Assignable("Dog", "Dog"))
	assert.True(t, c.Assignable("Dog", "Animal"))
	assert.True(t, c.Assignable("Dog", "Object"), "edges are transitive")
	assert.False(t, c.Assignable("Animal", "Dog"))
	assert.True(t, c.Assignable("string", "any"))

	require.NoError(t, c.AddInstance("rex", "Dog"))
	require.NoError(t, c.AddInstance("generic", "Animal"))
	require.NoError(t, c.AddInstance("s", "string"))
	require.NoError(t, c.AddStatic("Animal", "Animal"))

	assert.Equal(t, []string{"Animal", "generic", "rex"}, c.AssignableNames("Animal"))
	assert.Equal(t, []string{"s"}, c.AssignableNames("string"))
	assert.Equal(t, []string{"Animal", "generic", "rex", "s"}, c.AssignableNames("any"))
}

func TestElementTypeAndLiterals(t *testing.T) {
	c := New()
	c.DefineType(TypeInfo{Name: "[]Kickup", Elem: "Kickup"})

	elem, ok := c.ElementType("[]Kickup")
	require.True(t, ok)
	assert.Equal(t, "Kickup", elem)
	_, ok = c.ElementType("Kickup")
	assert.False(t, ok)

	assert.Equal(t, []string{"false", "true"}, c.PredefinedLiterals("bool"))
	c.SetLiterals("Color", "red", "blue")
	assert.Equal(t, []string{"blue", "red"}, c.PredefinedLiterals("Color"))
	c.SetLiterals("Color")
	assert.Nil(t, c.PredefinedLiterals("Color"))
}

func TestDirtyFlag(t *testing.T) {
	c := New()
	assert.True(t, c.IsDirty(), "seeding literals marks a new catalog dirty")
	c.ClearDirty()
	assert.False(t, c.IsDirty())

	require.NoError(t, c.AddInstance("a", "int"))
	assert.True(t, c.IsDirty())
	c.ClearDirty()

	c.AddMember("int", false, MemberDescriptor{Name: "String", Kind: KindMethod, Type: "string"})
	assert.True(t, c.IsDirty())
}

func TestDescribe(t *testing.T) {
	c := New()
	c.DefineType(TypeInfo{Name: "Behen", Underlying: "int"})
	info, err := c.Describe("Behen")
	require.NoError(t, err)
	assert.Equal(t, "int", info.Underlying)

	_, err = c.Describe("Nope")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestMergeSorted(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"both_empty", nil, nil, []string{}},
		{"left_only", []string{"a", "c"}, nil, []string{"a", "c"}},
		{"interleaved", []string{"a", "c"}, []string{"b", "d"}, []string{"a", "b", "c", "d"}},
		{"duplicates_dropped", []string{"a", "b"}, []string{"b"}, []string{"a", "b"}},
		{"ordinal_case", []string{"apple"}, []string{"Zebra"}, []string{"Zebra", "apple"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeSorted(tt.a, tt.b))
		})
	}
}

func TestParameterSignature(t *testing.T) {
	sig := ParameterSignature{Params: []Parameter{{Type: "string"}, {Type: "int"}}, Variadic: true}
	typ, ok := sig.ParamType(5)
	require.True(t, ok)
	assert.Equal(t, "int", typ)
	assert.True(t, sig.Accepts(1))
	assert.True(t, sig.Accepts(9))

	fixed := ParameterSignature{Params: []Parameter{{Type: "string"}}}
	_, ok = fixed.ParamType(1)
	assert.False(t, ok)
	assert.True(t, fixed.Accepts(0))
	assert.False(t, fixed.Accepts(2))
}

func TestResetKeepsPointer(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstance("old", "int"))
	c.ClearDirty()

	next := New()
	require.NoError(t, next.AddInstance("fresh", "string"))
	next.SetLiterals("Behen", "Razor")
	c.Reset(next)

	assert.True(t, c.IsDirty())
	assert.Equal(t, []string{"fresh"}, c.InstanceNames())
	_, ok := c.LookupInstance("old")
	assert.False(t, ok)
	assert.Equal(t, map[string][]string{"Behen": {"Razor"}, "bool": {"false", "true"}}, c.Literals())
}

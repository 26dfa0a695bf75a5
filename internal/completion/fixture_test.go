package completion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tabc/internal/catalog"
)

func sig(types ...string) catalog.ParameterSignature {
	s := catalog.ParameterSignature{}
	for _, t := range types {
		s.Params = append(s.Params, catalog.Parameter{Type: t})
	}
	return s
}

// newFixture builds the catalog used across the engine tests:
//
//	foo   Kickup   {Cymidine string, Equals(any) bool, SetBehen(Behen) / SetBehen(Behen,int), ToString() string, Tags []string}
//	items []Kickup
//	s     string
//	flag  bool
//	Behen (static enum) {Razor, Shank}
func newFixture(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	c.DefineType(catalog.TypeInfo{Name: "any", Universal: true})
	c.DefineType(catalog.TypeInfo{Name: "[]Kickup", Elem: "Kickup"})
	c.DefineType(catalog.TypeInfo{Name: "[]string", Elem: "string"})
	c.DefineType(catalog.TypeInfo{Name: "Behen", Underlying: "int"})

	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "ToString", Kind: catalog.KindMethod, Type: "string", Overloads: []catalog.ParameterSignature{sig()}})
	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "Cymidine", Kind: catalog.KindField, Type: "string"})
	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "Equals", Kind: catalog.KindMethod, Type: "bool", Overloads: []catalog.ParameterSignature{sig("any")}})
	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "SetBehen", Kind: catalog.KindMethod, Type: "void", Overloads: []catalog.ParameterSignature{sig("Behen", "int")}})
	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "SetBehen", Kind: catalog.KindMethod, Type: "void", Overloads: []catalog.ParameterSignature{sig("Behen")}})
	c.AddMember("Kickup", false, catalog.MemberDescriptor{Name: "Tags", Kind: catalog.KindProperty, Type: "[]string"})
	c.AddMember("Behen", true, catalog.MemberDescriptor{Name: "Shank", Kind: catalog.KindEnumMember, Type: "Behen"})
	c.AddMember("Behen", true, catalog.MemberDescriptor{Name: "Razor", Kind: catalog.KindEnumMember, Type: "Behen"})
	c.AddMember("string", false, catalog.MemberDescriptor{Name: "Length", Kind: catalog.KindProperty, Type: "int"})

	require.NoError(t, c.AddInstance("foo", "Kickup"))
	require.NoError(t, c.AddInstance("items", "[]Kickup"))
	require.NoError(t, c.AddInstance("s", "string"))
	require.NoError(t, c.AddInstance("flag", "bool"))
	require.NoError(t, c.AddStatic("Behen", "Behen"))
	return c
}

// complete runs n completions in one direction against buf.
func complete(e *Engine, buf *TextBuffer, forward bool, n int) {
	for i := 0; i < n; i++ {
		e.Complete(buf, forward)
	}
}

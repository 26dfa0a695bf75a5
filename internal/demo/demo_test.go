package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/internal/harvest"
)

func seeded(t *testing.T) (*catalog.Catalog, *harvest.Harvester) {
	t.Helper()
	cat := catalog.New()
	h := harvest.New(cat)
	require.NoError(t, Seed(h))
	return cat, h
}

func TestSeedNames(t *testing.T) {
	cat, _ := seeded(t)
	assert.Equal(t,
		[]string{"Behen", "Text", "answer", "bar", "enabled", "foo", "greeting", "inventory"},
		cat.AllNames())
	assert.Equal(t, []string{"bar", "foo", "inventory"}, cat.AssignableNames("Describer"))
	assert.Equal(t, []string{"Razor", "Shank", "Ulnar"}, cat.MemberNames("Behen", false))
}

func TestSeedTwiceFails(t *testing.T) {
	_, h := seeded(t)
	assert.ErrorIs(t, Seed(h), catalog.ErrDuplicateSymbol)
}

func TestCompletesAgainstDemo(t *testing.T) {
	cat, _ := seeded(t)
	e := completion.NewEngine(cat)

	a, ok := e.Analyze("foo.SetBehen(", 13)
	require.True(t, ok)
	assert.Equal(t, "Behen", a.Bias)
	assert.Equal(t, []string{"Behen"}, a.Candidates)

	a, ok = e.Analyze("inventory.Items[0].", 19)
	require.True(t, ok)
	assert.Contains(t, a.Candidates, "Cymidine")
	assert.Contains(t, a.Candidates, "SetBehen")

	buf := completion.NewTextBuffer("enabled = ", 10)
	require.True(t, e.Complete(buf, true))
	assert.Equal(t, "enabled = enabled", buf.Value())
	require.True(t, e.Complete(buf, true))
	assert.Equal(t, "enabled = false", buf.Value())
}

func TestKickupMethods(t *testing.T) {
	k := &Kickup{Cymidine: "foo"}
	assert.Same(t, k, k.SetBehen(Ulnar))
	assert.Equal(t, "foo(Ulnar)", k.ToString())
	assert.Equal(t, "> foo a b", k.Describe("> ", "a", "b"))
	assert.True(t, k.Equals(&Kickup{Cymidine: "foo"}))
	assert.False(t, k.Equals("foo"))
	assert.Equal(t, "Behen(9)", Behen(9).String())

	inv := &Inventory{Owner: "o", Items: []*Kickup{k}, Counts: map[string]int{"a": 2, "b": 3}}
	assert.Same(t, k, inv.Find("foo"))
	assert.Nil(t, inv.Find("nope"))
	assert.Equal(t, 5, inv.Total())
	assert.Equal(t, "o: 1 items", inv.ToString())
}

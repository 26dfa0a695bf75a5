package intellisense

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	Name  string
	Level int
}

func (p *player) Rename(name string) *player { p.Name = name; return p }

func TestLockedConcurrentMutation(t *testing.T) {
	cat := NewCatalog()
	h := NewHarvester(cat)
	require.NoError(t, h.Instance("player", &player{}))
	l := NewLocked(cat)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := l.Mutate(func(*Catalog) error {
				return h.Assign(fmt.Sprintf("p%d", i), &player{})
			})
			assert.NoError(t, err)
		}(i)
	}
	for i := 0; i < 8; i++ {
		buf := NewTextBuffer("player.Na", 9)
		assert.True(t, l.Complete(buf, true))
		assert.Equal(t, "player.Name", buf.Value())
	}
	wg.Wait()

	a, ok := l.Analyze("p", 1)
	require.True(t, ok)
	assert.Contains(t, a.Candidates, "p7")
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog("../loader/testdata/catalog.yaml")
	require.NoError(t, err)
	eng := NewEngine(cat, WithMode(ReplaceToken))
	assert.Equal(t, ReplaceToken, eng.Mode())

	_, err = LoadCatalog("missing.yaml")
	assert.Error(t, err)

	m, ok := ParseMode("replace-tail")
	assert.True(t, ok)
	assert.Equal(t, ReplaceTail, m)
}

func TestDuplicateSymbol(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.AddInstance("a", "int"))
	assert.ErrorIs(t, cat.AddStatic("a", "int"), ErrDuplicateSymbol)
}

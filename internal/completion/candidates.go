package completion

import (
	"sort"

	"github.com/oakwood-commons/tabc/internal/catalog"
)

// Catalog is the read-only view of the symbol catalog the engine consumes.
type Catalog interface {
	LookupInstance(name string) (string, bool)
	LookupStatic(name string) (string, bool)
	MembersOf(typ string, isInstance bool) []catalog.MemberDescriptor
	Member(typ string, isInstance bool, name string) (catalog.MemberDescriptor, bool)
	ElementType(typ string) (string, bool)
	AssignableNames(typ string) []string
	PredefinedLiterals(typ string) []string
	AllNames() []string
	IsDirty() bool
	ClearDirty()
}

type memberKey struct {
	typ        string
	isInstance bool
}

// Assembler builds ordered candidate lists and caches them until the catalog
// reports a change.
type Assembler struct {
	cat     Catalog
	all     []string
	byType  map[string][]string
	members map[memberKey][]string
}

// NewAssembler creates an assembler over cat.
func NewAssembler(cat Catalog) *Assembler {
	return &Assembler{cat: cat}
}

func (a *Assembler) refresh() {
	if a.byType != nil && !a.cat.IsDirty() {
		return
	}
	a.all = nil
	a.byType = make(map[string][]string)
	a.members = make(map[memberKey][]string)
	a.cat.ClearDirty()
}

// Candidates returns the sorted names valid for kind. Accessor lists the
// members of target; every other kind lists catalog names, narrowed to bias
// when it is set.
func (a *Assembler) Candidates(kind Kind, target *Resolved, bias string) []string {
	a.refresh()
	if kind == KindAccessor {
		if target == nil {
			return nil
		}
		return a.memberNames(target.Type, target.IsInstance)
	}
	if bias == "" {
		if a.all == nil {
			a.all = a.cat.AllNames()
		}
		return a.all
	}
	return a.biased(bias)
}

func (a *Assembler) memberNames(typ string, isInstance bool) []string {
	key := memberKey{typ, isInstance}
	if names, ok := a.members[key]; ok {
		return names
	}
	members := a.cat.MembersOf(typ, isInstance)
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	sort.Strings(names)
	a.members[key] = names
	return names
}

func (a *Assembler) biased(typ string) []string {
	if names, ok := a.byType[typ]; ok {
		return names
	}
	lits := append([]string(nil), a.cat.PredefinedLiterals(typ)...)
	sort.Strings(lits)
	names := catalog.MergeSorted(lits, a.cat.AssignableNames(typ))
	a.byType[typ] = names
	return names
}

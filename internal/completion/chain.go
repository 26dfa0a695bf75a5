package completion

import (
	"strings"

	"github.com/oakwood-commons/tabc/internal/catalog"
)

// Resolved is the symbol an accessor chain evaluates to.
type Resolved struct {
	Name       string // last link name
	Type       string // declared type of the chain's value
	IsInstance bool
	// Member is the terminal member when the last link names one without
	// calling or indexing it. For methods it carries every overload.
	Member *catalog.MemberDescriptor
}

type link struct {
	name    string
	indexed bool
	call    bool
}

// ResolveChain resolves the dotted chain whose last byte is at chainEnd.
// Only single-level indexers are supported: a[0].b resolves, a[0][1] does not.
func ResolveChain(cat Catalog, buffer string, chainEnd int) (Resolved, bool) {
	links, ok := splitChain(buffer, chainEnd)
	if !ok || len(links) == 0 {
		return Resolved{}, false
	}

	first := links[0]
	if first.call {
		return Resolved{}, false
	}
	res := Resolved{Name: first.name}
	if typ, ok := cat.LookupInstance(first.name); ok {
		res.Type, res.IsInstance = typ, true
	} else if typ, ok := cat.LookupStatic(first.name); ok {
		res.Type = typ
	} else {
		return Resolved{}, false
	}
	if first.indexed {
		elem, ok := cat.ElementType(res.Type)
		if !ok {
			return Resolved{}, false
		}
		res.Type, res.IsInstance = elem, true
	}

	for _, l := range links[1:] {
		m, ok := cat.Member(res.Type, res.IsInstance, l.name)
		if !ok {
			return Resolved{}, false
		}
		if l.call && !m.IsMethod() {
			return Resolved{}, false
		}
		res.Name = l.name
		res.Type = m.Type
		res.IsInstance = true
		res.Member = nil
		if l.indexed {
			elem, ok := cat.ElementType(res.Type)
			if !ok {
				return Resolved{}, false
			}
			res.Type = elem
			continue
		}
		if !l.call {
			member := m
			res.Member = &member
		}
	}
	return res, true
}

// splitChain walks left from chainEnd collecting links while they are joined
// by '.', and returns them first-to-last.
func splitChain(buffer string, chainEnd int) ([]link, bool) {
	var links []link
	end := chainEnd
	for {
		end = skipSpacesLeft(buffer, end)
		if end < 0 {
			return nil, false
		}
		var l link
		nameEnd := end
		switch buffer[end] {
		case ']':
			open := matchOpen(buffer, end, '[', ']')
			if open < 0 {
				return nil, false
			}
			l.indexed = true
			nameEnd = skipSpacesLeft(buffer, open-1)
			if nameEnd >= 0 && buffer[nameEnd] == ']' {
				// a[..][..]
				return nil, false
			}
		case ')':
			open := matchOpen(buffer, end, '(', ')')
			if open < 0 {
				return nil, false
			}
			l.call = true
			nameEnd = skipSpacesLeft(buffer, open-1)
		}
		if nameEnd < 0 || isBoundary(buffer[nameEnd], false) {
			return nil, false
		}
		start, _ := FindToken(buffer, nameEnd+1, false)
		l.name = strings.TrimSpace(buffer[start : nameEnd+1])
		if l.name == "" {
			return nil, false
		}
		links = append(links, l)

		prev := skipSpacesLeft(buffer, start-1)
		if prev < 0 || buffer[prev] != '.' {
			break
		}
		end = prev - 1
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return links, true
}

// matchOpen finds the opener matching the closer at index close, skipping
// quoted strings. It returns -1 when unbalanced.
func matchOpen(buffer string, close int, opener, closer byte) int {
	depth := 0
	for i := close; i >= 0; i-- {
		switch ch := buffer[i]; ch {
		case '"', '\'':
			i = quoteStartLeft(buffer, i)
			if i < 0 {
				return -1
			}
		case closer:
			depth++
		case opener:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// quoteStartLeft returns the index of the opening quote for the closing quote
// at i, or -1.
func quoteStartLeft(buffer string, i int) int {
	q := buffer[i]
	for j := i - 1; j >= 0; j-- {
		if buffer[j] == q && (j == 0 || buffer[j-1] != '\\') {
			return j
		}
	}
	return -1
}

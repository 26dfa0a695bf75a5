package completion

import "strings"

// Selection is the outcome of one cycling step.
type Selection struct {
	Index  int    // chosen candidate
	Anchor string // prefix to remember for the next step
}

// Cycle picks the next (or previous) candidate matching the anchor prefix,
// wrapping around at either end of the matching range. When token is not an
// exact candidate, or no anchor is set, token becomes the new anchor.
// candidates must be sorted so that prefix matches are contiguous.
func Cycle(candidates []string, token, anchor string, anchorSet, forward bool) (Selection, bool) {
	exact := -1
	for i, c := range candidates {
		if c == token {
			exact = i
			break
		}
	}
	if exact == -1 || !anchorSet {
		anchor = token
	}

	first, last := -1, -1
	for i, c := range candidates {
		if strings.HasPrefix(c, anchor) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return Selection{}, false
	}

	base := exact
	if exact < first || exact > last {
		// no exact match, or a stale anchor the token no longer extends
		base = first - 1
	}
	var next int
	if forward {
		next = base + 1
		if next > last {
			next = first
		}
	} else {
		next = base - 1
		if next < first {
			next = last
		}
	}
	return Selection{Index: next, Anchor: anchor}, true
}

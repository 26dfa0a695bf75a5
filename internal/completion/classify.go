package completion

// Kind is the syntactic position the caret token occupies.
type Kind int

//revive:disable:exported
const (
	KindRegular Kind = iota
	KindAccessor
	KindAssignment
	KindMethod
)

//revive:enable:exported

func (k Kind) String() string {
	switch k {
	case KindAccessor:
		return "accessor"
	case KindAssignment:
		return "assignment"
	case KindMethod:
		return "method"
	default:
		return "regular"
	}
}

// Context describes the token being completed.
type Context struct {
	Kind        Kind
	TokenStart  int
	TokenLength int
	Token       string
	// Operator is the offset of the '.', '=', '(' or ',' that decided Kind,
	// or -1 for Regular.
	Operator int
}

// compoundPrefixes turn a following '=' into a comparison or compound
// assignment, which is not an assignment target.
const compoundPrefixes = "=+-*/%"

// Classify inspects the first non-space byte left of tokenStart and returns
// the completion kind together with that operator's offset.
func Classify(buffer string, tokenStart int) (Kind, int) {
	if tokenStart <= 0 {
		return KindRegular, -1
	}
	i := skipSpacesLeft(buffer, tokenStart-1)
	if i < 0 {
		return KindRegular, -1
	}
	switch buffer[i] {
	case '.':
		return KindAccessor, i
	case '(', ',':
		return KindMethod, i
	case '=':
		if i == 0 {
			return KindAssignment, i
		}
		prev := buffer[i-1]
		for j := 0; j < len(compoundPrefixes); j++ {
			if compoundPrefixes[j] == prev {
				return KindRegular, -1
			}
		}
		return KindAssignment, i
	}
	return KindRegular, -1
}

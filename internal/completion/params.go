package completion

import "github.com/oakwood-commons/tabc/internal/catalog"

// ArgSpan locates the argument slot holding the caret inside a call.
type ArgSpan struct {
	Index  int // zero-based slot containing the caret
	Count  int // number of slots typed so far
	Start  int // byte offset of the slot
	Length int
}

var closerFor = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// FindOpenParen returns the offset of the unmatched '(' enclosing pos, or -1
// when pos sits inside an unmatched '[' or '{' or no call at all.
func FindOpenParen(buffer string, pos int) int {
	if pos > len(buffer) {
		pos = len(buffer)
	}
	var stack []byte
	for i := pos - 1; i >= 0; i-- {
		switch ch := buffer[i]; ch {
		case '"', '\'':
			i = quoteStartLeft(buffer, i)
			if i < 0 {
				return -1
			}
		case ')', ']', '}':
			stack = append(stack, ch)
		case '(', '[', '{':
			if len(stack) == 0 {
				if ch == '(' {
					return i
				}
				return -1
			}
			if closerFor[ch] != stack[len(stack)-1] {
				return -1
			}
			stack = stack[:len(stack)-1]
		}
	}
	return -1
}

// LocateParam scans the argument list opened at openParen up to its matching
// ')' or the end of the buffer. ok is false for malformed nesting or when
// caret lies outside the argument list.
func LocateParam(buffer string, openParen, caret int) (ArgSpan, bool) {
	if openParen < 0 || openParen >= len(buffer) || buffer[openParen] != '(' || caret <= openParen {
		return ArgSpan{}, false
	}
	span := ArgSpan{Index: -1, Count: 1}
	argStart := openParen + 1
	var stack []byte
	i := openParen + 1
scan:
	for ; i < len(buffer); i++ {
		switch ch := buffer[i]; ch {
		case '"', '\'':
			i = quoteEndRight(buffer, i)
		case '(', '[', '{':
			stack = append(stack, closerFor[ch])
		case ')', ']', '}':
			if len(stack) == 0 {
				if ch == ')' {
					break scan
				}
				return ArgSpan{}, false
			}
			if stack[len(stack)-1] != ch {
				return ArgSpan{}, false
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) > 0 {
				continue
			}
			if span.Index < 0 && caret <= i {
				span.Index, span.Start, span.Length = span.Count-1, argStart, i-argStart
			}
			span.Count++
			argStart = i + 1
		}
	}
	end := i
	if end > len(buffer) {
		end = len(buffer)
	}
	if span.Index < 0 {
		if caret > end {
			return ArgSpan{}, false
		}
		span.Index, span.Start, span.Length = span.Count-1, argStart, end-argStart
	}
	return span, true
}

// quoteEndRight returns the index of the closing quote for the opening quote
// at i, or the last index of buffer when the literal is unterminated.
func quoteEndRight(buffer string, i int) int {
	q := buffer[i]
	for j := i + 1; j < len(buffer); j++ {
		if buffer[j] == '\\' {
			j++
			continue
		}
		if buffer[j] == q {
			return j
		}
	}
	return len(buffer) - 1
}

// SelectOverload picks the overload with the smallest arity that can take
// argCount arguments; the first declared wins ties.
func SelectOverload(overloads []catalog.ParameterSignature, argCount int) (catalog.ParameterSignature, bool) {
	best := -1
	for i, sig := range overloads {
		if !sig.Accepts(argCount) {
			continue
		}
		if best < 0 || sig.Arity() < overloads[best].Arity() {
			best = i
		}
	}
	if best < 0 {
		return catalog.ParameterSignature{}, false
	}
	return overloads[best], true
}

// ParamBias returns the declared type expected at span's slot.
func ParamBias(overloads []catalog.ParameterSignature, span ArgSpan) (string, bool) {
	sig, ok := SelectOverload(overloads, span.Count)
	if !ok {
		return "", false
	}
	return sig.ParamType(span.Index)
}

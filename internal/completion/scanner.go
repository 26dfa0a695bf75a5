package completion

// boundaryChars end a token. Space and tab are handled separately because
// chain resolution allows them inside a link.
const boundaryChars = "()[]{}/=.,+-*%!<>&|^~;:?"

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' }

func isBoundary(ch byte, includeSpaces bool) bool {
	if isSpace(ch) {
		return includeSpaces
	}
	for i := 0; i < len(boundaryChars); i++ {
		if boundaryChars[i] == ch {
			return true
		}
	}
	return false
}

// FindToken returns the byte offset and length of the token touching
// lookupIndex. It walks left from lookupIndex-1 to the first boundary, then
// right from the token start to the next one. lookupIndex is clamped to
// [0, len(buffer)].
func FindToken(buffer string, lookupIndex int, includeSpaces bool) (start, length int) {
	if buffer == "" {
		return 0, 0
	}
	if lookupIndex > len(buffer) {
		lookupIndex = len(buffer)
	}
	if lookupIndex < 0 {
		lookupIndex = 0
	}
	start = lookupIndex
	for i := lookupIndex - 1; i >= 0 && !isBoundary(buffer[i], includeSpaces); i-- {
		start = i
	}
	end := start
	for end < len(buffer) && !isBoundary(buffer[end], includeSpaces) {
		end++
	}
	return start, end - start
}

// skipSpacesLeft returns the index of the first non-space byte at or before i,
// or -1.
func skipSpacesLeft(buffer string, i int) int {
	if i >= len(buffer) {
		i = len(buffer) - 1
	}
	for i >= 0 && isSpace(buffer[i]) {
		i--
	}
	return i
}

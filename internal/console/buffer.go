package console

import (
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
)

// inputBuffer adapts a textinput to completion.Buffer. The textinput cursor
// counts runes while the engine works in bytes.
type inputBuffer struct {
	input     *textinput.Model
	anchor    string
	anchorSet bool
}

func (b *inputBuffer) Value() string { return b.input.Value() }

func (b *inputBuffer) Caret() int { return byteOffset(b.input.Value(), b.input.Position()) }

func (b *inputBuffer) Anchor() (string, bool) { return b.anchor, b.anchorSet }

func (b *inputBuffer) SetAnchor(anchor string) {
	b.anchor = anchor
	b.anchorSet = true
}

func (b *inputBuffer) ClearAnchor() {
	b.anchor = ""
	b.anchorSet = false
}

func (b *inputBuffer) Replace(start, length int, text string) {
	v := b.input.Value()
	start = min(max(start, 0), len(v))
	end := min(max(start+length, start), len(v))
	next := v[:start] + text + v[end:]
	b.input.SetValue(next)
	b.input.SetCursor(utf8.RuneCountInString(next[:start+len(text)]))
}

// set replaces the whole value as a user edit, dropping the anchor.
func (b *inputBuffer) set(value string) {
	b.input.SetValue(value)
	b.input.CursorEnd()
	b.ClearAnchor()
}

// byteOffset converts a rune position in s to a byte offset.
func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	i := 0
	for n := 0; n < runes && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

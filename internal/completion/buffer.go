package completion

// Buffer is the editable text the engine completes in place. Offsets are byte
// offsets into Value.
//
// The anchor is the prefix the user typed before cycling began. Owners must
// clear it on every edit that does not come from the engine.
type Buffer interface {
	Value() string
	Caret() int
	Anchor() (string, bool)
	SetAnchor(anchor string)
	// Replace swaps length bytes at start for text and moves the caret to the
	// end of the inserted text.
	Replace(start, length int, text string)
}

// TextBuffer is a plain in-memory Buffer.
type TextBuffer struct {
	text      string
	caret     int
	anchor    string
	anchorSet bool
}

// NewTextBuffer creates a buffer holding text with the caret at caret.
func NewTextBuffer(text string, caret int) *TextBuffer {
	b := &TextBuffer{}
	b.SetText(text, caret)
	return b
}

// Value returns the buffer contents.
func (b *TextBuffer) Value() string { return b.text }

// Caret returns the caret byte offset.
func (b *TextBuffer) Caret() int { return b.caret }

// Anchor returns the remembered cycling prefix.
func (b *TextBuffer) Anchor() (string, bool) { return b.anchor, b.anchorSet }

// SetAnchor remembers the cycling prefix.
func (b *TextBuffer) SetAnchor(anchor string) {
	b.anchor = anchor
	b.anchorSet = true
}

// ClearAnchor forgets the cycling prefix.
func (b *TextBuffer) ClearAnchor() {
	b.anchor = ""
	b.anchorSet = false
}

// Replace implements Buffer.
func (b *TextBuffer) Replace(start, length int, text string) {
	start = clamp(start, 0, len(b.text))
	end := clamp(start+length, start, len(b.text))
	b.text = b.text[:start] + text + b.text[end:]
	b.caret = start + len(text)
}

// SetText replaces the whole buffer as a user edit would, clearing the anchor.
func (b *TextBuffer) SetText(text string, caret int) {
	b.text = text
	b.caret = clamp(caret, 0, len(text))
	b.ClearAnchor()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

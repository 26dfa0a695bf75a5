package console

import (
	"testing"

	"charm.land/bubbles/v2/textinput"
	"github.com/stretchr/testify/assert"
)

func TestByteOffset(t *testing.T) {
	tests := []struct {
		s     string
		runes int
		want  int
	}{
		{"abc", 2, 2},
		{"héllo", 2, 3},
		{"héllo", 5, 6},
		{"héllo", 9, 6},
		{"", 1, 0},
		{"abc", -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, byteOffset(tt.s, tt.runes), "%q@%d", tt.s, tt.runes)
	}
}

func TestInputBufferReplace(t *testing.T) {
	ti := textinput.New()
	b := &inputBuffer{input: &ti}
	b.set("é + ab + x")
	b.SetAnchor("ab")

	b.Replace(5, 2, "abc")
	assert.Equal(t, "é + abc + x", b.Value())
	assert.Equal(t, 8, b.Caret())
	anchor, set := b.Anchor()
	assert.True(t, set, "engine replacements keep the anchor")
	assert.Equal(t, "ab", anchor)

	b.Replace(50, 3, "!")
	assert.Equal(t, "é + abc + x!", b.Value())

	b.set("y")
	_, set = b.Anchor()
	assert.False(t, set)
}

package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindToken(t *testing.T) {
	tests := []struct {
		name          string
		buffer        string
		lookup        int
		includeSpaces bool
		wantStart     int
		wantLen       int
	}{
		{"empty", "", 0, true, 0, 0},
		{"caret_at_start_takes_whole_word", "instance", 0, true, 0, 8},
		{"caret_at_end", "instance", 8, true, 0, 8},
		{"caret_past_end_clamped", "abc", 99, true, 0, 3},
		{"negative_clamped", "abc", -4, true, 0, 3},
		{"after_dot", "foo.", 4, true, 4, 0},
		{"member_partial", "foo.Cym", 7, true, 4, 3},
		{"caret_mid_token_extends_right", "foo.Cymidine", 6, true, 4, 8},
		{"space_is_boundary", "a = bc", 6, true, 4, 2},
		{"space_inside_link_in_chain_mode", "x = foo .y", 7, false, 3, 5},
		{"after_paren", "f(ab", 4, true, 2, 2},
		{"operators", "a+b*c%d", 7, true, 6, 1},
		{"brackets", "arr[idx", 7, true, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, length := FindToken(tt.buffer, tt.lookup, tt.includeSpaces)
			assert.Equal(t, tt.wantStart, start, "start")
			assert.Equal(t, tt.wantLen, length, "length")
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		start  int
		want   Kind
		op     int
	}{
		{"start_of_buffer", "foo", 0, KindRegular, -1},
		{"accessor", "foo.", 4, KindAccessor, 3},
		{"accessor_with_spaces", "foo . ", 6, KindAccessor, 4},
		{"method_open", "f(", 2, KindMethod, 1},
		{"method_comma", "f(a, ", 5, KindMethod, 3},
		{"assignment", "x=", 2, KindAssignment, 1},
		{"assignment_spaced", "x = ", 4, KindAssignment, 2},
		{"leading_equals", "=", 1, KindAssignment, 0},
		{"equality_is_regular", "x == ", 5, KindRegular, -1},
		{"compound_plus", "x += ", 5, KindRegular, -1},
		{"compound_mod", "x %= ", 5, KindRegular, -1},
		{"other_operator", "a + ", 4, KindRegular, -1},
		{"only_spaces_before", "   ", 3, KindRegular, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, op := Classify(tt.buffer, tt.start)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, tt.op, op)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "regular", KindRegular.String())
	assert.Equal(t, "accessor", KindAccessor.String())
	assert.Equal(t, "assignment", KindAssignment.String())
	assert.Equal(t, "method", KindMethod.String())
}

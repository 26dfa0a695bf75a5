// Package formatter renders command results and catalog tables for the
// terminal.
package formatter

import (
	"encoding/json"
	"fmt"
	"image/color"
	"reflect"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors of tables.
// Nil fields fall back to the defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, def color.Color) color.Color {
		if c == nil {
			return def
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
		Background(pick(tc.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
}

// SetTableTheme overrides the table styles.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

// ParseColor accepts an ANSI 256 code ("0".."255") or a hex color ("#fa0",
// "#ffaa00"). An empty string yields nil, the default.
func ParseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return nil, fmt.Errorf("invalid hex color %q", s)
		}
		for _, r := range s[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return nil, fmt.Errorf("invalid hex color %q", s)
			}
		}
		return lipgloss.Color(s), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return nil, fmt.Errorf("invalid color %q (expected 0-255 or #rrggbb)", s)
	}
	return lipgloss.Color(s), nil
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Stringify returns a single-line representation of a command result.
// Strings are quoted, Stringers use their String form, and composite values
// are rendered as compact JSON.
func Stringify(v any) string {
	if v == nil {
		return "nil"
	}
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(t)
	case error:
		return t.Error()
	case fmt.Stringer:
		return escapeNewlines(t.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only composite kinds need JSON
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return "nil"
		}
		return Stringify(rv.Elem().Interface())
	case reflect.Func:
		return rv.Type().String()
	}
	return escapeNewlines(fmt.Sprintf("%v", v))
}

// escapeNewlines keeps output on one line.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}

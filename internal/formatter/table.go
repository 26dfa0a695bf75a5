package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TableOptions controls RenderTable.
type TableOptions struct {
	NoColor bool
	// MaxWidth limits the total width; 0 disables truncation. Only the last
	// column shrinks.
	MaxWidth int
}

const columnGap = "  "

// RenderTable renders rows under header with columns sized to their content.
// The first column uses the key style, the rest the value style.
func RenderTable(header []string, rows [][]string, opts TableOptions) string {
	if len(header) == 0 {
		return ""
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(header) && i < len(row); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	if opts.MaxWidth > 0 {
		total := len(columnGap) * (len(widths) - 1)
		for _, w := range widths {
			total += w
		}
		if over := total - opts.MaxWidth; over > 0 {
			last := len(widths) - 1
			widths[last] = max(widths[last]-over, 5)
		}
	}

	var b strings.Builder
	for i, h := range header {
		cell := runewidth.FillRight(h, widths[i])
		if !opts.NoColor {
			cell = headerStyle.Render(cell)
		}
		writeCell(&b, i, cell)
	}
	b.WriteByte('\n')

	total := len(columnGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	sep := strings.Repeat("─", total)
	if !opts.NoColor {
		sep = separatorStyle.Render(sep)
	}
	b.WriteString(sep)
	b.WriteByte('\n')

	for _, row := range rows {
		for i := range header {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cell := runewidth.FillRight(truncate(val, widths[i]), widths[i])
			if i == len(header)-1 {
				cell = strings.TrimRight(cell, " ")
			}
			if !opts.NoColor {
				if i == 0 {
					cell = keyStyle.Render(cell)
				} else {
					cell = valueStyle.Render(cell)
				}
			}
			writeCell(&b, i, cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeCell(b *strings.Builder, i int, cell string) {
	if i > 0 {
		b.WriteString(columnGap)
	}
	b.WriteString(cell)
}

// truncate shortens s to width display cells, ending with "..." when cut.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

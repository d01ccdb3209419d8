package cli

import (
	"strings"
	"unicode/utf8"
)

// Table lays out rows in aligned columns. Cells may contain ANSI colour
// sequences; only visible characters count towards column widths.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // Maximum width per column index (0 = no limit)
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		rows:      make([][]string, 0),
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth wraps cells of a column that are wider than maxWidth.
func (t *Table) SetColumnMaxWidth(colIndex int, maxWidth int) {
	t.maxWidths[colIndex] = maxWidth
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	normalised := make([]string, len(t.headers))
	copy(normalised, row)
	t.rows = append(t.rows, normalised)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	cells := t.wrappedCells()
	widths := t.columnWidths(cells)
	sep := strings.Repeat(" ", t.padding)

	var b strings.Builder
	writeLine := func(parts []string) {
		for i, p := range parts {
			parts[i] = padRight(p, widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		b.WriteString("\n")
	}

	writeLine(append([]string(nil), t.headers...))

	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	writeLine(dashes)

	for _, row := range cells {
		lines := 1
		for _, cell := range row {
			lines = max(lines, len(cell))
		}
		for l := range lines {
			parts := make([]string, len(row))
			for i, cell := range row {
				if l < len(cell) {
					parts[i] = cell[l]
				}
			}
			writeLine(parts)
		}
	}

	return b.String()
}

// wrappedCells splits every cell into display lines.
func (t *Table) wrappedCells() [][][]string {
	out := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = make([][]string, len(row))
		for c, cell := range row {
			out[r][c] = wrapText(cell, t.maxWidths[c])
		}
	}
	return out
}

// columnWidths returns the visible width of each column.
func (t *Table) columnWidths(cells [][][]string) []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			for _, line := range cell {
				widths[i] = max(widths[i], visibleWidth(line))
			}
		}
	}
	return widths
}

// visibleWidth counts the runes of s that are not part of ANSI escape sequences.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\033':
			inEscape = true
		default:
			width++
		}
	}
	return width
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// wrapText splits text into lines of at most width runes, preferring word
// boundaries. Text with colour sequences, or a width of zero, is left whole.
func wrapText(text string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(text) <= width || strings.ContainsRune(text, '\033') {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:width]))
			word = string(runes[width:])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}

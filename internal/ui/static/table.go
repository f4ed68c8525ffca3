// Package static renders the non-interactive tables and field lists that
// repops commands print to stdout.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	bodyCell   = lipgloss.NewStyle().PaddingRight(2)
	fieldLabel = lipgloss.NewStyle().Bold(true)
)

// RenderTable renders rows under bold headers in aligned, borderless
// columns. It returns "" when there are no rows so callers can skip
// empty sections.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		})

	return t.String() + "\n"
}

// Field is one labelled line of a RenderFields block.
type Field struct {
	Label string
	Value string
}

// RenderFields renders "Label: value" lines with all values starting in
// the same column.
func RenderFields(fields ...Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(fieldLabel.Render(f.Label + ":"))
		b.WriteString(strings.Repeat(" ", width-lipgloss.Width(f.Label)+1))
		b.WriteString(f.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

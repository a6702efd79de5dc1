package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// linesPerItem is the number of terminal lines each day occupies.
const linesPerItem = 2

// renderList renders the left panel: one entry per visible day.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No days")
	}

	var lines []string
	for i, r := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatRowLine(r, m.kinds, m.focusKind(), width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatRowLine formats a day as two lines:
//
//	line 1: [>] date  total (focused kind count)
//	line 2:    label n, label n, ... (dimmed)
func formatRowLine(r tally.Row, kinds []activity.Kind, focus activity.Kind, width int, selected bool) []string {
	total := 0
	var parts []string
	for _, k := range kinds {
		if n := r.Counts[k]; n > 0 {
			total += n
			parts = append(parts, fmt.Sprintf("%s %d", k.Label(), n))
		}
	}

	line1 := fmt.Sprintf("%s %5d", styleDate.Render(r.Day.String()), total)
	if focus != "" {
		line1 += " " + styleFocusKind.Render(fmt.Sprintf("%s %d", focus.Label(), r.Counts[focus]))
	}
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	detail := strings.Join(parts, ", ")
	detailMax := width - 4
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "…")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(detail)

	return []string{line1, line2}
}

// filterRows keeps the rows whose date starts with prefix and, when focus is
// set, that have at least one event of that kind.
func filterRows(rows []tally.Row, prefix string, focus activity.Kind) []tally.Row {
	prefix = strings.TrimSpace(prefix)
	var out []tally.Row
	for _, r := range rows {
		if prefix != "" && !strings.HasPrefix(r.Day.String(), prefix) {
			continue
		}
		if focus != "" && r.Counts[focus] == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// dayDetail renders the right panel for one day: every present kind with its
// count and a bar scaled to the busiest kind of that day.
func dayDetail(r tally.Row, kinds []activity.Kind, focus activity.Kind, width int) string {
	labelW, peak := 0, 0
	for _, k := range kinds {
		if w := runewidth.StringWidth(k.Label()); w > labelW {
			labelW = w
		}
		if n := r.Counts[k]; n > peak {
			peak = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", styleDate.Render(r.Day.String()))
	barMax := width - labelW - 10
	if barMax < 1 {
		barMax = 1
	}
	for _, k := range kinds {
		n := r.Counts[k]
		if n == 0 {
			continue
		}
		label := runewidth.FillRight(k.Label(), labelW)
		if k == focus {
			label = styleFocusKind.Render(label)
		}
		bar := n * barMax / peak
		if bar < 1 {
			bar = 1
		}
		fmt.Fprintf(&b, "%s %6d %s\n", label, n, styleBar.Render(strings.Repeat("█", bar)))
	}
	return b.String()
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}

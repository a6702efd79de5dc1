package tui

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/export"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

type Options struct {
	Title string
	// Focus preselects a kind; empty shows all kinds.
	Focus activity.Kind
}

// message types

type copiedMsg struct {
	day string
	err error
}

// model

type model struct {
	title       string
	kinds       []activity.Kind
	rows        []tally.Row
	visible     []tally.Row
	focus       int // index into kinds, -1 for none
	filter      string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	width       int
	height      int
	ready       bool
	quitting    bool
	status      string
	copyFn      func(string) error
}

func initialModel(t *tally.Table, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter by date (e.g. 2020-03)..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 10

	m := model{
		title:       opts.Title,
		kinds:       t.Kinds(),
		rows:        t.Rows(),
		focus:       -1,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		copyFn:      clipboard.WriteAll,
	}
	for i, k := range m.kinds {
		if k == opts.Focus {
			m.focus = i
		}
	}
	m.refilter()
	return m
}

// Run starts the browser and blocks until it exits.
func Run(t *tally.Table, opts Options) error {
	p := tea.NewProgram(initialModel(t, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.showCurrent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Copy):
			if r, ok := m.current(); ok {
				return m, m.copyRow(r)
			}
			return m, nil

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.showCurrent()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.showCurrent()
			}
			return m, nil

		case key.Matches(msg, keys.NextKind):
			m.cycleFocus(1)
			return m, nil

		case key.Matches(msg, keys.PrevKind):
			m.cycleFocus(-1)
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		if v := m.filterInput.Value(); v != m.filter {
			m.filter = v
			m.refilter()
		}
		return m, tiCmd

	case tea.MouseMsg:
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}
		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := len(m.visible) - m.panelHeight()/linesPerItem
			if m.listOffset < maxOffset {
				m.listOffset++
			}
		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.visible) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				m.showCurrent()
			}
		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.day
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) focusKind() activity.Kind {
	if m.focus < 0 || m.focus >= len(m.kinds) {
		return ""
	}
	return m.kinds[m.focus]
}

// cycleFocus steps through "all kinds" and then each present kind.
func (m *model) cycleFocus(step int) {
	n := len(m.kinds) + 1
	m.focus = ((m.focus+1+step)%n+n)%n - 1
	m.refilter()
}

func (m *model) refilter() {
	m.visible = filterRows(m.rows, m.filter, m.focusKind())
	m.cursor = 0
	m.listOffset = 0
	m.showCurrent()
}

func (m model) current() (tally.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return tally.Row{}, false
	}
	return m.visible[m.cursor], true
}

func (m *model) showCurrent() {
	r, ok := m.current()
	if !ok {
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(dayDetail(r, m.kinds, m.focusKind(), m.previewWidth()))
	m.preview.GotoTop()
}

func (m model) copyRow(r tally.Row) tea.Cmd {
	day := r.Day.String()
	text, err := rowCSV(r, m.kinds)
	if err != nil {
		return func() tea.Msg { return copiedMsg{day: day, err: err} }
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		return copiedMsg{day: day, err: copyFn(text)}
	}
}

// rowCSV renders the header and one day as CSV, using the same columns as
// the exported file.
func rowCSV(r tally.Row, kinds []activity.Kind) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(export.Header(kinds)); err != nil {
		return "", err
	}
	if err := w.Write(export.Record(r, kinds)); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	focus := "all kinds"
	if k := m.focusKind(); k != "" {
		focus = k.Label()
	}
	parts := []string{fmt.Sprintf("%d/%d days", len(m.visible), len(m.rows))}
	if m.title != "" {
		parts = append([]string{m.title}, parts...)
	}
	parts = append(parts,
		"focus "+focus,
		"tab/S-tab kind",
		"C-u/C-d detail",
		"Enter copy row",
		"Esc quit",
	)
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

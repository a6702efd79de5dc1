package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/archive"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// KindTotal is one kind's line in a summary.
type KindTotal struct {
	Label string `json:"label" yaml:"label"`
	Total int    `json:"total" yaml:"total"`
	Days  int    `json:"days" yaml:"days"`
	First string `json:"first" yaml:"first"`
	Last  string `json:"last" yaml:"last"`
}

type Summary struct {
	RunID     string      `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Archive   string      `json:"archive,omitempty" yaml:"archive,omitempty"`
	User      string      `json:"user,omitempty" yaml:"user,omitempty"`
	Files     int         `json:"files" yaml:"files"`
	Events    int         `json:"events" yaml:"events"`
	Ambiguous bool        `json:"ambiguous" yaml:"ambiguous"`
	Kinds     []KindTotal `json:"kinds" yaml:"kinds"`
	Missing   []string    `json:"missing" yaml:"missing"`
}

// NewSummary fills Kinds and Missing from t. Kinds are in display order.
// Missing only names kinds a single archive file stands for.
func NewSummary(t *tally.Table) Summary {
	s := Summary{Kinds: []KindTotal{}, Missing: []string{}}
	per := make(map[activity.Kind]*KindTotal)
	for _, c := range t.Cells() {
		kt := per[c.Kind]
		if kt == nil {
			kt = &KindTotal{Label: c.Kind.Label(), First: c.Day.String()}
			per[c.Kind] = kt
		}
		kt.Total += c.Count
		kt.Days++
		kt.Last = c.Day.String()
	}
	for _, k := range t.Kinds() {
		s.Kinds = append(s.Kinds, *per[k])
		s.Events += per[k].Total
	}
	for _, k := range archive.PlainKinds() {
		if per[k] == nil {
			s.Missing = append(s.Missing, k.Label())
		}
	}
	return s
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// WriteSummary renders s to w in format f.
func WriteSummary(w io.Writer, s Summary, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(s))
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// Text is the human summary: one line per kind with dates, then the kinds
// that have none.
func Text(s Summary) string {
	var b strings.Builder

	header := "activity summary"
	if s.RunID != "" {
		header += " " + s.RunID
	}
	b.WriteString(styleHeader.Render(header) + "\n")
	if s.Archive != "" {
		b.WriteString(styleDim.Render(fmt.Sprintf("archive %s  user %q  files %d", s.Archive, s.User, s.Files)) + "\n")
	}

	width := 0
	for _, k := range s.Kinds {
		if w := runewidth.StringWidth(k.Label); w > width {
			width = w
		}
	}
	for _, k := range s.Kinds {
		label := runewidth.FillRight(k.Label, width)
		fmt.Fprintf(&b, "  %s  %6d events on %4d days  %s\n",
			styleLabel.Render(label), k.Total, k.Days, styleDim.Render(k.First+" .. "+k.Last))
	}
	fmt.Fprintf(&b, "  total %d events\n", s.Events)

	if len(s.Missing) > 0 {
		b.WriteString(styleDim.Render("no dates: "+strings.Join(s.Missing, ", ")) + "\n")
	}
	if s.Ambiguous {
		b.WriteString(styleWarn.Render("note: no messages matched the user name; received messages are reported as "+
			activity.MessageSentOrReceived.Label()) + "\n")
	}
	return b.String()
}

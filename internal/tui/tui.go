// Package tui is the terminal version of the resolution check page.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/straja-ai/resocheck/internal/analyzer"
	"github.com/straja-ai/resocheck/internal/share"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

const copiedFor = 1200 * time.Millisecond

type copiedExpiredMsg struct{ seq int }

// Options configure a Model.
type Options struct {
	// Prefill is placed in the editor and assessed immediately when non-empty.
	Prefill string
	// ShareBaseURL is the page URL share links are built from.
	ShareBaseURL string
}

// Model is the bubbletea model for the page.
type Model struct {
	input     textarea.Model
	shareBase string
	result    *analyzer.Result
	copied    bool
	copySeq   int
	width     int
	styles    Styles
}

// New builds a Model.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "e.g. Run 3x/week for 30 minutes"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.Focus()

	m := Model{
		input:     ta,
		shareBase: opts.ShareBaseURL,
		styles:    DefaultStyles(),
	}
	if opts.Prefill != "" {
		m.input.SetValue(opts.Prefill)
		m.assess()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil

	case copiedExpiredMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+s", "alt+enter":
			m.assess()
			return m, nil
		case "ctrl+l":
			m.input.Reset()
			m.result = nil
			return m, nil
		case "ctrl+y":
			return m, m.copyShareLink()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) assess() {
	res := analyzer.Analyze(m.input.Value())
	m.result = &res
}

// ShareLink is the link for the current editor contents.
func (m Model) ShareLink() string {
	link, err := share.Link(m.shareBase, m.input.Value())
	if err != nil {
		return ""
	}
	return link
}

func (m *Model) copyShareLink() tea.Cmd {
	link := m.ShareLink()
	if link == "" {
		return nil
	}
	if err := clipboardWriteAll(link); err != nil {
		return nil
	}
	m.copied = true
	m.copySeq++
	seq := m.copySeq
	return tea.Tick(copiedFor, func(time.Time) tea.Msg { return copiedExpiredMsg{seq: seq} })
}

// Result returns the last assessment, if any.
func (m Model) Result() (analyzer.Result, bool) {
	if m.result == nil {
		return analyzer.Result{}, false
	}
	return *m.result, true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Resolution Reality Check"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Type a New Year's resolution and find out if it's achievable."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	shareLabel := "ctrl+y share"
	if m.copied {
		shareLabel = m.styles.Copied.Render("Link copied!")
	}
	b.WriteString(m.styles.Help.Render("ctrl+s assess • " + shareLabel + " • ctrl+l clear • esc quit"))
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(RenderResult(m.styles, *m.result))
	}
	return b.String()
}

// RenderResult formats a Result as a verdict pill followed by its text.
func RenderResult(s Styles, r analyzer.Result) string {
	var b strings.Builder
	b.WriteString(s.Pill(r.Verdict).Render(r.Tag))
	b.WriteString("\n\n")
	b.WriteString(s.Headline.Render(r.Headline))
	b.WriteString("\n")
	b.WriteString(r.Advice)
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("Score: %d/100", r.Score)))
	b.WriteString("\n")
	return b.String()
}

// Styles holds the lipgloss styles used by the page.
type Styles struct {
	Title    lipgloss.Style
	Headline lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Copied   lipgloss.Style
	Ok       lipgloss.Style
	Warn     lipgloss.Style
	Nope     lipgloss.Style
}

// DefaultStyles returns the page palette.
func DefaultStyles() Styles {
	pill := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Headline: lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Copied:   lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D")),
		Ok:       pill.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#16A34A")),
		Warn:     pill.Foreground(lipgloss.Color("#1F2937")).Background(lipgloss.Color("#F59E0B")),
		Nope:     pill.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC2626")),
	}
}

// Pill picks the badge style for a verdict.
func (s Styles) Pill(v analyzer.Verdict) lipgloss.Style {
	switch v.Badge() {
	case "ok":
		return s.Ok
	case "warn":
		return s.Warn
	default:
		return s.Nope
	}
}

// Run starts the program on the terminal.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts)).Run()
	return err
}

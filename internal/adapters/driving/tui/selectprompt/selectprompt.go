// Package selectprompt provides the interactive pre-run download prompt:
// everything new, a bounded batch from either end, or one explicit video.
package selectprompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// phase tracks which question the prompt is on.
type phase int

const (
	phaseMode phase = iota
	phaseCount
	phaseVideoID
)

// option is one selectable download mode.
type option struct {
	label string
	mode  domain.SelectionMode
	asks  phase // phaseMode when no follow-up question is needed
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model for the selection prompt.
type Model struct {
	channel  string
	newCount int

	phase     phase
	options   []option
	cursor    int
	input     textinput.Model
	errMsg    string
	selection domain.Selection
	done      bool
	cancelled bool
}

// New creates the prompt for a channel with newCount undownloaded videos.
func New(channel string, newCount int) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24

	return Model{
		channel:  channel,
		newCount: newCount,
		options: []option{
			{label: "Download all new videos", mode: domain.SelectAllNew},
			{label: "Download the N oldest new videos", mode: domain.SelectOldest, asks: phaseCount},
			{label: "Download the N newest new videos", mode: domain.SelectNewest, asks: phaseCount},
			{label: "Download a single video by ID", mode: domain.SelectSingle, asks: phaseVideoID},
		},
		input: ti,
	}
}

// Selection returns the chosen selection and whether the prompt was
// cancelled. Only meaningful after the program has finished.
func (m Model) Selection() (domain.Selection, bool) {
	return m.selection, m.cancelled
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	if m.phase == phaseMode {
		return m.updateMode(keyMsg)
	}
	return m.updateInput(keyMsg)
}

func (m Model) updateMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}

	case "enter":
		opt := m.options[m.cursor]
		m.selection.Mode = opt.mode
		if opt.asks == phaseMode {
			m.done = true
			return m, tea.Quit
		}
		m.phase = opt.asks
		m.errMsg = ""
		m.input.SetValue("")
		if opt.asks == phaseCount {
			m.input.Placeholder = fmt.Sprintf("1-%d", m.newCount)
		} else {
			m.input.Placeholder = "video ID"
		}
		return m, m.input.Focus()
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseMode
		m.errMsg = ""
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.phase == phaseCount {
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				m.errMsg = "enter a positive number"
				return m, nil
			}
			if n > m.newCount {
				n = m.newCount
			}
			m.selection.Count = n
		} else {
			if value == "" {
				m.errMsg = "enter a video ID"
				return m, nil
			}
			m.selection.VideoID = value
		}
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.channel))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d new videos available", m.newCount)))
	b.WriteString("\n\n")

	if m.phase == phaseMode {
		for i, opt := range m.options {
			cursor := "  "
			label := opt.label
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
				label = cursorStyle.Render(label)
			}
			b.WriteString(cursor + label + "\n")
		}
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("↑/↓ move · enter select · q quit"))
	} else {
		question := "How many?"
		if m.phase == phaseVideoID {
			question = "Which video?"
		}
		b.WriteString(question + " " + m.input.View() + "\n")
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("enter confirm · esc back"))
	}

	b.WriteString("\n")
	return b.String()
}

// Run blocks on the prompt and returns the chosen selection.
// The second return is true when the user cancelled.
func Run(channel string, newCount int) (domain.Selection, bool, error) {
	final, err := tea.NewProgram(New(channel, newCount)).Run()
	if err != nil {
		return domain.Selection{}, false, fmt.Errorf("running selection prompt: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return domain.Selection{}, true, nil
	}
	sel, cancelled := model.Selection()
	return sel, cancelled, nil
}

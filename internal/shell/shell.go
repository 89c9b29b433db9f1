package shell

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// resultMsg carries the output of one dispatched command.
type resultMsg struct {
	output string
	quit   bool
}

// Model is the bubbletea model for the interactive shell.
type Model struct {
	rt       *Runtime
	input    textinput.Model
	banner   string
	lines    []string // entered command lines, for up/down recall
	histIdx  int
	draft    string // line being typed before history browsing started
	busy     bool
	quitting bool
}

// New creates the shell model.
func New(rt *Runtime, banner string) Model {
	ti := textinput.New()
	ti.Prompt = rt.Config.Prompt
	if rt.Color {
		ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	}
	ti.Placeholder = "curl http://localhost:8080/json"
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		rt:      rt,
		input:   ti,
		banner:  banner,
		histIdx: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.Println(m.banner), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			line := m.input.Value()
			m.input.SetValue("")
			m.histIdx = -1
			m.draft = ""

			echo := m.input.Prompt + line
			if line != "" {
				m.lines = append(m.lines, line)
			}

			m.busy = true
			return m, tea.Sequence(tea.Println(echo), dispatchCmd(m.rt, line))

		case "up":
			if len(m.lines) == 0 || m.busy {
				return m, nil
			}
			if m.histIdx == -1 {
				m.draft = m.input.Value()
				m.histIdx = len(m.lines) - 1
			} else if m.histIdx > 0 {
				m.histIdx--
			}
			m.input.SetValue(m.lines[m.histIdx])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if m.histIdx == -1 || m.busy {
				return m, nil
			}
			if m.histIdx < len(m.lines)-1 {
				m.histIdx++
				m.input.SetValue(m.lines[m.histIdx])
			} else {
				m.histIdx = -1
				m.input.SetValue(m.draft)
			}
			m.input.CursorEnd()
			return m, nil
		}

	case resultMsg:
		m.busy = false
		var cmds []tea.Cmd
		if msg.output != "" {
			cmds = append(cmds, tea.Println(msg.output))
		}
		if msg.quit {
			m.quitting = true
			cmds = append(cmds, tea.Quit)
		}
		return m, tea.Sequence(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.busy {
		return m.input.Prompt + "..."
	}
	return m.input.View()
}

// dispatchCmd runs one command line off the UI loop. The busy flag
// guarantees a single command in flight, so Runtime needs no locking.
func dispatchCmd(rt *Runtime, line string) tea.Cmd {
	return func() tea.Msg {
		output, quit := rt.Dispatch(line)
		return resultMsg{output: output, quit: quit}
	}
}

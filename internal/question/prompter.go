package question

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cyanprint/cyancore/internal/state"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TUIPrompter is the interactive Prompter, one Bubble Tea program per
// question. The widget it shows adapts to the question's Kind: a text
// field for text/password, a yes/no toggle for bool, and a cursor-driven
// list for select/checkbox. date is accepted as free-form text (the remote
// validator is the source of truth for format).
type TUIPrompter struct{}

// Ask implements Prompter.
func (TUIPrompter) Ask(ctx context.Context, q Question) (state.Answer, error) {
	m := newPromptModel(q)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return state.Answer{}, err
	}

	final := finalModel.(promptModel)
	if final.cancelled {
		return state.Answer{}, ErrCancelled
	}
	return final.answer(), nil
}

type promptModel struct {
	q Question

	input     textinput.Model
	boolValue bool
	cursor    int
	selected  map[int]bool

	cancelled bool
	done      bool
}

func newPromptModel(q Question) promptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	if q.Kind == KindPassword {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}

	return promptModel{
		q:        q,
		input:    ti,
		selected: make(map[int]bool),
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	}

	switch m.q.Kind {
	case KindBool:
		switch keyMsg.String() {
		case "left", "right", " ", "tab":
			m.boolValue = !m.boolValue
		}
		return m, nil
	case KindSelect, KindCheckbox:
		switch keyMsg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.q.Options)-1 {
				m.cursor++
			}
		case " ":
			if m.q.Kind == KindCheckbox {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(keyMsg)
		return m, cmd
	}
}

func (m promptModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.q.Prompt))
	b.WriteString("\n")

	switch m.q.Kind {
	case KindBool:
		no, yes := "no", "yes"
		if m.boolValue {
			yes = cursorStyle.Render("> " + yes)
			no = "  " + no
		} else {
			no = cursorStyle.Render("> " + no)
			yes = "  " + yes
		}
		b.WriteString(no + "   " + yes)
	case KindSelect, KindCheckbox:
		for i, opt := range m.q.Options {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			mark := ""
			if m.q.Kind == KindCheckbox {
				mark = "[ ] "
				if m.selected[i] {
					mark = "[x] "
				}
			}
			b.WriteString(cursor + mark + opt + "\n")
		}
	default:
		b.WriteString(m.input.View())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter to confirm, esc to cancel"))
	return b.String()
}

func (m promptModel) answer() state.Answer {
	switch m.q.Kind {
	case KindBool:
		return state.NewBoolAnswer(m.boolValue)
	case KindSelect:
		if m.cursor < len(m.q.Options) {
			return state.NewStringAnswer(m.q.Options[m.cursor])
		}
		return state.NewStringAnswer("")
	case KindCheckbox:
		var chosen []string
		for i, opt := range m.q.Options {
			if m.selected[i] {
				chosen = append(chosen, opt)
			}
		}
		return state.NewStrArrayAnswer(chosen)
	default:
		return state.NewStringAnswer(m.input.Value())
	}
}

package prompt

import (
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt    string
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Mod == tea.ModCtrl && key.Code == 'c',
		key.Code == 'q', key.Code == tea.KeyEscape:
		m.cancelled = true
	case key.Code == 'y' || key.Code == 'Y':
		m.confirmed = true
	case key.Code == 'n' || key.Code == 'N', key.Code == tea.KeyEnter:
		// Enter defaults to no
		m.confirmed = false
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

// text is the prompt line, cleared once answered.
func (m confirmModel) text() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s [y/N] ", m.prompt)
}

func (m confirmModel) View() tea.View {
	return tea.NewView(m.text())
}

// Confirm shows a yes/no prompt on out, reading keys from in, and returns
// the user's choice. The default answer is "no".
func Confirm(in io.Reader, out io.Writer, prompt string) (ConfirmResult, error) {
	model := confirmModel{prompt: prompt}
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m := finalModel.(confirmModel)
	return ConfirmResult{
		Confirmed: m.confirmed,
		Cancelled: m.cancelled,
	}, nil
}

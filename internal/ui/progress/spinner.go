// Package progress shows progress on stderr while repops works through
// repositories: a bar for pipeline runs, whose length is known up front,
// and a spinner for availability checks.
package progress

import (
	"io"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/repops/repops/internal/ui/styles"
)

// Spinner shows an animated spinner next to a status message.
type Spinner struct {
	live *live[string]
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	updates <-chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, nextState(m.updates))
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(stateMsg[string]); ok {
		m.message = msg.state
		return m, nextState(m.updates)
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + m.message)
}

// NewSpinner returns a stopped spinner writing to out.
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{live: newLive(out, message, func(msg string, updates <-chan string) tea.Model {
		return spinnerModel{
			spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.PrimaryStyle)),
			message: msg,
			updates: updates,
		}
	})}
}

func (s *Spinner) Start() { s.live.start() }

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() { s.live.stop() }

func (s *Spinner) UpdateMessage(message string) { s.live.set(message) }

// Message returns the last message set.
func (s *Spinner) Message() string { return s.live.get() }

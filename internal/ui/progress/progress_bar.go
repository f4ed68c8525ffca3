package progress

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/repops/repops/internal/pipeline"
	"github.com/repops/repops/internal/ui/styles"
)

// barWidth is the width of the bar itself, excluding the counter.
const barWidth = 30

type barState struct {
	current int
	message string
}

// ProgressBar shows how many pipeline steps have started out of the total.
type ProgressBar struct {
	total int
	live  *live[barState]
}

type progressBarModel struct {
	bar     progress.Model
	total   int
	state   barState
	updates <-chan barState
}

func (m progressBarModel) Init() tea.Cmd {
	return nextState(m.updates)
}

func (m progressBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(stateMsg[barState]); ok {
		m.state = msg.state
		return m, nextState(m.updates)
	}
	var cmd tea.Cmd
	m.bar, cmd = m.bar.Update(msg)
	return m, cmd
}

func (m progressBarModel) View() tea.View {
	if m.state.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(render(m.bar.ViewAs(fraction(m.state.current, m.total)), m.state.current, m.total, m.state.message))
}

// fraction returns current/total clamped to [0, 1].
func fraction(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(current)/float64(total), 0), 1)
}

// render formats one frame: [████░░░░] 3/8 api: Git Pull
func render(bar string, current, total int, message string) string {
	return fmt.Sprintf("%s %d/%d %s", bar, current, total, message)
}

// NewProgressBar returns a stopped progress bar over total steps.
func NewProgressBar(out io.Writer, total int, message string) *ProgressBar {
	return &ProgressBar{
		total: total,
		live: newLive(out, barState{message: message}, func(s barState, updates <-chan barState) tea.Model {
			return progressBarModel{
				bar: progress.New(
					progress.WithWidth(barWidth),
					progress.WithoutPercentage(),
					progress.WithColors(styles.Primary, styles.Accent),
				),
				total:   total,
				state:   s,
				updates: updates,
			}
		}),
	}
}

func (p *ProgressBar) Start() { p.live.start() }

// Stop stops the bar and clears the line.
func (p *ProgressBar) Stop() { p.live.stop() }

// SetProgress updates the number of started steps and the message.
func (p *ProgressBar) SetProgress(current int, message string) {
	p.live.set(barState{current: current, message: message})
}

// Observe is a pipeline.Observer that reports each step as it starts.
func (p *ProgressBar) Observe(e pipeline.Event) {
	p.SetProgress(e.Index-1, fmt.Sprintf("%s: %s", e.Repo, e.Step))
}

func (p *ProgressBar) Total() int { return p.total }

// Current returns the last reported progress.
func (p *ProgressBar) Current() (int, string) {
	s := p.live.get()
	return s.current, s.message
}

package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// stopTimeout bounds how long Stop waits for the final frame.
const stopTimeout = 500 * time.Millisecond

// stateMsg carries a new display state into a running model.
type stateMsg[S any] struct{ state S }

// nextState returns a command that delivers the next update from ch, or
// quits the program once ch is closed.
func nextState[S any](ch <-chan S) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return stateMsg[S]{s}
	}
}

// live drives a Bubble Tea program that only renders: it reads no input,
// installs no signal handler, and redraws whenever set is called.
type live[S any] struct {
	out      io.Writer
	newModel func(initial S, updates <-chan S) tea.Model

	mu      sync.Mutex
	state   S
	running bool
	updates chan S
	done    chan struct{}
	program *tea.Program
}

func newLive[S any](out io.Writer, initial S, newModel func(S, <-chan S) tea.Model) *live[S] {
	return &live[S]{
		out:      out,
		newModel: newModel,
		state:    initial,
		updates:  make(chan S, 10),
		done:     make(chan struct{}),
	}
}

func (l *live[S]) start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running || l.program != nil {
		return
	}

	l.program = tea.NewProgram(l.newModel(l.state, l.updates),
		tea.WithoutSignalHandler(), tea.WithInput(nil), tea.WithOutput(l.out))
	l.running = true
	go func() {
		_, _ = l.program.Run()
		close(l.done)
	}()
}

// set records s and forwards it to the running program. Updates are
// dropped while the renderer is behind; the next one supersedes them.
func (l *live[S]) set(s S) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
	if !l.running {
		return
	}
	select {
	case l.updates <- s:
	default:
	}
}

func (l *live[S]) get() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// stop ends the program and clears its line. A live display cannot be
// restarted.
func (l *live[S]) stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	// Closed under the mutex so set never sends on a closed channel.
	close(l.updates)
	l.mu.Unlock()

	l.program.Quit()
	select {
	case <-l.done:
	case <-time.After(stopTimeout):
	}
	fmt.Fprint(l.out, "\r\033[K")
}

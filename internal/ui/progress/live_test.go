package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

// syncBuffer is a bytes.Buffer safe for the renderer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNextState(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 1)
	ch <- "api"
	if msg, ok := nextState(ch)().(stateMsg[string]); !ok || msg.state != "api" {
		t.Errorf("nextState() = %#v, want stateMsg{api}", msg)
	}

	close(ch)
	if _, ok := nextState(ch)().(tea.QuitMsg); !ok {
		t.Error("nextState() on a closed channel should quit")
	}
}

func TestLive_StartStop(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	s := NewSpinner(&out, "Checking api")
	s.Start()
	s.Start() // no-op while running
	s.UpdateMessage("Checking web")
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	s.Stop() // no-op once stopped

	if got := s.Message(); got != "Checking web" {
		t.Errorf("Message() = %q, want %q", got, "Checking web")
	}
	if !strings.Contains(out.String(), "\r\033[K") {
		t.Errorf("output should end by clearing the line, got %q", out.String())
	}

	s.UpdateMessage("after stop")
	if got := s.Message(); got != "after stop" {
		t.Errorf("Message() after stop = %q", got)
	}
}

package progress

import (
	"io"
	"testing"

	"github.com/repops/repops/internal/pipeline"
)

func TestProgressBar_New(t *testing.T) {
	pb := NewProgressBar(io.Discard, 100, "Test message")
	if pb.Total() != 100 {
		t.Errorf("expected total 100, got %d", pb.Total())
	}
}

func TestProgressBar_SetProgressBeforeStart(t *testing.T) {
	pb := NewProgressBar(io.Discard, 10, "Test")
	// Should not panic when setting progress before Start()
	pb.SetProgress(5, "Updated")
	if cur, msg := pb.Current(); cur != 5 || msg != "Updated" {
		t.Errorf("Current() = %d, %q, want 5, Updated", cur, msg)
	}
}

func TestProgressBar_StopBeforeStart(t *testing.T) {
	pb := NewProgressBar(io.Discard, 10, "Test")
	// Stop without Start should not panic
	pb.Stop()
}

func TestProgressBar_Observe(t *testing.T) {
	pb := NewProgressBar(io.Discard, 4, "")
	pb.Observe(pipeline.Event{Repo: "api", Step: "Git Pull", Index: 3, Total: 4})

	cur, msg := pb.Current()
	if cur != 2 || msg != "api: Git Pull" {
		t.Errorf("Current() = %d, %q, want 2, %q", cur, msg, "api: Git Pull")
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		current, total int
		want           float64
	}{
		{0, 4, 0},
		{2, 4, 0.5},
		{5, 4, 1},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := fraction(tt.current, tt.total); got != tt.want {
			t.Errorf("fraction(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	if got := render("[bar]", 3, 8, "api: Build"); got != "[bar] 3/8 api: Build" {
		t.Errorf("render() = %q", got)
	}
}

// Package history keeps a capped log of pipeline runs so earlier results
// can be listed after the terminal output is gone.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/repops/repops/internal/pipeline"
	"github.com/repops/repops/internal/storage"
)

// MaxEntries is the number of runs kept; older runs are dropped.
const MaxEntries = 50

// Entry summarizes one pipeline run.
type Entry struct {
	RunID        string        `json:"run_id"`
	Pipeline     string        `json:"pipeline"`
	Steps        []string      `json:"steps"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Repositories int           `json:"repositories"`
	Failed       []string      `json:"failed,omitempty"`
}

// History stores runs, most recent first.
type History struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.config/repops/history.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "repops", "history.json"), nil
}

// Load reads the history at path. A missing or corrupted file yields an
// empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, os.ErrNotExist):
			return &History{}, nil
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			// Corrupted - start fresh
			return &History{}, nil
		}
		return nil, err
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// Add records e as the most recent run, dropping the oldest entries
// beyond MaxEntries.
func (h *History) Add(e Entry) {
	h.Entries = append([]Entry{e}, h.Entries...)
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[:MaxEntries]
	}
}

// Find returns the run whose ID starts with prefix. An ambiguous prefix
// matches nothing.
func (h *History) Find(prefix string) (Entry, bool) {
	if prefix == "" {
		return Entry{}, false
	}
	matches := lo.Filter(h.Entries, func(e Entry, _ int) bool {
		return strings.HasPrefix(e.RunID, prefix)
	})
	if len(matches) != 1 {
		return Entry{}, false
	}
	return matches[0], true
}

// FromReport summarizes a run report.
func FromReport(rep *pipeline.Report) Entry {
	failed := lo.FilterMap(rep.Repositories, func(rr pipeline.RepoResult, _ int) (string, bool) {
		return rr.Name, rr.Failed()
	})
	return Entry{
		RunID:        rep.RunID,
		Pipeline:     rep.Pipeline,
		Steps:        rep.Steps,
		StartedAt:    rep.StartedAt,
		Duration:     rep.Duration,
		Repositories: len(rep.Repositories),
		Failed:       failed,
	}
}

// Record appends rep to the history file at path. Concurrent runs are
// serialized with a lock file next to it.
func Record(ctx context.Context, path string, rep *pipeline.Report) error {
	return storage.WithLock(ctx, path, func() error {
		h, err := Load(path)
		if err != nil {
			return err
		}
		h.Add(FromReport(rep))
		return h.Save(path)
	})
}

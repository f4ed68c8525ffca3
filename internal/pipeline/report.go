package pipeline

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// RepoResult is the outcome of one repository in a run.
type RepoResult struct {
	Name    string `json:"name"`
	Results []bool `json:"results"`
}

// Succeeded counts the steps that returned true.
func (r RepoResult) Succeeded() int {
	return lo.Count(r.Results, true)
}

// Failed reports whether a step returned false.
func (r RepoResult) Failed() bool {
	return lo.Contains(r.Results, false)
}

// Report describes a pipeline run.
type Report struct {
	RunID        string        `json:"run_id"`
	Pipeline     string        `json:"pipeline"`
	Steps        []string      `json:"steps"`
	Repositories []RepoResult  `json:"repositories"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
}

// Results returns the run as a name → outcomes map.
func (r *Report) Results() Results {
	return lo.SliceToMap(r.Repositories, func(rr RepoResult) (string, []bool) {
		return rr.Name, rr.Results
	})
}

// Failed reports whether any repository had a failing step.
func (r *Report) Failed() bool {
	return lo.SomeBy(r.Repositories, RepoResult.Failed)
}

// Summary returns one "<repo>: N/M operations succeeded" line per
// repository, in run order.
func (r *Report) Summary() []string {
	return lo.Map(r.Repositories, func(rr RepoResult, _ int) string {
		return fmt.Sprintf("%s: %d/%d operations succeeded", rr.Name, rr.Succeeded(), len(rr.Results))
	})
}

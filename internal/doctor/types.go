package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryTools represents missing command line tools.
	CategoryTools IssueCategory = "tools"
	// CategoryForge represents forge CLIs that cannot open pull requests.
	CategoryForge IssueCategory = "forge"
	// CategoryConfig represents repos file validation problems.
	CategoryConfig IssueCategory = "config"
)

// Categories lists the categories in display order.
var Categories = []IssueCategory{CategoryTools, CategoryForge, CategoryConfig}

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        `json:"key"`         // tool, server type or repos file
	Description string        `json:"description"` // human-readable description
	Hint        string        `json:"hint,omitempty"`
	Category    IssueCategory `json:"category"`
}

// Report is the outcome of a doctor run.
type Report struct {
	Checked int     `json:"checked"` // number of checks performed
	Issues  []Issue `json:"issues"`
}

// OK reports whether no issues were found.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// ByCategory returns the issues of one category in detection order.
func (r Report) ByCategory(c IssueCategory) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Category == c {
			out = append(out, issue)
		}
	}
	return out
}

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/repops/repops/internal/cmd/cmdtest"
	"github.com/repops/repops/internal/operation"
	"github.com/repops/repops/internal/repository"
)

// probe is a Step returning scripted outcomes per repository and counting calls.
type probe struct {
	name    string
	results map[string]bool
	err     error
	langs   []string
	calls   []string
}

func (p *probe) Name() string { return p.name }

func (p *probe) Supports(repo *repository.Repository) bool {
	return len(p.langs) == 0 || repo.HasLanguage(p.langs...)
}

func (p *probe) Execute(_ context.Context, repo *repository.Repository) (bool, error) {
	p.calls = append(p.calls, repo.Name)
	if p.err != nil {
		return false, p.err
	}
	ok, scripted := p.results[repo.Name]
	return ok || !scripted, nil
}

func repos(names ...string) []*repository.Repository {
	out := make([]*repository.Repository, len(names))
	for i, n := range names {
		out[i] = &repository.Repository{Name: n, LocalPath: "/src/" + n, DefaultBranch: "main", ServerType: repository.GitHub}
	}
	return out
}

func TestPipeline_ShortCircuit(t *testing.T) {
	t.Parallel()

	first := &probe{name: "first"}
	second := &probe{name: "second", results: map[string]bool{"api": false}}
	third := &probe{name: "third"}
	p := New("short", first, second, third)

	results, err := p.Execute(context.Background(), repos("api"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := results["api"]; !slices.Equal(got, []bool{true, false}) {
		t.Errorf("results[api] = %v, want [true false]", got)
	}
	if len(third.calls) != 0 {
		t.Errorf("third step called %d times, want 0", len(third.calls))
	}
}

func TestPipeline_Independence(t *testing.T) {
	t.Parallel()

	first := &probe{name: "first", results: map[string]bool{"a": false}}
	second := &probe{name: "second"}
	p := New("independent", first, second)

	results, err := p.Execute(context.Background(), repos("a", "b", "c"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := Results{
		"a": {false},
		"b": {true, true},
		"c": {true, true},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("Execute() = %v, want %v", results, want)
	}
	if !slices.Equal(second.calls, []string{"b", "c"}) {
		t.Errorf("second step calls = %v, want [b c]", second.calls)
	}
}

func TestPipeline_Unsupported(t *testing.T) {
	t.Parallel()

	lint := &probe{name: "lint", langs: []string{"python"}}
	after := &probe{name: "after"}
	rs := repos("py", "js")
	rs[0].Language = "Python"
	rs[1].Language = "javascript"

	results, err := New("lint", lint, after).Execute(context.Background(), rs)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := results["js"]; !slices.Equal(got, []bool{false}) {
		t.Errorf("results[js] = %v, want [false]", got)
	}
	if got := results["py"]; !slices.Equal(got, []bool{true, true}) {
		t.Errorf("results[py] = %v, want [true true]", got)
	}
	if slices.Contains(lint.calls, "js") {
		t.Error("unsupported step was executed")
	}
}

func TestPipeline_ErrorStopsRun(t *testing.T) {
	t.Parallel()

	boom := errors.New("cannot start process")
	first := &probe{name: "first"}
	failing := &probe{name: "failing", err: boom}
	p := New("broken", first, failing)

	results, err := p.Execute(context.Background(), repos("a", "b"))
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want %v", err, boom)
	}
	if got := err.Error(); got != "a: failing: cannot start process" {
		t.Errorf("error = %q", got)
	}
	if got := results["a"]; !slices.Equal(got, []bool{true}) {
		t.Errorf("results[a] = %v, want [true]", got)
	}
	if _, ok := results["b"]; ok {
		t.Error("repository b ran after the error")
	}
}

func TestPipeline_PullScenario(t *testing.T) {
	t.Parallel()

	rs := repos("repo1", "repo2")
	rs[0].Language = "python"
	rs[1].Language = "javascript"

	r := cmdtest.New()
	// cmdtest keys by command line, so distinguish by directory via a wrapper.
	runner := dirFailRunner{Runner: r, failDir: "/src/repo2"}
	env := operation.Env{Runner: runner}

	results, err := New("pull", env.Pull()).Execute(context.Background(), rs)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := Results{"repo1": {true}, "repo2": {false}}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("Execute() = %v, want %v", results, want)
	}
}

func TestPipeline_Builders(t *testing.T) {
	t.Parallel()

	a, b := &probe{name: "a"}, &probe{name: "b"}
	p := New("build").Add(a).Add(b)
	if p.Name() != "build" {
		t.Errorf("Name() = %q", p.Name())
	}
	steps := p.Steps()
	if len(steps) != 2 || steps[0] != a || steps[1] != b {
		t.Errorf("Steps() = %v", steps)
	}
	steps[0] = b
	if p.Steps()[0] != a {
		t.Error("Steps() exposes internal slice")
	}
}

func TestPipeline_Observer(t *testing.T) {
	t.Parallel()

	p := New("observed", &probe{name: "one"}, &probe{name: "two", results: map[string]bool{"a": false}})
	var events []Event
	p.Observe(func(e Event) { events = append(events, e) })

	if _, err := p.Execute(context.Background(), repos("a", "b")); err != nil {
		t.Fatal(err)
	}
	want := []Event{
		{Repo: "a", Step: "one", Index: 1, Total: 4},
		{Repo: "a", Step: "two", Index: 2, Total: 4},
		{Repo: "b", Step: "one", Index: 3, Total: 4},
		{Repo: "b", Step: "two", Index: 4, Total: 4},
	}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRun_Report(t *testing.T) {
	t.Parallel()

	p := New("nightly", &probe{name: "one"}, &probe{name: "two", results: map[string]bool{"b": false}})
	rep, err := p.Run(context.Background(), repos("a", "b"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := uuid.Parse(rep.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", rep.RunID, err)
	}
	if rep.Pipeline != "nightly" || !slices.Equal(rep.Steps, []string{"one", "two"}) {
		t.Errorf("Report = %+v", rep)
	}
	wantSummary := []string{
		"a: 2/2 operations succeeded",
		"b: 1/2 operations succeeded",
	}
	if got := rep.Summary(); !slices.Equal(got, wantSummary) {
		t.Errorf("Summary() = %v, want %v", got, wantSummary)
	}
	if !rep.Failed() {
		t.Error("Failed() = false, want true")
	}
	if !maps.EqualFunc(rep.Results(), Results{"a": {true, true}, "b": {true, false}}, slices.Equal) {
		t.Errorf("Results() = %v", rep.Results())
	}
}

func TestRun_ReportJSON(t *testing.T) {
	t.Parallel()

	rep, err := New("json", &probe{name: "one"}).Run(context.Background(), repos("a"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"run_id", "pipeline", "steps", "repositories", "started_at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON report missing %q: %s", key, data)
		}
	}
}

func TestRun_PartialReportOnError(t *testing.T) {
	t.Parallel()

	failing := &probe{name: "failing", err: errors.New("launch")}
	rep, err := New("partial", failing).Run(context.Background(), repos("a", "b"))
	if err == nil {
		t.Fatal("Run() error = nil, want error")
	}
	if len(rep.Repositories) != 1 || rep.Repositories[0].Name != "a" {
		t.Errorf("Repositories = %+v, want only a", rep.Repositories)
	}
}

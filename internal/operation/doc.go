// Package operation implements the units of work repops runs against a
// repository: pull, branch creation, lint, build, unit tests and pull
// request creation.
//
// Every kind is a value of [Op]; parameters live on the value and a single
// switch in [Op.Execute] dispatches to the kind's action. Applicability
// ([Op.Supports]) is plain data: the set of languages the kind accepts, or
// none for kinds that apply to every repository.
//
// A command that runs and exits non-zero is an expected failure: Execute
// logs the repository, the operation and the captured stderr, then returns
// false with a nil error. Only failures to start a process and context
// cancellation are returned as errors.
package operation

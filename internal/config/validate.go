package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/repops/repops/internal/repository"
)

// Valid enum values for settings fields.
var (
	ValidThemeNames = []string{"none", "default", "dracula", "nord"}
	ValidThemeModes = []string{"auto", "light", "dark"}
	ValidHookOn     = []string{"pull", "branch", "pr", "lint", "build", "test", "pipeline", "all"}
)

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateHooks checks every hook has a command and known "on" values.
func validateHooks(hooks map[string]Hook) error {
	names := make([]string, 0, len(hooks))
	for name := range hooks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		h := hooks[name]
		if strings.TrimSpace(h.Command) == "" {
			return fmt.Errorf("hook %q: command cannot be empty", name)
		}
		for _, on := range h.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidHookOn); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// validate checks repository struct tags. abspath and notblank are
// registered here so the rules live next to their messages.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("abspath", func(fl validator.FieldLevel) bool {
		return filepath.IsAbs(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// issueMessages lists validated fields in the order issues are reported.
var issueMessages = []struct {
	field string
	msg   string
}{
	{"LocalPath", "local path must be absolute"},
	{"URL", "URL cannot be empty"},
	{"DefaultBranch", "default branch cannot be empty"},
}

// repositoryIssues returns one message per rule r violates.
func repositoryIssues(r *repository.Repository) []string {
	var verrs validator.ValidationErrors
	if err := validate.Struct(r); !errors.As(err, &verrs) {
		return nil
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}

	var issues []string
	for _, im := range issueMessages {
		if failed[im.field] {
			issues = append(issues, fmt.Sprintf("Repository '%s': %s", r.Name, im.msg))
		}
	}
	return issues
}

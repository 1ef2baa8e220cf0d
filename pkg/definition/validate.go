package definition

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/matchers"
)

// identifierPattern restricts variable names to what templates can reference
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Problem is one validation finding in a definition. Warnings describe
// definitions that still generate, e.g. a cleanup rule that can never fire.
type Problem struct {
	Code    errors.ErrorCode
	Subject string
	Message string
	Warning bool
}

func (p Problem) String() string {
	if p.Subject == "" {
		return p.Message
	}
	return fmt.Sprintf("%s: %s", p.Subject, p.Message)
}

// Problems lists every validation finding, errors and warnings, in
// declaration order.
func (d *TemplateDefinition) Problems() []Problem {
	var problems []Problem
	add := func(code errors.ErrorCode, subject, format string, args ...interface{}) {
		problems = append(problems, Problem{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(subject, format string, args ...interface{}) {
		problems = append(problems, Problem{
			Code:    errors.ErrInvalidDefinition,
			Subject: subject,
			Message: fmt.Sprintf(format, args...),
			Warning: true,
		})
	}

	declared := make(map[string]Variable, len(d.Variables))
	for i, v := range d.Variables {
		subject := fmt.Sprintf("variables[%d]", i)
		if v.Name != "" {
			subject = fmt.Sprintf("variable %q", v.Name)
		}

		switch {
		case v.Name == "":
			add(errors.ErrInvalidDefinition, subject, "name is required")
		case !identifierPattern.MatchString(v.Name):
			add(errors.ErrInvalidDefinition, subject, "name must be a letter or underscore followed by letters, digits or underscores")
		}
		if _, dup := declared[v.Name]; dup && v.Name != "" {
			add(errors.ErrInvalidDefinition, subject, "declared more than once")
		}

		switch {
		case v.Default.IsMissing():
			add(errors.ErrInvalidDefinition, subject, "default is required")
		case !v.Default.IsSupported():
			add(errors.ErrUnsupportedVariableType, subject, "default %s is not a boolean, string or integer", v.Default)
		}

		if v.OnlyIf != nil {
			cond, ok := declared[v.OnlyIf.Name]
			switch {
			case !ok:
				add(errors.ErrInvalidDefinition, subject,
					"only_if refers to %q which is not declared before this variable", v.OnlyIf.Name)
			case !v.OnlyIf.Value.IsSupported():
				add(errors.ErrInvalidDefinition, subject, "only_if value %s is not a boolean, string or integer", v.OnlyIf.Value)
			case cond.Default.IsSupported() && cond.Default.Kind() != v.OnlyIf.Value.Kind():
				warn(subject,
					"only_if value is a %s but %q is a %s, the variable is never asked", v.OnlyIf.Value.Kind(), v.OnlyIf.Name, cond.Default.Kind())
			}
		}

		if len(v.Choices) > 0 && v.Default.IsSupported() {
			found := false
			for j, c := range v.Choices {
				if c.Kind() != v.Default.Kind() {
					add(errors.ErrInvalidDefinition, subject, "choice %d (%s) is not a %s like the default", j, c, v.Default.Kind())
				}
				if c.Equal(v.Default) {
					found = true
				}
			}
			if !found {
				warn(subject, "default %q is not one of the choices", v.Default)
			}
		}

		if v.Validation != "" {
			re, err := v.ValidationRegexp()
			switch {
			case v.Default.IsSupported() && v.Default.Kind() != KindString:
				add(errors.ErrInvalidDefinition, subject, "validation only applies to string variables")
			case err != nil:
				add(errors.ErrInvalidDefinition, subject, "invalid validation pattern: %v", err)
			case v.Default.Kind() == KindString && !re.MatchString(v.Default.Str()):
				warn(subject, "default %q does not match validation %q", v.Default.Str(), v.Validation)
			}
		}

		if _, dup := declared[v.Name]; !dup {
			declared[v.Name] = v
		}
	}

	for i, entry := range d.Ignore {
		if strings.TrimSpace(entry) == "" {
			add(errors.ErrInvalidDefinition, fmt.Sprintf("ignore[%d]", i), "entry is empty")
		}
	}

	if _, err := matchers.CompileGlobs(d.CopyWithoutRender); err != nil {
		add(errors.ErrInvalidDefinition, "copy_without_render", "invalid pattern %q", errors.GetErrorDetails(err)["pattern"])
	}

	for i, rule := range d.Cleanup {
		subject := fmt.Sprintf("cleanup[%d]", i)
		v, ok := declared[rule.Name]
		switch {
		case rule.Name == "":
			add(errors.ErrInvalidDefinition, subject, "name is required")
		case !ok:
			warn(subject, "refers to undeclared variable %q, the rule never fires", rule.Name)
		case !rule.Value.IsSupported():
			add(errors.ErrInvalidDefinition, subject, "value %s is not a boolean, string or integer", rule.Value)
		case v.Default.IsSupported() && v.Default.Kind() != rule.Value.Kind():
			warn(subject, "value is a %s but %q is a %s, the rule never fires", rule.Value.Kind(), rule.Name, v.Default.Kind())
		}
		if len(rule.Paths) == 0 {
			warn(subject, "paths is empty")
		}
		for j, p := range rule.Paths {
			if strings.TrimSpace(p) == "" {
				add(errors.ErrInvalidDefinition, subject, "paths[%d] is empty", j)
			}
		}
	}

	return problems
}

// Errors returns the problems that make the definition unusable.
func (d *TemplateDefinition) Errors() []Problem {
	return filterProblems(d.Problems(), false)
}

// Warnings returns the problems that do not stop a generation.
func (d *TemplateDefinition) Warnings() []Problem {
	return filterProblems(d.Problems(), true)
}

func filterProblems(problems []Problem, warning bool) []Problem {
	var out []Problem
	for _, p := range problems {
		if p.Warning == warning {
			out = append(out, p)
		}
	}
	return out
}

// Validate returns nil when the definition has no errors; warnings never
// fail it. Otherwise the error lists every error. Its code is
// UNSUPPORTED_VARIABLE_TYPE when every error is an unsupported default,
// INVALID_DEFINITION otherwise.
func (d *TemplateDefinition) Validate() error {
	problems := d.Errors()
	if len(problems) == 0 {
		return nil
	}

	code := errors.ErrUnsupportedVariableType
	messages := make([]string, 0, len(problems))
	for _, p := range problems {
		if p.Code != errors.ErrUnsupportedVariableType {
			code = errors.ErrInvalidDefinition
		}
		messages = append(messages, p.String())
	}

	return errors.New(code, "invalid template definition: "+strings.Join(messages, "; ")).
		WithDetail("problems", messages)
}

package generate

import (
	"sort"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/prompt"
	"github.com/rs/zerolog"
)

// Resolver collects one answer per applicable variable.
type Resolver struct {
	Prompter prompt.Prompter

	// Presets answer variables up front, keyed by variable name. The raw
	// string is parsed according to the variable's default type.
	Presets map[string]string

	logger zerolog.Logger
}

// NewResolver creates a resolver asking p for every answer that has no preset
func NewResolver(p prompt.Prompter, presets map[string]string) *Resolver {
	return &Resolver{
		Prompter: p,
		Presets:  presets,
		logger:   logging.GetLogger("generate.resolver"),
	}
}

// Resolve walks the variables in declaration order and returns the frozen
// answers. Skipped variables are absent from the result.
func (r *Resolver) Resolve(def *definition.TemplateDefinition) (*definition.Context, error) {
	if err := r.checkPresets(def); err != nil {
		return nil, err
	}

	ctx := definition.NewContext()
	for _, v := range def.Variables {
		if v.OnlyIf != nil && !ctx.Matches(v.OnlyIf.Name, v.OnlyIf.Value) {
			r.logger.Debug().
				Str("variable", v.Name).
				Str("only_if", v.OnlyIf.Name).
				Msg("Condition not met, skipping question")
			continue
		}

		answer, err := r.answer(v)
		if err != nil {
			return nil, err
		}

		if err := ctx.Set(v.Name, answer); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot record answer").
				WithDetail(errors.DetailVariable, v.Name)
		}
		r.logger.Debug().Str("variable", v.Name).Str("answer", answer.String()).Msg("Answer recorded")
	}

	ctx.Freeze()
	return ctx, nil
}

func (r *Resolver) answer(v definition.Variable) (definition.Value, error) {
	kind := v.Default.Kind()
	if !v.Default.IsSupported() {
		return definition.Value{}, errors.Newf(errors.ErrUnsupportedVariableType,
			"variable %q has a default of unsupported type: %s", v.Name, v.Default).
			WithDetail(errors.DetailVariable, v.Name)
	}

	validation, err := v.ValidationRegexp()
	if err != nil {
		return definition.Value{}, errors.Wrapf(err, errors.ErrInvalidDefinition,
			"variable %q has an invalid validation pattern", v.Name).
			WithDetail(errors.DetailVariable, v.Name)
	}

	if raw, ok := r.Presets[v.Name]; ok {
		value, err := definition.ParseValue(kind, raw)
		if err != nil {
			return definition.Value{}, errors.Wrapf(err, errors.ErrInvalidAnswer,
				"preset for %q", v.Name).
				WithDetail(errors.DetailVariable, v.Name)
		}
		r.logger.Info().Str("variable", v.Name).Msg("Using preset answer")
		return value, checkAnswer(v, value)
	}

	if r.Prompter == nil {
		return definition.Value{}, errors.New(errors.ErrInternal, "resolver has no prompter")
	}

	var answer definition.Value
	switch {
	case len(v.Choices) > 0:
		answer, err = r.Prompter.AskChoice(v.Prompt, v.Default, v.Choices)
	case kind == definition.KindBool:
		var b bool
		b, err = r.Prompter.AskBool(v.Prompt, v.Default.Bool())
		answer = definition.Bool(b)
	case kind == definition.KindString:
		var s string
		s, err = r.Prompter.AskString(v.Prompt, v.Default.Str(), validation)
		answer = definition.String(s)
	case kind == definition.KindInteger:
		var i int64
		i, err = r.Prompter.AskInteger(v.Prompt, v.Default.Integer())
		answer = definition.Integer(i)
	}
	if err != nil {
		if errors.GetErrorCode(err) != errors.ErrUnknown {
			return definition.Value{}, err
		}
		return definition.Value{}, errors.Wrapf(err, errors.ErrPrompt,
			"cannot get an answer for %q", v.Name).
			WithDetail(errors.DetailVariable, v.Name)
	}

	return answer, checkAnswer(v, answer)
}

// checkAnswer holds every answer to the rules of its question, whatever
// produced it.
func checkAnswer(v definition.Variable, answer definition.Value) error {
	if answer.Kind() != v.Default.Kind() {
		return errors.Newf(errors.ErrInvalidAnswer,
			"answer for %q is a %s, expected a %s", v.Name, answer.Kind(), v.Default.Kind()).
			WithDetail(errors.DetailVariable, v.Name)
	}

	if len(v.Choices) > 0 {
		found := false
		for _, c := range v.Choices {
			if c.Equal(answer) {
				found = true
				break
			}
		}
		if !found {
			return errors.Newf(errors.ErrInvalidAnswer,
				"answer %q for %q is not one of the choices", answer, v.Name).
				WithDetail(errors.DetailVariable, v.Name)
		}
	}

	if answer.Kind() == definition.KindString && v.Validation != "" {
		re, err := v.ValidationRegexp()
		if err != nil {
			return errors.Wrapf(err, errors.ErrInvalidDefinition,
				"variable %q has an invalid validation pattern", v.Name)
		}
		if !re.MatchString(answer.Str()) {
			return errors.Newf(errors.ErrInvalidAnswer,
				"answer %q for %q does not match %s", answer.Str(), v.Name, v.Validation).
				WithDetail(errors.DetailVariable, v.Name)
		}
	}
	return nil
}

// checkPresets rejects presets naming variables the template does not declare
func (r *Resolver) checkPresets(def *definition.TemplateDefinition) error {
	var unknown []string
	for name := range r.Presets {
		if _, ok := def.Variable(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Newf(errors.ErrInvalidAnswer, "preset for unknown variable(s): %v", unknown).
		WithDetail("variables", unknown)
}

package prompt

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Terminal asks questions with pterm's interactive printers.
type Terminal struct {
	logger zerolog.Logger
	out    io.Writer
}

// NewTerminal creates an interactive prompter writing hints to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		logger: logging.GetLogger("prompt.terminal"),
		out:    out,
	}
}

func (t *Terminal) AskBool(prompt string, def bool) (bool, error) {
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		Show(prompt)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPrompt, "cannot read answer to %q", prompt)
	}
	t.logger.Debug().Str("prompt", prompt).Bool("answer", answer).Msg("Answered")
	return answer, nil
}

func (t *Terminal) AskString(prompt, def string, validation *regexp.Regexp) (string, error) {
	for {
		answer, err := pterm.DefaultInteractiveTextInput.
			WithDefaultValue(def).
			Show(prompt)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrPrompt, "cannot read answer to %q", prompt)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = def
		}
		if validation == nil || validation.MatchString(answer) {
			t.logger.Debug().Str("prompt", prompt).Str("answer", answer).Msg("Answered")
			return answer, nil
		}
		pterm.Warning.WithWriter(t.out).Printfln("%q does not match the pattern %s, try again", answer, validation)
	}
}

func (t *Terminal) AskInteger(prompt string, def int64) (int64, error) {
	for {
		answer, err := pterm.DefaultInteractiveTextInput.
			WithDefaultValue(strconv.FormatInt(def, 10)).
			Show(prompt)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrPrompt, "cannot read answer to %q", prompt)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return def, nil
		}
		n, err := strconv.ParseInt(answer, 10, 64)
		if err == nil {
			t.logger.Debug().Str("prompt", prompt).Int64("answer", n).Msg("Answered")
			return n, nil
		}
		pterm.Warning.WithWriter(t.out).Printfln("%q is not an integer, try again", answer)
	}
}

func (t *Terminal) AskChoice(prompt string, def definition.Value, choices []definition.Value) (definition.Value, error) {
	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(ChoiceLabels(choices)).
		WithDefaultOption(def.String()).
		Show(prompt)
	if err != nil {
		return definition.Value{}, errors.Wrapf(err, errors.ErrPrompt, "cannot read answer to %q", prompt)
	}
	value, ok := FindChoice(selected, choices)
	if !ok {
		return definition.Value{}, errors.Newf(errors.ErrInvalidAnswer, "%q is not one of the choices", selected)
	}
	t.logger.Debug().Str("prompt", prompt).Str("answer", selected).Msg("Answered")
	return value, nil
}

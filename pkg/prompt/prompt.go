// Package prompt asks the template's questions.
//
// The resolver only depends on the Prompter interface. Terminal asks
// interactively with pterm; Defaults answers every question with its
// default and is used for --no-input runs and when stdin is not a terminal.
package prompt

import (
	"regexp"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
)

// Prompter collects one answer per call.
type Prompter interface {
	AskBool(prompt string, def bool) (bool, error)
	// AskString re-asks until the answer matches validation, when one is given.
	AskString(prompt, def string, validation *regexp.Regexp) (string, error)
	AskInteger(prompt string, def int64) (int64, error)
	// AskChoice returns one of choices; the result has the same tag as def.
	AskChoice(prompt string, def definition.Value, choices []definition.Value) (definition.Value, error)
}

// Defaults answers every question with its default value.
type Defaults struct{}

// NewDefaults creates a non-interactive prompter
func NewDefaults() *Defaults {
	return &Defaults{}
}

func (d *Defaults) AskBool(_ string, def bool) (bool, error) {
	return def, nil
}

func (d *Defaults) AskString(prompt, def string, validation *regexp.Regexp) (string, error) {
	if validation != nil && !validation.MatchString(def) {
		return "", errors.Newf(errors.ErrInvalidAnswer,
			"default %q for %q does not match %s and no input is allowed", def, prompt, validation)
	}
	return def, nil
}

func (d *Defaults) AskInteger(_ string, def int64) (int64, error) {
	return def, nil
}

func (d *Defaults) AskChoice(_ string, def definition.Value, _ []definition.Value) (definition.Value, error) {
	return def, nil
}

// ChoiceLabels renders choices the way they are displayed in a selection.
func ChoiceLabels(choices []definition.Value) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.String()
	}
	return labels
}

// FindChoice maps a selected label back to its value.
func FindChoice(label string, choices []definition.Value) (definition.Value, bool) {
	for _, c := range choices {
		if c.String() == label {
			return c, true
		}
	}
	return definition.Value{}, false
}

package testutil

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/johnlanda/kickstart/pkg/definition"
)

// Scripted is a prompter that replays answers keyed by prompt text.
// Questions without a scripted answer get their default. Every question
// asked is recorded in order so tests can assert what was skipped.
type Scripted struct {
	mu      sync.Mutex
	answers map[string]interface{}
	asked   []string
	err     error
}

// NewScripted creates a prompter answering prompts from answers.
// Values must be bool, string, int64 or int.
func NewScripted(answers map[string]interface{}) *Scripted {
	if answers == nil {
		answers = map[string]interface{}{}
	}
	return &Scripted{answers: answers}
}

// FailWith makes every subsequent question return err
func (s *Scripted) FailWith(err error) *Scripted {
	s.err = err
	return s
}

// Asked returns the prompts in the order they were asked
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}

func (s *Scripted) next(prompt string) (interface{}, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, prompt)
	if s.err != nil {
		return nil, false, s.err
	}
	a, ok := s.answers[prompt]
	return a, ok, nil
}

func (s *Scripted) AskBool(prompt string, def bool) (bool, error) {
	a, ok, err := s.next(prompt)
	if err != nil || !ok {
		return def, err
	}
	b, isBool := a.(bool)
	if !isBool {
		return false, fmt.Errorf("scripted answer for %q is %T, not bool", prompt, a)
	}
	return b, nil
}

func (s *Scripted) AskString(prompt, def string, validation *regexp.Regexp) (string, error) {
	a, ok, err := s.next(prompt)
	if err != nil {
		return "", err
	}
	answer := def
	if ok {
		str, isStr := a.(string)
		if !isStr {
			return "", fmt.Errorf("scripted answer for %q is %T, not string", prompt, a)
		}
		answer = str
	}
	if validation != nil && !validation.MatchString(answer) {
		return "", fmt.Errorf("scripted answer %q for %q does not match %s", answer, prompt, validation)
	}
	return answer, nil
}

func (s *Scripted) AskInteger(prompt string, def int64) (int64, error) {
	a, ok, err := s.next(prompt)
	if err != nil || !ok {
		return def, err
	}
	switch n := a.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("scripted answer for %q is %T, not integer", prompt, a)
}

func (s *Scripted) AskChoice(prompt string, def definition.Value, choices []definition.Value) (definition.Value, error) {
	a, ok, err := s.next(prompt)
	if err != nil || !ok {
		return def, err
	}
	if v, isValue := a.(definition.Value); isValue {
		return v, nil
	}
	if n, isInt := a.(int); isInt {
		a = int64(n)
	}
	want := definition.ValueOf(a)
	for _, c := range choices {
		if c.Equal(want) {
			return c, nil
		}
	}
	return definition.Value{}, fmt.Errorf("scripted answer %v for %q is not one of the choices", a, prompt)
}

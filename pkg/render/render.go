// Package render executes path and content templates against the
// collected answers.
package render

import (
	"strings"
	"text/template"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/masterminds/sprig"
)

// reserved names are text/template keywords and builtins; variables with
// these names are only reachable as fields on dot.
var reserved = map[string]bool{
	"if": true, "else": true, "end": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "nil": true,
	"break": true, "continue": true,
	"and": true, "or": true, "not": true, "len": true, "index": true,
	"slice": true, "print": true, "printf": true, "println": true,
	"html": true, "js": true, "urlquery": true, "call": true,
	"eq": true, "ne": true, "lt": true, "le": true, "gt": true, "ge": true,
}

// Engine renders templates with Go's text/template, the sprig function
// map and strict handling of undefined variables.
//
// Every answer is available as a field on dot. Answers whose name is not
// already a function are also zero-argument functions, so "{{.project_name}}"
// and "{{project_name}}" render the same, while an answer called "title"
// leaves sprig's title intact and is read as "{{.title}}".
type Engine struct {
	data  map[string]interface{}
	funcs template.FuncMap
}

// New creates an engine for a frozen set of answers
func New(ctx *definition.Context) *Engine {
	data := ctx.Data()
	funcs := DefaultFunctions()
	for name, value := range data {
		if reserved[name] {
			continue
		}
		if _, taken := funcs[name]; taken {
			continue
		}
		v := value
		funcs[name] = func() interface{} { return v }
	}
	return &Engine{data: data, funcs: funcs}
}

// DefaultFunctions returns the function map available in every template
func DefaultFunctions() template.FuncMap {
	funcs := template.FuncMap{}
	for k, v := range sprig.TxtFuncMap() {
		funcs[k] = v
	}
	return funcs
}

// IsFunction reports whether name is a template keyword or function, in
// which case an answer with that name is only reachable as a field on dot.
func IsFunction(name string) bool {
	if reserved[name] {
		return true
	}
	_, ok := sprig.TxtFuncMap()[name]
	return ok
}

// Render executes text as a template named name. Parse and execution
// failures, including references to unknown variables, return a RENDER error.
func (e *Engine) Render(name, text string) (string, error) {
	// nothing to substitute
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(e.funcs).
		Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "cannot parse template %s", name)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, e.data); err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "cannot render template %s", name)
	}
	return b.String(), nil
}

package definition

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFileNames are the definition files looked up in a template root,
// in order of preference.
var DefaultFileNames = []string{"template.toml", "template.yaml", "template.yml"}

// Condition makes a variable depend on the answer to an earlier one.
type Condition struct {
	Name  string
	Value Value
}

// Variable is one question asked before generation.
type Variable struct {
	Name       string
	Prompt     string
	Default    Value
	Choices    []Value
	Validation string
	OnlyIf     *Condition
}

// ValidationRegexp compiles the validation pattern, or returns nil when
// the variable has none.
func (v Variable) ValidationRegexp() (*regexp.Regexp, error) {
	if v.Validation == "" {
		return nil, nil
	}
	return regexp.Compile(v.Validation)
}

// CleanupRule deletes Paths from the output when the answer to Name equals Value.
type CleanupRule struct {
	Name  string
	Value Value
	Paths []string
}

// TemplateDefinition is the parsed template.toml of a template.
type TemplateDefinition struct {
	Name              string
	Description       string
	Variables         []Variable
	Ignore            []string
	CopyWithoutRender []string
	Cleanup           []CleanupRule
}

// Variable returns the declared variable with the given name
func (d *TemplateDefinition) Variable(name string) (Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

type rawCondition struct {
	Name  string      `toml:"name" yaml:"name"`
	Value interface{} `toml:"value" yaml:"value"`
}

type rawVariable struct {
	Name       string        `toml:"name" yaml:"name"`
	Prompt     string        `toml:"prompt" yaml:"prompt"`
	Default    interface{}   `toml:"default" yaml:"default"`
	Choices    []interface{} `toml:"choices" yaml:"choices"`
	Validation string        `toml:"validation" yaml:"validation"`
	OnlyIf     *rawCondition `toml:"only_if" yaml:"only_if"`
}

type rawCleanup struct {
	Name  string      `toml:"name" yaml:"name"`
	Value interface{} `toml:"value" yaml:"value"`
	Paths []string    `toml:"paths" yaml:"paths"`
}

type rawDefinition struct {
	Name              string        `toml:"name" yaml:"name"`
	Description       string        `toml:"description" yaml:"description"`
	Variables         []rawVariable `toml:"variables" yaml:"variables"`
	Ignore            []string      `toml:"ignore" yaml:"ignore"`
	CopyWithoutRender []string      `toml:"copy_without_render" yaml:"copy_without_render"`
	Cleanup           []rawCleanup  `toml:"cleanup" yaml:"cleanup"`
}

func (r rawDefinition) convert() *TemplateDefinition {
	def := &TemplateDefinition{
		Name:              r.Name,
		Description:       r.Description,
		Ignore:            r.Ignore,
		CopyWithoutRender: r.CopyWithoutRender,
	}
	for _, rv := range r.Variables {
		v := Variable{
			Name:       rv.Name,
			Prompt:     rv.Prompt,
			Default:    ValueOf(rv.Default),
			Validation: rv.Validation,
		}
		for _, c := range rv.Choices {
			v.Choices = append(v.Choices, ValueOf(c))
		}
		if rv.OnlyIf != nil {
			v.OnlyIf = &Condition{Name: rv.OnlyIf.Name, Value: ValueOf(rv.OnlyIf.Value)}
		}
		def.Variables = append(def.Variables, v)
	}
	for _, rc := range r.Cleanup {
		def.Cleanup = append(def.Cleanup, CleanupRule{
			Name:  rc.Name,
			Value: ValueOf(rc.Value),
			Paths: rc.Paths,
		})
	}
	return def
}

// Parse decodes a definition document. The format is chosen from the file
// extension; anything that is not .yaml or .yml is read as TOML. Unknown
// keys are rejected.
func Parse(filename string, data []byte) (*TemplateDefinition, error) {
	var raw rawDefinition
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, errors.ErrInvalidDefinition, "failed to parse %s", filename).
				WithPath(filename)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidDefinition, "failed to parse %s", filename).
				WithPath(filename)
		}
	}
	return raw.convert(), nil
}

// Find returns the path of the first definition file present in root.
func Find(fs types.FS, root string, names []string) (string, error) {
	if len(names) == 0 {
		names = DefaultFileNames
	}
	for _, name := range names {
		path := filepath.Join(root, name)
		info, err := fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrIO, "cannot stat %s", path).WithPath(path)
		}
	}
	return "", errors.Newf(errors.ErrMissingDefinition, "no %s found in %s", strings.Join(names, " or "), root).
		WithPath(root)
}

// Load finds, parses and validates the definition of the template at root.
// It returns the definition and the path it was read from.
func Load(fs types.FS, root string, names []string) (*TemplateDefinition, string, error) {
	logger := logging.GetLogger("definition")

	path, err := Find(fs, root, names)
	if err != nil {
		return nil, "", err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, errors.ErrIO, "cannot read %s", path).WithPath(path)
	}

	def, err := Parse(path, data)
	if err != nil {
		return nil, "", err
	}

	if err := def.Validate(); err != nil {
		return nil, "", err
	}
	for _, w := range def.Warnings() {
		logger.Warn().Str("path", path).Str("subject", w.Subject).Msg(w.Message)
	}

	logger.Debug().
		Str("path", path).
		Int("variables", len(def.Variables)).
		Int("ignore", len(def.Ignore)).
		Int("copy_without_render", len(def.CopyWithoutRender)).
		Int("cleanup", len(def.Cleanup)).
		Msg("Template definition loaded")

	return def, path, nil
}

package generate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/matchers"
	"github.com/johnlanda/kickstart/pkg/prompt"
	"github.com/johnlanda/kickstart/pkg/render"
	"github.com/johnlanda/kickstart/pkg/types"
	"github.com/rs/zerolog"
)

// stagingSuffix names the sibling directory an atomic run writes into
const stagingSuffix = ".kickstart-staging"

// Options configure a Generator.
type Options struct {
	DefinitionFiles []string
	VCSDirs         []string
	IgnoreMode      matchers.IgnoreMode
	Presets         map[string]string

	// Atomic stages the output next to its final location and moves it into
	// place only when every phase succeeded. The output must not exist yet.
	Atomic bool
}

// Template is a loaded template root.
type Template struct {
	Root           string
	DefinitionFile string
	Definition     *definition.TemplateDefinition
}

// Result describes a finished generation.
type Result struct {
	Template *Template
	Answers  *definition.Context
	Output   string
	Removed  []string
	Summary  Summary
}

// Generator runs the resolve, walk and cleanup phases.
type Generator struct {
	fs       types.FS
	prompter prompt.Prompter
	opts     Options
	logger   zerolog.Logger
}

// New creates a generator reading and writing through filesystem
func New(filesystem types.FS, prompter prompt.Prompter, opts Options) *Generator {
	return &Generator{
		fs:       filesystem,
		prompter: prompter,
		opts:     opts,
		logger:   logging.GetLogger("generate"),
	}
}

// Load reads and validates the definition of the template at root
func (g *Generator) Load(root string) (*Template, error) {
	def, file, err := definition.Load(g.fs, root, g.opts.DefinitionFiles)
	if err != nil {
		return nil, err
	}
	return &Template{Root: root, DefinitionFile: file, Definition: def}, nil
}

// Run loads the template at templateRoot and generates it into outputRoot.
func (g *Generator) Run(ctx context.Context, templateRoot, outputRoot string) (*Result, error) {
	tpl, err := g.Load(templateRoot)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, tpl, outputRoot)
}

// Generate asks the template's questions and writes the project.
func (g *Generator) Generate(ctx context.Context, tpl *Template, outputRoot string) (*Result, error) {
	done := logging.LogOperationStart(g.logger, "generate")
	defer done()

	answers, err := NewResolver(g.prompter, g.opts.Presets).Resolve(tpl.Definition)
	if err != nil {
		return nil, err
	}

	target := outputRoot
	if g.opts.Atomic {
		target, err = g.prepareStaging(outputRoot)
		if err != nil {
			return nil, err
		}
	}

	result, err := g.write(ctx, tpl, answers, target)
	if err != nil {
		if g.opts.Atomic {
			if rmErr := g.fs.RemoveAll(target); rmErr != nil {
				g.logger.Warn().Err(rmErr).Str("path", target).Msg("Failed to remove staging directory")
			}
		}
		return nil, err
	}

	if g.opts.Atomic {
		if err := g.fs.Rename(target, outputRoot); err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "cannot move staged output to %s", outputRoot).
				WithPath(outputRoot)
		}
		g.logger.Debug().Str("from", target).Str("to", outputRoot).Msg("Staged output moved into place")
	}

	result.Output = outputRoot
	return result, nil
}

func (g *Generator) write(ctx context.Context, tpl *Template, answers *definition.Context, target string) (*Result, error) {
	engine := render.New(answers)

	walker, err := NewWalker(g.fs, tpl.Definition, engine, WalkOptions{
		IgnoreMode:      g.opts.IgnoreMode,
		VCSDirs:         g.opts.VCSDirs,
		DefinitionFile:  tpl.DefinitionFile,
		DefinitionFiles: g.opts.DefinitionFiles,
	})
	if err != nil {
		return nil, err
	}
	if err := walker.Walk(ctx, tpl.Root, target); err != nil {
		return nil, err
	}

	cleaner := NewCleaner(g.fs, tpl.Definition.Cleanup, answers, engine)
	if err := cleaner.Clean(target); err != nil {
		return nil, err
	}

	summary := walker.Summary()
	removed := cleaner.Removed()
	summary.Cleaned = len(removed)

	g.logger.Info().
		Int("rendered", summary.Rendered).
		Int("copied", summary.Copied).
		Int("directories", summary.Directories).
		Int("ignored", summary.Ignored).
		Int("cleaned", summary.Cleaned).
		Msg("Generation complete")

	return &Result{
		Template: tpl,
		Answers:  answers,
		Removed:  removed,
		Summary:  summary,
	}, nil
}

// prepareStaging returns an empty sibling directory of outputRoot
func (g *Generator) prepareStaging(outputRoot string) (string, error) {
	if _, err := g.fs.Lstat(outputRoot); err == nil {
		return "", errors.Newf(errors.ErrIO, "%s already exists; atomic generation needs a new output directory", outputRoot).
			WithPath(outputRoot)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrIO, "cannot stat %s", outputRoot).WithPath(outputRoot)
	}

	clean := filepath.Clean(outputRoot)
	staging := filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+stagingSuffix)

	// left behind by an interrupted run
	if err := g.fs.RemoveAll(staging); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "cannot clear %s", staging).WithPath(staging)
	}
	if err := g.fs.MkdirAll(filepath.Dir(clean), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "cannot create %s", filepath.Dir(clean)).WithPath(filepath.Dir(clean))
	}
	return staging, nil
}

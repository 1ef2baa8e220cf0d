package generate

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/johnlanda/kickstart/pkg/binary"
	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/matchers"
	"github.com/johnlanda/kickstart/pkg/render"
	"github.com/johnlanda/kickstart/pkg/types"
	"github.com/rs/zerolog"
)

// Summary counts what a generation did.
type Summary struct {
	Rendered    int // Text files written through the template engine
	Copied      int // Files copied byte for byte
	Directories int // Directories created or reused
	Ignored     int // Entries skipped by an ignore entry
	Cleaned     int // Paths removed by cleanup rules
}

// WalkOptions tune how a template tree is walked.
type WalkOptions struct {
	IgnoreMode matchers.IgnoreMode
	VCSDirs    []string

	// DefinitionFile is the path of the definition inside the template
	// root; it is never copied to the output.
	DefinitionFile string

	// DefinitionFiles are the definition file names. Files with one of
	// these names at the template root are not copied either, whichever
	// one was loaded. Defaults to definition.DefaultFileNames.
	DefinitionFiles []string
}

// Walker renders a template tree into an output directory.
type Walker struct {
	fs             types.FS
	engine         *render.Engine
	ignore         *matchers.IgnoreMatcher
	copyVerbatim   *matchers.GlobSet
	vcsDirs        []string
	definitionFile string
	definitionSet  map[string]bool
	summary        Summary
	logger         zerolog.Logger

	// skipRel is the output directory when it sits inside the template
	skipRel string
}

// NewWalker prepares a walk of a template described by def, rendered with engine.
func NewWalker(filesystem types.FS, def *definition.TemplateDefinition, engine *render.Engine, opts WalkOptions) (*Walker, error) {
	globs, err := matchers.CompileGlobs(def.CopyWithoutRender)
	if err != nil {
		return nil, err
	}

	vcsDirs := opts.VCSDirs
	if vcsDirs == nil {
		vcsDirs = matchers.DefaultVCSDirs
	}

	names := opts.DefinitionFiles
	if len(names) == 0 {
		names = definition.DefaultFileNames
	}
	definitionSet := make(map[string]bool, len(names))
	for _, n := range names {
		definitionSet[n] = true
	}

	return &Walker{
		fs:             filesystem,
		engine:         engine,
		ignore:         matchers.NewIgnoreMatcher(def.Ignore, opts.IgnoreMode),
		copyVerbatim:   globs,
		vcsDirs:        vcsDirs,
		definitionFile: opts.DefinitionFile,
		definitionSet:  definitionSet,
		logger:         logging.GetLogger("generate.walker"),
	}, nil
}

// Summary returns the counts of the last walk
func (w *Walker) Summary() Summary {
	return w.summary
}

// Walk visits templateRoot depth-first in lexical order and writes the
// rendered tree below outputRoot, creating it when absent. The first
// failure stops the walk; files already written stay in place.
func (w *Walker) Walk(ctx context.Context, templateRoot, outputRoot string) error {
	w.summary = Summary{}
	w.skipRel = ""

	if rel, err := filepath.Rel(templateRoot, outputRoot); err == nil {
		rel = filepath.ToSlash(rel)
		if matchers.IsWithin(rel) {
			w.skipRel = rel
		}
	}

	if err := w.fs.MkdirAll(outputRoot, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create output directory %s", outputRoot).
			WithPath(outputRoot)
	}

	return w.walkDir(ctx, templateRoot, outputRoot, "")
}

func (w *Walker) walkDir(ctx context.Context, templateRoot, outputRoot, relDir string) error {
	dir := filepath.Join(templateRoot, filepath.FromSlash(relDir))
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read directory %s", dir).WithPath(dir)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCanceled, "generation interrupted")
		}

		rel := path.Join(relDir, entry.Name())
		src := filepath.Join(templateRoot, filepath.FromSlash(rel))

		if entry.IsDir() && matchers.IsVCSDir(entry.Name(), w.vcsDirs) {
			w.logger.Trace().Str("path", rel).Msg("Skipping version control directory")
			continue
		}
		if src == w.definitionFile || (relDir == "" && !entry.IsDir() && w.definitionSet[entry.Name()]) {
			w.logger.Trace().Str("path", rel).Msg("Skipping definition file")
			continue
		}
		if rel == w.skipRel {
			w.logger.Debug().Str("path", rel).Msg("Skipping output directory inside template")
			continue
		}
		if ignored, by := w.ignore.Match(rel); ignored {
			w.logger.Debug().Str("path", rel).Str("entry", by).Msg("Ignored")
			w.summary.Ignored++
			continue
		}

		destRel, err := w.destination(rel)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputRoot, filepath.FromSlash(destRel))

		if entry.IsDir() {
			if err := w.fs.MkdirAll(dest, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "cannot create directory %s", dest).WithPath(dest)
			}
			w.summary.Directories++
			w.logger.Debug().Str("path", rel).Str("dest", destRel).Str("action", "mkdir").Msg("Directory")

			if err := w.walkDir(ctx, templateRoot, outputRoot, rel); err != nil {
				return err
			}
			continue
		}

		if err := w.writeFile(src, rel, dest, destRel); err != nil {
			return err
		}
	}
	return nil
}

// destination renders a relative template path into a relative output path.
// Each name is rendered on its own and must not come out empty.
func (w *Walker) destination(rel string) (string, error) {
	names := strings.Split(rel, "/")
	for i, name := range names {
		out, err := w.engine.Render(rel, name)
		if err != nil {
			return "", errors.AddDetail(err, errors.DetailPath, rel)
		}
		if strings.TrimSpace(out) == "" {
			return "", errors.Newf(errors.ErrRender, "path %s: %q renders to an empty name", rel, name).
				WithPath(rel)
		}
		names[i] = out
	}
	rendered := strings.Join(names, "/")

	destRel := matchers.NormalizeRel(rendered)
	if !matchers.IsWithin(destRel) {
		return "", errors.Newf(errors.ErrRender, "path %s renders to %q, which is outside the output directory", rel, rendered).
			WithPath(rel)
	}
	return destRel, nil
}

func (w *Walker) writeFile(src, rel, dest, destRel string) error {
	info, err := w.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot stat %s", src).WithPath(src)
	}
	mode := info.Mode().Perm()

	data, err := w.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read %s", src).WithPath(src)
	}

	action := "render"
	if matched, pattern := w.copyVerbatim.Match(destRel); matched {
		action = "copy"
		w.logger.Trace().Str("path", rel).Str("pattern", pattern).Msg("Copy without render")
	} else if binary.LooksBinary(data) {
		action = "copy"
	}

	if action == "render" {
		if !utf8.Valid(data) {
			return errors.Newf(errors.ErrBinaryDecode, "%s is not valid UTF-8 text", rel).WithPath(rel)
		}
		rendered, err := w.engine.Render(rel, string(data))
		if err != nil {
			return errors.AddDetail(err, errors.DetailPath, rel)
		}
		data = []byte(rendered)
	}

	if err := w.write(dest, data, mode); err != nil {
		return err
	}

	if action == "render" {
		w.summary.Rendered++
	} else {
		w.summary.Copied++
	}
	w.logger.Debug().Str("path", rel).Str("dest", destRel).Str("action", action).Msg("File")
	return nil
}

// write stores data at dest and gives it mode even when dest already existed
func (w *Walker) write(dest string, data []byte, mode fs.FileMode) error {
	if err := w.fs.WriteFile(dest, data, mode); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %s", dest).WithPath(dest)
	}
	if err := w.fs.Chmod(dest, mode); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot set mode of %s", dest).WithPath(dest)
	}
	return nil
}

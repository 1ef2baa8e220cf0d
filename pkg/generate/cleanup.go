package generate

import (
	"os"
	"path/filepath"

	"github.com/johnlanda/kickstart/pkg/definition"
	"github.com/johnlanda/kickstart/pkg/errors"
	"github.com/johnlanda/kickstart/pkg/logging"
	"github.com/johnlanda/kickstart/pkg/matchers"
	"github.com/johnlanda/kickstart/pkg/render"
	"github.com/johnlanda/kickstart/pkg/types"
	"github.com/rs/zerolog"
)

// Cleaner removes generated paths that the answers made unwanted.
type Cleaner struct {
	fs      types.FS
	rules   []definition.CleanupRule
	answers *definition.Context
	engine  *render.Engine
	removed []string
	logger  zerolog.Logger
}

// NewCleaner creates a cleaner for rules, matched against answers
func NewCleaner(filesystem types.FS, rules []definition.CleanupRule, answers *definition.Context, engine *render.Engine) *Cleaner {
	return &Cleaner{
		fs:      filesystem,
		rules:   rules,
		answers: answers,
		engine:  engine,
		logger:  logging.GetLogger("generate.cleanup"),
	}
}

// Removed returns the output-relative paths deleted by the last Clean
func (c *Cleaner) Removed() []string {
	out := make([]string, len(c.removed))
	copy(out, c.removed)
	return out
}

// Clean applies the rules in declaration order. A rule fires when its
// variable was answered with exactly its value; every rendered path is then
// removed recursively. Paths that do not exist are skipped, so running
// Clean twice has the same effect as running it once.
func (c *Cleaner) Clean(outputRoot string) error {
	c.removed = nil

	for i, rule := range c.rules {
		if !c.answers.Matches(rule.Name, rule.Value) {
			continue
		}
		c.logger.Debug().Int("rule", i).Str("variable", rule.Name).Msg("Cleanup rule matched")

		for _, p := range rule.Paths {
			rendered, err := c.engine.Render("cleanup", p)
			if err != nil {
				return errors.AddDetail(err, errors.DetailRule, rule.Name)
			}

			rel := matchers.NormalizeRel(rendered)
			if !matchers.IsWithin(rel) {
				return errors.Newf(errors.ErrIO, "cleanup path %q is outside the output directory", rendered).
					WithPath(rendered).
					WithDetail(errors.DetailRule, rule.Name)
			}

			if err := c.remove(outputRoot, rel); err != nil {
				return errors.AddDetail(err, errors.DetailRule, rule.Name)
			}
		}
	}
	return nil
}

func (c *Cleaner) remove(outputRoot, rel string) error {
	target := filepath.Join(outputRoot, filepath.FromSlash(rel))

	if _, err := c.fs.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug().Str("path", rel).Msg("Nothing to clean up")
			return nil
		}
		return errors.Wrapf(err, errors.ErrIO, "cannot stat %s", target).WithPath(target)
	}

	if err := c.fs.RemoveAll(target); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot remove %s", target).WithPath(target)
	}
	c.removed = append(c.removed, rel)
	c.logger.Info().Str("path", rel).Str("action", "remove").Msg("Removed")
	return nil
}
